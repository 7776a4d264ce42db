// Package common contains plain helper types and functions shared across the engine. They are not interface-wrapped structs,
// just data and math that several packages agree on.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds texel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Label names the texture for debugging.
	Label string

	// Data is the raw texel data, tightly packed row by row.
	Data []byte

	// Width is the width of the texture in texels.
	Width uint32

	// Height is the height of the texture in texels.
	Height uint32

	// Format is the texel format Data is encoded in.
	Format wgpu.TextureFormat
}

// BytesPerTexel returns the size of one texel for the formats the engine stages.
// Unknown formats report 0.
//
// Returns:
//   - uint32: the texel size in bytes
func (t TextureStagingData) BytesPerTexel() uint32 {
	switch t.Format {
	case wgpu.TextureFormatRGBA32Float:
		return 16
	case wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatRG32Float:
		return 8
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatR32Float:
		return 4
	}
	return 0
}

// BytesPerRow returns the row pitch of the tightly packed data.
//
// Returns:
//   - uint32: Width * BytesPerTexel
func (t TextureStagingData) BytesPerRow() uint32 {
	return t.Width * t.BytesPerTexel()
}

// Valid reports whether Data holds exactly Width*Height texels of a known format.
//
// Returns:
//   - bool: true if the staging data is consistent
func (t TextureStagingData) Valid() bool {
	bpt := t.BytesPerTexel()
	return bpt > 0 && t.Width > 0 && t.Height > 0 && uint64(len(t.Data)) == uint64(t.Width)*uint64(t.Height)*uint64(bpt)
}
