package pointsfx

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultColorHex are the three default point colors.
var DefaultColorHex = [3]string{"#D0BFFF", "#FF4B91", "#FFCD4B"}

// DefaultColors returns DefaultColorHex parsed into RGBA.
//
// Returns:
//   - [3][4]float32: the default colors
func DefaultColors() [3][4]float32 {
	var out [3][4]float32
	for i, h := range DefaultColorHex {
		out[i], _ = ParseHexColor(h)
	}
	return out
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" (leading # optional) into normalized RGBA.
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - [4]float32: the color with each channel in [0, 1]; alpha defaults to 1
//   - error: ErrInvalidColor if s is malformed
func ParseHexColor(s string) ([4]float32, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return [4]float32{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return [4]float32{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
