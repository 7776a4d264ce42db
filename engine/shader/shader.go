// Package shader reflects WGSL source into the wgpu layout descriptors needed to bind it.
// Only the subset of WGSL used by the engine's point shaders is understood: entry points,
// struct layouts, vertex input structs and @group/@binding resource declarations.
package shader

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoEntryPoint is returned when WGSL source declares no @vertex, @fragment or @compute function.
	ErrNoEntryPoint = errors.New("shader: no entry point found")

	// ErrUnknownGroup is returned when a bind group index has no declarations.
	ErrUnknownGroup = errors.New("shader: bind group not declared")
)

// Stage identifies a shader entry point kind.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// String returns the WGSL attribute name of the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	}
	return "unknown"
}

// Binding describes one @group(G) @binding(B) resource declaration.
type Binding struct {
	Group        uint32
	Binding      uint32
	Name         string
	Type         string
	AddressSpace string

	// Size is the resolved byte size of buffer bindings, 0 for handles or unresolvable types.
	Size uint64
}

// Reflection is the result of reflecting a WGSL module.
type Reflection struct {
	entryPoints   map[Stage]string
	bindings      []Binding
	structSizes   map[string]uint64
	vertexLayouts []wgpu.VertexBufferLayout
}

// Reflect parses WGSL source.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - *Reflection: the reflected module
//   - error: ErrNoEntryPoint if the source declares no entry point
func Reflect(source string) (*Reflection, error) {
	cleaned := stripComments(source)

	r := &Reflection{
		entryPoints: make(map[Stage]string, 3),
		structSizes: make(map[string]uint64),
	}
	for stage, re := range entryRegexes {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			r.entryPoints[stage] = m[1]
		}
	}
	if len(r.entryPoints) == 0 {
		return nil, ErrNoEntryPoint
	}

	structs := parseStructs(cleaned)
	layouts := computeStructLayouts(structs)
	for name, l := range layouts {
		r.structSizes[name] = l.size
	}

	for _, ps := range structs {
		if layout, ok := vertexLayout(ps); ok {
			r.vertexLayouts = append(r.vertexLayouts, layout)
		}
	}

	for _, m := range bindingRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.ParseUint(m[1], 10, 32)
		binding, _ := strconv.ParseUint(m[2], 10, 32)
		b := Binding{
			Group:        uint32(group),
			Binding:      uint32(binding),
			AddressSpace: strings.TrimSpace(m[3]),
			Name:         m[4],
			Type:         strings.TrimSpace(m[5]),
		}
		if b.AddressSpace != "" {
			if l, ok := resolveLayout(b.Type, layouts); ok {
				b.Size = l.size
			}
		}
		r.bindings = append(r.bindings, b)
	}
	sort.Slice(r.bindings, func(i, j int) bool {
		if r.bindings[i].Group != r.bindings[j].Group {
			return r.bindings[i].Group < r.bindings[j].Group
		}
		return r.bindings[i].Binding < r.bindings[j].Binding
	})

	return r, nil
}

// EntryPoint returns the function name of the entry point for stage.
//
// Parameters:
//   - stage: the entry point kind
//
// Returns:
//   - string: the function name
//   - bool: false if the module has no entry point for stage
func (r *Reflection) EntryPoint(stage Stage) (string, bool) {
	name, ok := r.entryPoints[stage]
	return name, ok
}

// Bindings returns every resource declaration ordered by group then binding.
//
// Returns:
//   - []Binding: a copy of the declarations
func (r *Reflection) Bindings() []Binding {
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Lookup finds a resource declaration by variable name.
//
// Parameters:
//   - name: the WGSL variable name
//
// Returns:
//   - Binding: the declaration
//   - bool: false if no declaration has that name
func (r *Reflection) Lookup(name string) (Binding, bool) {
	for _, b := range r.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// StructSize returns the host-shareable size of a struct declared in the module.
//
// Parameters:
//   - name: the struct name
//
// Returns:
//   - uint64: the size in bytes
//   - bool: false if the struct is unknown or could not be laid out
func (r *Reflection) StructSize(name string) (uint64, bool) {
	size, ok := r.structSizes[name]
	return size, ok
}

// VertexLayouts returns one buffer layout per vertex input struct, in declaration order.
//
// Returns:
//   - []wgpu.VertexBufferLayout: the layouts
func (r *Reflection) VertexLayouts() []wgpu.VertexBufferLayout {
	return r.vertexLayouts
}

// BindGroupLayout builds the layout descriptor of one bind group.
//
// Parameters:
//   - group: the @group index
//   - visibility: the stages every entry is visible to
//   - label: the descriptor label
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: entries ordered by binding
//   - error: ErrUnknownGroup if nothing is declared in group
func (r *Reflection) BindGroupLayout(group uint32, visibility wgpu.ShaderStage, label string) (wgpu.BindGroupLayoutDescriptor, error) {
	var entries []wgpu.BindGroupLayoutEntry
	for _, b := range r.bindings {
		if b.Group != group {
			continue
		}
		entries = append(entries, layoutEntry(b, visibility))
	}
	if len(entries) == 0 {
		return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("%w: %d", ErrUnknownGroup, group)
	}
	return wgpu.BindGroupLayoutDescriptor{Label: label, Entries: entries}, nil
}
