package curve

import (
	"fmt"
	"slices"
	"strings"
)

// Named curve presets.
const (
	PresetLinear    = "linear"
	PresetEase      = "ease"
	PresetEaseIn    = "ease-in"
	PresetEaseOut   = "ease-out"
	PresetEaseInOut = "ease-in-out"
	PresetExpoOut   = "expo-out"
)

// presetPoints holds the control points for each bezier preset.
var presetPoints = map[string][4]float32{
	PresetEase:      {0.25, 0.1, 0.25, 1},
	PresetEaseIn:    {0.42, 0, 1, 1},
	PresetEaseOut:   {0, 0, 0.58, 1},
	PresetEaseInOut: {0.42, 0, 0.58, 1},
	PresetExpoOut:   {0.16, 1, 0.3, 1},
}

// DefaultPoints are the control points of the default morph curve, a strong ease-out.
var DefaultPoints = presetPoints[PresetExpoOut]

// Default returns the default morph curve.
//
// Returns:
//   - *CubicBezier: the expo-out bezier (0.16, 1, 0.3, 1)
func Default() *CubicBezier {
	p := DefaultPoints
	return &CubicBezier{x1: p[0], y1: p[1], x2: p[2], y2: p[3]}
}

// Preset looks up a named curve. Names are case-insensitive.
//
// Parameters:
//   - name: the preset name (see the Preset* constants)
//
// Returns:
//   - Curve: the preset curve
//   - error: ErrUnknownPreset if the name is not registered
func Preset(name string) (Curve, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == PresetLinear {
		return Linear(), nil
	}
	p, ok := presetPoints[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return NewCubicBezier(p[0], p[1], p[2], p[3])
}

// PresetNames returns the sorted names of all registered presets.
//
// Returns:
//   - []string: the preset names
func PresetNames() []string {
	names := make([]string, 0, len(presetPoints)+1)
	names = append(names, PresetLinear)
	for name := range presetPoints {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
