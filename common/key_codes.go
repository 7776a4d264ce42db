package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace     = 32  // Spacebar (ASCII)
	KeyR         = 82  // R key (ASCII)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyRight     = 262 // Right arrow (GLFW)
	KeyLeft      = 263 // Left arrow (GLFW)
	KeyDown      = 264 // Down arrow (GLFW)
	KeyUp        = 265 // Up arrow (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// DigitIndex maps the number row to a zero-based model index: 1 selects 0, 9 selects 8 and 0 selects 9.
//
// Parameters:
//   - key: the key code
//
// Returns:
//   - int: the index
//   - bool: false if key is not a digit
func DigitIndex(key int) (int, bool) {
	switch {
	case key == Key0:
		return 9, true
	case key >= Key1 && key <= Key9:
		return key - Key1, true
	}
	return 0, false
}
