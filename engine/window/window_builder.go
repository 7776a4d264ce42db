package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the base title. SetTitle replaces it at runtime.
//
// Parameters:
//   - title: the title bar text; empty keeps the default
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		if title != "" {
			w.title = title
		}
	}
}

// WithSize sets the initial framebuffer size. A zero dimension keeps its default.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = pick(width, w.width)
		w.height = pick(height, w.height)
	}
}

// WithMinSize bounds how small the window can be resized. A zero dimension keeps its default.
//
// Parameters:
//   - width: minimum width in pixels
//   - height: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = pick(width, w.minWidth)
		w.minHeight = pick(height, w.minHeight)
	}
}

// WithMaxSize bounds how large the window can be resized. A zero dimension keeps its default.
//
// Parameters:
//   - width: maximum width in pixels
//   - height: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = pick(width, w.maxWidth)
		w.maxHeight = pick(height, w.maxHeight)
	}
}

func pick(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
