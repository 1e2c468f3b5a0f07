package window

// WindowOption defines a functional option for configuring a Window at New.
type WindowOption func(*glfwWindow)

// WithTitle sets the window title. Defaults to "glint".
//
// Parameters:
//   - title: the title bar text
//
// Returns:
//   - WindowOption: the option to apply
func WithTitle(title string) WindowOption {
	return func(w *glfwWindow) {
		w.title = title
	}
}

// WithSize sets the requested window size in screen coordinates. The actual
// framebuffer may differ on high-DPI displays. Defaults to 800x600.
//
// Parameters:
//   - width: the requested width
//   - height: the requested height
//
// Returns:
//   - WindowOption: the option to apply
func WithSize(width, height int) WindowOption {
	return func(w *glfwWindow) {
		if width > 0 && height > 0 {
			w.width = width
			w.height = height
		}
	}
}
