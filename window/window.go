// Package window provides the GLFW window used to present wgpudriver output
// on screen. It owns GLFW initialization, exposes a platform-appropriate
// WebGPU surface descriptor, and pumps input events.
package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/glint/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the implementation of the Window interface.
type glfwWindow struct {
	title  string
	width  int
	height int

	window  *glfw.Window
	running bool

	onResize func(width, height int)
	onKey    func(keyCode uint32, pressed bool)
}

// Window wraps a native window with the handful of operations glint needs:
// a WebGPU surface descriptor, event polling, and pixel dimensions.
type Window interface {
	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for
	// creating a WebGPU surface over this window. The descriptor is
	// platform-appropriate (Windows HWND, X11, Wayland, macOS Metal).
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// SetResizeCallback sets the function called when the framebuffer is
	// resized, with the new pixel dimensions.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the function called on key press and release.
	//
	// Parameters:
	//   - callback: function receiving the key code and its pressed state
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// Poll pumps pending window events without blocking and reports
	// whether the window is still open.
	//
	// Returns:
	//   - bool: false once the window has been closed
	Poll() bool

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: if the window was never opened
	Close() error
}

var _ Window = &glfwWindow{}

// New opens a window. Must be called from the main goroutine; the calling
// goroutine is locked to its OS thread for GLFW's benefit.
//
// Parameters:
//   - options: window configuration
//
// Returns:
//   - Window: the opened window
//   - error: if GLFW or the window cannot be initialized
func New(options ...WindowOption) (Window, error) {
	runtime.LockOSThread()

	w := &glfwWindow{}
	for _, option := range options {
		option(w)
	}
	w.title = common.Coalesce(w.title, "glint")
	w.width = common.Coalesce(w.width, 800)
	w.height = common.Coalesce(w.height, 600)

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: failed to create GLFW window: %v", err)
	}
	w.window = win
	w.running = true

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKey != nil {
				w.onKey(uint32(key), true)
			}
		case glfw.Release:
			if w.onKey != nil {
				w.onKey(uint32(key), false)
			}
		}
	})

	// Framebuffer size gives pixel-accurate dimensions on high-DPI displays,
	// which surface configuration requires.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return w, nil
}

func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *glfwWindow) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.onKey = callback
}

func (w *glfwWindow) Poll() bool {
	if !w.running {
		return false
	}
	glfw.PollEvents()
	return !w.window.ShouldClose()
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}

func (w *glfwWindow) Close() error {
	if w.window == nil {
		return fmt.Errorf("window: not initialized")
	}
	w.running = false
	w.window.SetShouldClose(true)
	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	return nil
}
