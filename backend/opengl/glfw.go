package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// OpenWindow creates a window with an OpenGL 4.1 core context, makes the
// context current and loads the GL function pointers.
// glfw.Init must have been called on the main thread.
func OpenWindow(title string, width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl init: %w", err)
	}
	return window, nil
}

// GLFWWindowAdapter keeps a Renderer in sync with a GLFW window and routes
// key presses to registered handlers.
type GLFWWindowAdapter struct {
	window   *glfw.Window
	renderer *Renderer
	handlers map[glfw.Key]func()

	width, height int
}

// NewGLFWWindowAdapter creates a new adapter. Escape closes the window
// unless another handler is registered for it.
func NewGLFWWindowAdapter(window *glfw.Window, renderer *Renderer) *GLFWWindowAdapter {
	a := &GLFWWindowAdapter{
		window:   window,
		renderer: renderer,
		handlers: make(map[glfw.Key]func()),
	}
	a.handlers[glfw.KeyEscape] = func() { window.SetShouldClose(true) }

	// Setup callbacks
	window.SetFramebufferSizeCallback(a.framebufferSizeCallback)
	window.SetKeyCallback(a.keyCallback)

	w, h := window.GetFramebufferSize()
	a.framebufferSizeCallback(window, w, h)

	return a
}

// OnKey registers fn to run when key is pressed.
func (a *GLFWWindowAdapter) OnKey(key glfw.Key, fn func()) {
	a.handlers[key] = fn
}

// Size returns the current framebuffer size.
func (a *GLFWWindowAdapter) Size() (width, height int) {
	return a.width, a.height
}

func (a *GLFWWindowAdapter) framebufferSizeCallback(w *glfw.Window, width, height int) {
	a.width, a.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	a.renderer.Resize(width, height)
}

func (a *GLFWWindowAdapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if fn, ok := a.handlers[key]; ok {
		fn()
	}
}
