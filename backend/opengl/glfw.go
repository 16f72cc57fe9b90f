package opengl

import (
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/debugdraw"
)

// DefaultToggleKey switches debug drawing on and off.
const DefaultToggleKey = glfw.KeyF3

// GLFWViewportAdapter keeps a debug renderer in sync with a GLFW window:
// framebuffer resizes update the renderer viewport and the toggle key
// enables or disables debug drawing.
type GLFWViewportAdapter struct {
	window    *glfw.Window
	renderer  *debugdraw.Renderer
	toggleKey glfw.Key

	prevKey    glfw.KeyCallback
	prevResize glfw.FramebufferSizeCallback
}

// NewGLFWViewportAdapter creates an adapter and installs its callbacks.
// Callbacks already installed on the window are still called.
func NewGLFWViewportAdapter(window *glfw.Window, renderer *debugdraw.Renderer) *GLFWViewportAdapter {
	a := &GLFWViewportAdapter{
		window:    window,
		renderer:  renderer,
		toggleKey: DefaultToggleKey,
	}

	w, h := window.GetFramebufferSize()
	renderer.SetViewport(w, h)

	a.prevKey = window.SetKeyCallback(a.keyCallback)
	a.prevResize = window.SetFramebufferSizeCallback(a.framebufferSizeCallback)

	return a
}

// SetToggleKey changes the key that toggles debug drawing.
// glfw.KeyUnknown disables toggling.
func (a *GLFWViewportAdapter) SetToggleKey(key glfw.Key) {
	a.toggleKey = key
}

// ToggleKey returns the key that toggles debug drawing.
func (a *GLFWViewportAdapter) ToggleKey() glfw.Key {
	return a.toggleKey
}

func (a *GLFWViewportAdapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if a.prevKey != nil {
		a.prevKey(w, key, scancode, action, mods)
	}
	if key == glfw.KeyUnknown || key != a.toggleKey || action != glfw.Press {
		return
	}
	a.renderer.SetEnabled(!a.renderer.Enabled())
}

func (a *GLFWViewportAdapter) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if a.prevResize != nil {
		a.prevResize(w, width, height)
	}
	a.renderer.SetViewport(width, height)
}

// ParseKey maps a key name such as "F3" or "grave" to a GLFW key.
func ParseKey(name string) (glfw.Key, bool) {
	switch strings.ToLower(name) {
	case "f1":
		return glfw.KeyF1, true
	case "f2":
		return glfw.KeyF2, true
	case "f3":
		return glfw.KeyF3, true
	case "f4":
		return glfw.KeyF4, true
	case "f5":
		return glfw.KeyF5, true
	case "f6":
		return glfw.KeyF6, true
	case "f7":
		return glfw.KeyF7, true
	case "f8":
		return glfw.KeyF8, true
	case "f9":
		return glfw.KeyF9, true
	case "f10":
		return glfw.KeyF10, true
	case "f11":
		return glfw.KeyF11, true
	case "f12":
		return glfw.KeyF12, true
	case "grave", "`":
		return glfw.KeyGraveAccent, true
	case "tab":
		return glfw.KeyTab, true
	case "insert":
		return glfw.KeyInsert, true
	case "home":
		return glfw.KeyHome, true
	case "end":
		return glfw.KeyEnd, true
	case "none", "":
		return glfw.KeyUnknown, true
	default:
		return glfw.KeyUnknown, false
	}
}
