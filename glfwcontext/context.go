package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/twotriangles/graphics"
	"github.com/richinsley/twotriangles/options"
)

// Context is a GLFW window with an OpenGL 4.1 core context. Window-system
// callbacks only queue events; the render loop drains them with Events.
type Context struct {
	window *glfw.Window
	events []graphics.Event
}

// New creates a GLFW window sized and titled from the scene config and
// returns a Context object. InitGraphics must have been called.
func New(scene *options.SceneConfig, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(scene.Width, scene.Height, scene.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	win.MakeContextCurrent()
	if scene.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return c, nil
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	c.events = append(c.events, graphics.KeyEvent{
		Key:    translateKey(key),
		Action: translateAction(action),
	})
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width int, height int) {
	c.events = append(c.events, graphics.ResizeEvent{Width: width, Height: height})
}

func translateKey(key glfw.Key) graphics.Key {
	switch key {
	case glfw.KeyEscape:
		return graphics.KeyEscape
	default:
		return graphics.KeyUnknown
	}
}

func translateAction(action glfw.Action) graphics.Action {
	switch action {
	case glfw.Press:
		return graphics.Press
	case glfw.Repeat:
		return graphics.Repeat
	default:
		return graphics.Release
	}
}

// Events returns the events queued by callbacks since the previous call.
func (c *Context) Events() []graphics.Event {
	ev := c.events
	c.events = nil
	return ev
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window. Calling it again is a no-op.
func (c *Context) Shutdown() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
}

func (c *Context) ShouldClose() bool {
	if c.window == nil {
		return true
	}
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	if c.window != nil {
		c.window.SetShouldClose(v)
	}
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

var _ graphics.Context = (*Context)(nil)
