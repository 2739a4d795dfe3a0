package graphicstest

import "github.com/richinsley/twotriangles/graphics"

// Context is a scripted graphics.Context.
type Context struct {
	Width  int
	Height int

	// Frames counts EndFrame calls.
	Frames    int
	Shutdowns int
	Current   bool

	// AfterFrame, when set, returns the events that the window system
	// delivers during the poll of the given (1-based) frame.
	AfterFrame func(frame int) []graphics.Event
	// CloseAfter forces the close flag once this many frames have been
	// presented. Zero disables it.
	CloseAfter int

	closed  bool
	pending []graphics.Event
}

func NewContext(width, height int) *Context {
	return &Context{Width: width, Height: height}
}

// Push queues events for the next Events call.
func (c *Context) Push(events ...graphics.Event) {
	c.pending = append(c.pending, events...)
}

func (c *Context) MakeCurrent() { c.Current = true }

func (c *Context) Shutdown() { c.Shutdowns++ }

func (c *Context) ShouldClose() bool { return c.closed }

func (c *Context) SetShouldClose(v bool) { c.closed = v }

func (c *Context) EndFrame() {
	c.Frames++
	if c.AfterFrame != nil {
		c.pending = append(c.pending, c.AfterFrame(c.Frames)...)
	}
	if c.CloseAfter > 0 && c.Frames >= c.CloseAfter {
		c.closed = true
	}
}

func (c *Context) GetFramebufferSize() (int, int) { return c.Width, c.Height }

func (c *Context) Events() []graphics.Event {
	ev := c.pending
	c.pending = nil
	return ev
}

var _ graphics.Context = (*Context)(nil)
