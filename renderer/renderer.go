package renderer

import (
	"github.com/richinsley/twotriangles/graphics"
)

// State is the frame loop state.
type State int

const (
	Running State = iota
	Closing
)

func (s State) String() string {
	if s == Closing {
		return "closing"
	}
	return "running"
}

// Renderer drives the frame loop for one window. All methods must be called
// from the thread that owns the context.
type Renderer struct {
	context  graphics.Context
	api      graphics.API
	scene    *Scene
	target   *RenderTarget
	state    State
	frames   int64
	shutdown bool
}

// NewRenderer sets the viewport to the current framebuffer size and returns
// a renderer in the Running state. The context must already be current.
func NewRenderer(ctx graphics.Context, api graphics.API) *Renderer {
	r := &Renderer{
		context: ctx,
		api:     api,
		state:   Running,
	}
	width, height := ctx.GetFramebufferSize()
	r.Resize(width, height)
	return r
}

func (r *Renderer) State() State { return r.state }

// Frames returns the number of frames presented so far.
func (r *Renderer) Frames() int64 { return r.frames }

func (r *Renderer) Scene() *Scene { return r.scene }

// Resize sets the viewport to cover the whole window framebuffer. While a
// render target is set the viewport stays on the target.
func (r *Renderer) Resize(width, height int) {
	if r.target != nil {
		return
	}
	r.api.Viewport(0, 0, int32(width), int32(height))
}

// Target returns the offscreen target frames are drawn into, or nil when
// drawing to the window.
func (r *Renderer) Target() *RenderTarget { return r.target }

// SetTarget redirects drawing into t. A nil t restores the window
// framebuffer and its viewport.
func (r *Renderer) SetTarget(t *RenderTarget) {
	r.target = t
	if t == nil {
		r.api.BindFramebuffer(0)
		r.Resize(r.context.GetFramebufferSize())
		return
	}
	r.api.BindFramebuffer(t.fbo)
	r.api.Viewport(0, 0, int32(t.width), int32(t.height))
}

// handleEvents dispatches the events queued since the last frame.
func (r *Renderer) handleEvents() {
	for _, ev := range r.context.Events() {
		switch e := ev.(type) {
		case graphics.KeyEvent:
			if e.Key == graphics.KeyEscape && e.Action == graphics.Press {
				r.context.SetShouldClose(true)
				r.state = Closing
			}
		case graphics.ResizeEvent:
			r.Resize(e.Width, e.Height)
		}
	}
}

// RenderFrame clears the color buffer and issues one draw per entry of the
// current scene.
func (r *Renderer) RenderFrame() {
	if r.target != nil {
		r.api.BindFramebuffer(r.target.fbo)
	}
	if r.scene == nil {
		r.api.ClearColor(0, 0, 0, 1)
		r.api.ClearColorBuffer()
		return
	}

	bg := r.scene.Background
	r.api.ClearColor(bg[0], bg[1], bg[2], bg[3])
	r.api.ClearColorBuffer()

	for _, entry := range r.scene.Entries {
		entry.Program.Use()
		entry.Mesh.Bind()
		r.api.DrawTriangles(0, entry.Mesh.VertexCount())
	}
}

// Run renders frames until the window is asked to close.
func (r *Renderer) Run() {
	for !r.context.ShouldClose() {
		r.handleEvents()
		r.RenderFrame()
		r.context.EndFrame()
		r.frames++
	}
	r.state = Closing
}

// RunFrames renders at most n frames. hook, if non-nil, runs after each
// frame is drawn and before it is presented; an error from hook stops the
// loop and is returned. Frames go to the render target when one is set.
func (r *Renderer) RunFrames(n int, hook func(frame int) error) error {
	defer func() { r.state = Closing }()
	for i := 0; i < n && !r.context.ShouldClose(); i++ {
		r.handleEvents()
		r.RenderFrame()
		if hook != nil {
			if err := hook(i); err != nil {
				return err
			}
		}
		r.context.EndFrame()
		r.frames++
	}
	return nil
}

// Shutdown releases the scene and the window. Only the first call has an effect.
func (r *Renderer) Shutdown() {
	if r.shutdown {
		return
	}
	r.shutdown = true
	r.state = Closing
	r.scene.Destroy()
	r.context.Shutdown()
}
