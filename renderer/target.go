package renderer

import (
	"fmt"

	"github.com/richinsley/twotriangles/graphics"
)

// RenderTarget is an offscreen framebuffer the frame loop can draw into in
// place of the window. Pixels read back from it are well defined even when
// the window is hidden.
type RenderTarget struct {
	api    graphics.API
	fbo    uint32
	width  int
	height int
}

// NewRenderTarget allocates a complete RGBA8 framebuffer of the given size.
func NewRenderTarget(api graphics.API, width, height int) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	fbo, err := api.CreateFramebuffer(int32(width), int32(height))
	if err != nil {
		return nil, fmt.Errorf("failed to create render target: %w", err)
	}
	return &RenderTarget{api: api, fbo: fbo, width: width, height: height}, nil
}

func (t *RenderTarget) Framebuffer() uint32 { return t.fbo }

func (t *RenderTarget) Size() (int, int) { return t.width, t.height }

// FrameSize is the number of bytes ReadPixels fills.
func (t *RenderTarget) FrameSize() int {
	return graphics.RGBA8Size(int32(t.width), int32(t.height))
}

// ReadPixels copies the target's color attachment into dst as bottom-up RGBA8 rows.
func (t *RenderTarget) ReadPixels(dst []byte) error {
	if t.fbo == 0 {
		return fmt.Errorf("render target has been deleted")
	}
	t.api.BindFramebuffer(t.fbo)
	return t.api.ReadPixels(0, 0, int32(t.width), int32(t.height), dst)
}

// Delete releases the framebuffer. Calling it again is a no-op.
func (t *RenderTarget) Delete() {
	if t == nil || t.fbo == 0 {
		return
	}
	t.api.DeleteFramebuffer(t.fbo)
	t.fbo = 0
}
