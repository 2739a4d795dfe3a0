package renderer

import (
	"errors"
	"testing"

	"github.com/richinsley/twotriangles/graphics"
	"github.com/richinsley/twotriangles/graphics/graphicstest"
	"github.com/richinsley/twotriangles/options"
)

func newTestRenderer(t *testing.T) (*Renderer, *graphicstest.Context, *graphicstest.API) {
	t.Helper()
	ctx := graphicstest.NewContext(800, 600)
	api := graphicstest.NewAPI()
	r := NewRenderer(ctx, api)
	if _, err := r.LoadScene(options.DefaultScene(), nil); err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	return r, ctx, api
}

func TestDefaultSceneOneFrame(t *testing.T) {
	r, ctx, api := newTestRenderer(t)
	ctx.CloseAfter = 1

	r.Run()

	if ctx.Frames != 1 {
		t.Fatalf("presented %d frames, want 1", ctx.Frames)
	}
	if len(api.Draws) != 2 {
		t.Fatalf("issued %d draws, want 2", len(api.Draws))
	}
	for i, d := range api.Draws {
		if d.First != 0 || d.Count != 3 {
			t.Errorf("draw %d = (%d, %d), want (0, 3)", i, d.First, d.Count)
		}
	}
	p0, p1 := api.Draws[0].Program, api.Draws[1].Program
	if p0 == 0 || p1 == 0 || p0 == p1 {
		t.Fatalf("draws used programs %d and %d, want two distinct programs", p0, p1)
	}
	if api.Draws[0].VAO == api.Draws[1].VAO {
		t.Errorf("both draws used vertex array %d", api.Draws[0].VAO)
	}
	vs0 := api.Programs[p0].Shaders[0]
	vs1 := api.Programs[p1].Shaders[0]
	if vs0 != vs1 {
		t.Errorf("programs link vertex stages %d and %d, want one shared stage", vs0, vs1)
	}
	if api.Shaders[vs0].Stage != graphics.VertexStage {
		t.Errorf("shared stage %d is %v", vs0, api.Shaders[vs0].Stage)
	}

	if api.Clears != 1 {
		t.Errorf("cleared %d times, want 1", api.Clears)
	}
	if want := [4]float32{0.2, 0.3, 0.3, 1.0}; api.Clear != want {
		t.Errorf("clear color = %v, want %v", api.Clear, want)
	}
	if r.State() != Closing {
		t.Errorf("State() = %v, want %v", r.State(), Closing)
	}
}

func TestDefaultSceneUploadsTriangles(t *testing.T) {
	r, _, api := newTestRenderer(t)
	want := [][]float32{
		{-0.2, 0.1, 0, 0.5, 0.1, 0, 0.7, 0.2, 0},
		{-0.6, 0.3, 0, 0.9, 0.4, 0, 0.1, 0.3, 0},
	}
	for i, e := range r.Scene().Entries {
		attr := api.VertexArrays[e.Mesh.VertexArray()].Attribs[0]
		got := api.Buffers[attr.Buffer].Data
		if len(got) != len(want[i]) {
			t.Fatalf("entry %d uploaded %d floats, want %d", i, len(got), len(want[i]))
		}
		for j := range got {
			if got[j] != want[i][j] {
				t.Errorf("entry %d float %d = %v, want %v", i, j, got[j], want[i][j])
			}
		}
	}
}

func TestExitKeyClosesWithinOneFrame(t *testing.T) {
	for _, pressAt := range []int{1, 2, 5} {
		r, ctx, api := newTestRenderer(t)
		ctx.AfterFrame = func(frame int) []graphics.Event {
			if frame == pressAt {
				return []graphics.Event{graphics.KeyEvent{Key: graphics.KeyEscape, Action: graphics.Press}}
			}
			return nil
		}
		ctx.CloseAfter = 100

		r.Run()

		// the press is polled at the end of frame pressAt and observed at
		// the start of the next one, which still completes
		if want := pressAt + 1; ctx.Frames != want {
			t.Errorf("press after frame %d: presented %d frames, want %d", pressAt, ctx.Frames, want)
		}
		if got, want := len(api.Draws), 2*(pressAt+1); got != want {
			t.Errorf("press after frame %d: %d draws, want %d", pressAt, got, want)
		}
		if r.State() != Closing {
			t.Errorf("State() = %v, want %v", r.State(), Closing)
		}
	}
}

func TestIgnoredKeysDoNotClose(t *testing.T) {
	r, ctx, _ := newTestRenderer(t)
	ctx.AfterFrame = func(frame int) []graphics.Event {
		return []graphics.Event{
			graphics.KeyEvent{Key: graphics.KeyUnknown, Action: graphics.Press},
			graphics.KeyEvent{Key: graphics.KeyEscape, Action: graphics.Release},
		}
	}
	ctx.CloseAfter = 4

	r.Run()

	if ctx.Frames != 4 {
		t.Errorf("presented %d frames, want 4", ctx.Frames)
	}
}

func TestResizeSetsViewport(t *testing.T) {
	r, ctx, api := newTestRenderer(t)
	if want := [4]int32{0, 0, 800, 600}; api.ViewportArg != want {
		t.Errorf("initial viewport = %v, want %v", api.ViewportArg, want)
	}

	programs := len(api.Programs)
	vaos := len(api.VertexArrays)
	buffers := len(api.Buffers)

	ctx.Push(graphics.ResizeEvent{Width: 1024, Height: 333})
	ctx.CloseAfter = 1
	r.Run()

	if want := [4]int32{0, 0, 1024, 333}; api.ViewportArg != want {
		t.Errorf("viewport = %v, want %v", api.ViewportArg, want)
	}
	if len(api.Programs) != programs || len(api.VertexArrays) != vaos || len(api.Buffers) != buffers {
		t.Errorf("resize created GL objects")
	}
	for h, p := range api.Programs {
		if p.Deletes != 0 {
			t.Errorf("program %d deleted by resize", h)
		}
	}
	for h, b := range api.Buffers {
		if b.Uploads != 1 {
			t.Errorf("buffer %d uploaded %d times", h, b.Uploads)
		}
	}
}

func TestShutdownTwice(t *testing.T) {
	r, ctx, api := newTestRenderer(t)
	ctx.CloseAfter = 1
	r.Run()

	r.Shutdown()
	r.Shutdown()

	if ctx.Shutdowns != 1 {
		t.Errorf("context shut down %d times, want 1", ctx.Shutdowns)
	}
	for h, p := range api.Programs {
		if p.Deletes != 1 {
			t.Errorf("program %d deleted %d times, want 1", h, p.Deletes)
		}
	}
	for h, va := range api.VertexArrays {
		if va.Deletes != 1 {
			t.Errorf("vertex array %d deleted %d times, want 1", h, va.Deletes)
		}
	}
	for h, b := range api.Buffers {
		if b.Deletes != 1 {
			t.Errorf("buffer %d deleted %d times, want 1", h, b.Deletes)
		}
	}
}

func TestLoadSceneShaderFailureCleansUp(t *testing.T) {
	ctx := graphicstest.NewContext(800, 600)
	api := graphicstest.NewAPI()
	fragments := 0
	api.CompileLog = func(stage graphics.ShaderStage, source string) string {
		if stage != graphics.FragmentStage {
			return ""
		}
		fragments++
		if fragments == 2 {
			return "0:1: bad fragment"
		}
		return ""
	}
	r := NewRenderer(ctx, api)

	_, err := r.LoadScene(options.DefaultScene(), nil)
	var se *ShaderError
	if !errors.As(err, &se) || se.Stage != "fragment" {
		t.Fatalf("LoadScene() error = %v, want fragment ShaderError", err)
	}
	if r.Scene() != nil {
		t.Errorf("failed load installed a scene")
	}
	for h, p := range api.Programs {
		if p.Deletes != 1 {
			t.Errorf("program %d deleted %d times after failed load, want 1", h, p.Deletes)
		}
	}
	for h, s := range api.Shaders {
		if s.Deletes != 1 {
			t.Errorf("shader %d deleted %d times after failed load, want 1", h, s.Deletes)
		}
	}
}

func TestLoadSceneReplacesPrevious(t *testing.T) {
	r, _, api := newTestRenderer(t)
	old := r.Scene()

	if _, err := r.LoadScene(options.DefaultScene(), nil); err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	for _, e := range old.Entries {
		if e.Program.Handle() != 0 {
			t.Errorf("old program %s not released", e.Name)
		}
	}
	if len(api.Programs) != 4 {
		t.Errorf("linked %d programs over two loads, want 4", len(api.Programs))
	}
}

func TestRunFramesHook(t *testing.T) {
	r, ctx, api := newTestRenderer(t)

	var seen []int
	err := r.RunFrames(3, func(frame int) error {
		seen = append(seen, frame)
		if got, want := len(api.Draws), 2*(frame+1); got != want {
			t.Errorf("frame %d: hook ran after %d draws, want %d", frame, got, want)
		}
		if ctx.Frames != frame {
			t.Errorf("frame %d: hook ran after %d presents, want %d", frame, ctx.Frames, frame)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunFrames() error = %v", err)
	}
	if len(seen) != 3 || r.Frames() != 3 {
		t.Errorf("hook frames = %v, Frames() = %d, want 3", seen, r.Frames())
	}

	boom := errors.New("encoder gone")
	err = r.RunFrames(5, func(frame int) error {
		if frame == 1 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("RunFrames() error = %v, want %v", err, boom)
	}
}

func TestRunFramesIntoTarget(t *testing.T) {
	r, ctx, api := newTestRenderer(t)
	target, err := NewRenderTarget(api, 320, 200)
	if err != nil {
		t.Fatal(err)
	}
	fbo := target.Framebuffer()

	r.SetTarget(target)
	ctx.Push(graphics.ResizeEvent{Width: 1024, Height: 768})
	err = r.RunFrames(2, func(frame int) error {
		pixels := make([]byte, target.FrameSize())
		return target.ReadPixels(pixels)
	})
	if err != nil {
		t.Fatalf("RunFrames() error = %v", err)
	}

	if len(api.Draws) != 4 {
		t.Fatalf("issued %d draws, want 4", len(api.Draws))
	}
	for i, d := range api.Draws {
		if d.Framebuffer != fbo {
			t.Errorf("draw %d went to framebuffer %d, want %d", i, d.Framebuffer, fbo)
		}
	}
	if len(api.Reads) != 2 {
		t.Fatalf("read %d frames, want 2", len(api.Reads))
	}
	for i, rd := range api.Reads {
		if rd.Framebuffer != fbo {
			t.Errorf("read %d came from framebuffer %d, want %d", i, rd.Framebuffer, fbo)
		}
	}
	if want := [4]int32{0, 0, 320, 200}; api.ViewportArg != want {
		t.Errorf("viewport while recording = %v, want %v", api.ViewportArg, want)
	}

	r.SetTarget(nil)
	if api.BoundFramebuffer != 0 {
		t.Errorf("framebuffer %d still bound after SetTarget(nil)", api.BoundFramebuffer)
	}
	if want := [4]int32{0, 0, 800, 600}; api.ViewportArg != want {
		t.Errorf("viewport after SetTarget(nil) = %v, want %v", api.ViewportArg, want)
	}
}
