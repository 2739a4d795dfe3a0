// Package graphicstest provides in-memory stand-ins for graphics.API and
// graphics.Context that record what the renderer asks of them.
package graphicstest

import (
	"errors"
	"slices"

	"github.com/richinsley/twotriangles/graphics"
)

type Shader struct {
	Stage   graphics.ShaderStage
	Source  string
	Deletes int
}

type Program struct {
	Shaders []uint32
	Deletes int
}

type Attrib struct {
	Buffer  uint32
	Size    int32
	Stride  int32
	Offset  int
	Enabled bool
}

type VertexArray struct {
	Attribs map[uint32]*Attrib
	Deletes int
}

type Buffer struct {
	Data    []float32
	Uploads int
	Deletes int
}

type Framebuffer struct {
	Width   int32
	Height  int32
	Deletes int
}

// Draw is one recorded DrawTriangles call with the bindings in effect.
type Draw struct {
	Program     uint32
	VAO         uint32
	Buffer      uint32
	Framebuffer uint32
	First       int32
	Count       int32
}

// Read is one recorded ReadPixels call.
type Read struct {
	Framebuffer   uint32
	Width, Height int32
}

// API is a recording graphics.API. Handles are allocated from a single
// counter so no two objects share a name.
type API struct {
	Shaders      map[uint32]*Shader
	Programs     map[uint32]*Program
	VertexArrays map[uint32]*VertexArray
	Buffers      map[uint32]*Buffer
	Framebuffers map[uint32]*Framebuffer

	// BoundFramebuffer is the framebuffer draws and reads go to; 0 is the window.
	BoundFramebuffer uint32

	Draws       []Draw
	Clears      int
	Clear       [4]float32
	ViewportArg [4]int32
	Viewports   int
	Reads       []Read

	// CompileLog, when set, is consulted for every compile; a non-empty
	// result fails the compile with that log.
	CompileLog func(stage graphics.ShaderStage, source string) string
	// LinkLog works like CompileLog for links.
	LinkLog func(shaders []uint32) string
	// FramebufferErr, when set, fails every CreateFramebuffer.
	FramebufferErr error
	// Fill is written to every byte returned by ReadPixels.
	Fill byte

	next       uint32
	program    uint32
	vao        uint32
	arrayBound uint32
}

func NewAPI() *API {
	return &API{
		Shaders:      make(map[uint32]*Shader),
		Programs:     make(map[uint32]*Program),
		VertexArrays: make(map[uint32]*VertexArray),
		Buffers:      make(map[uint32]*Buffer),
		Framebuffers: make(map[uint32]*Framebuffer),
	}
}

func (a *API) name() uint32 {
	a.next++
	return a.next
}

func (a *API) CompileShader(stage graphics.ShaderStage, source string) (uint32, error) {
	if a.CompileLog != nil {
		if msg := a.CompileLog(stage, source); msg != "" {
			return 0, errors.New(msg)
		}
	}
	h := a.name()
	a.Shaders[h] = &Shader{Stage: stage, Source: source}
	return h, nil
}

func (a *API) DeleteShader(shader uint32) {
	if s, ok := a.Shaders[shader]; ok {
		s.Deletes++
	}
}

func (a *API) LinkProgram(shaders ...uint32) (uint32, error) {
	if a.LinkLog != nil {
		if msg := a.LinkLog(shaders); msg != "" {
			return 0, errors.New(msg)
		}
	}
	h := a.name()
	a.Programs[h] = &Program{Shaders: slices.Clone(shaders)}
	return h, nil
}

func (a *API) DeleteProgram(program uint32) {
	if p, ok := a.Programs[program]; ok {
		p.Deletes++
	}
}

func (a *API) UseProgram(program uint32) { a.program = program }

func (a *API) GenVertexArray() uint32 {
	h := a.name()
	a.VertexArrays[h] = &VertexArray{Attribs: make(map[uint32]*Attrib)}
	return h
}

func (a *API) GenBuffer() uint32 {
	h := a.name()
	a.Buffers[h] = &Buffer{}
	return h
}

func (a *API) BindVertexArray(vao uint32) { a.vao = vao }

func (a *API) BindArrayBuffer(vbo uint32) { a.arrayBound = vbo }

func (a *API) BufferStaticData(data []float32) {
	if b, ok := a.Buffers[a.arrayBound]; ok {
		b.Data = slices.Clone(data)
		b.Uploads++
	}
}

func (a *API) VertexAttribFloat(slot uint32, size int32, stride int32, offset int) {
	va, ok := a.VertexArrays[a.vao]
	if !ok {
		return
	}
	attr := va.attrib(slot)
	attr.Buffer = a.arrayBound
	attr.Size = size
	attr.Stride = stride
	attr.Offset = offset
}

func (a *API) EnableVertexAttrib(slot uint32) {
	if va, ok := a.VertexArrays[a.vao]; ok {
		va.attrib(slot).Enabled = true
	}
}

func (va *VertexArray) attrib(slot uint32) *Attrib {
	attr, ok := va.Attribs[slot]
	if !ok {
		attr = &Attrib{}
		va.Attribs[slot] = attr
	}
	return attr
}

func (a *API) DeleteVertexArray(vao uint32) {
	if va, ok := a.VertexArrays[vao]; ok {
		va.Deletes++
	}
}

func (a *API) DeleteBuffer(vbo uint32) {
	if b, ok := a.Buffers[vbo]; ok {
		b.Deletes++
	}
}

func (a *API) ClearColor(r, g, b, alpha float32) { a.Clear = [4]float32{r, g, b, alpha} }

func (a *API) ClearColorBuffer() { a.Clears++ }

func (a *API) Viewport(x, y, width, height int32) {
	a.ViewportArg = [4]int32{x, y, width, height}
	a.Viewports++
}

func (a *API) DrawTriangles(first, count int32) {
	d := Draw{Program: a.program, VAO: a.vao, Framebuffer: a.BoundFramebuffer, First: first, Count: count}
	if va, ok := a.VertexArrays[a.vao]; ok {
		if attr, ok := va.Attribs[0]; ok {
			d.Buffer = attr.Buffer
		}
	}
	a.Draws = append(a.Draws, d)
}

func (a *API) CreateFramebuffer(width, height int32) (uint32, error) {
	if a.FramebufferErr != nil {
		return 0, a.FramebufferErr
	}
	h := a.name()
	a.Framebuffers[h] = &Framebuffer{Width: width, Height: height}
	return h, nil
}

func (a *API) BindFramebuffer(fbo uint32) { a.BoundFramebuffer = fbo }

func (a *API) DeleteFramebuffer(fbo uint32) {
	if fb, ok := a.Framebuffers[fbo]; ok {
		fb.Deletes++
	}
	if a.BoundFramebuffer == fbo {
		a.BoundFramebuffer = 0
	}
}

func (a *API) ReadPixels(x, y, width, height int32, dst []byte) error {
	if err := graphics.CheckPixelBuffer(width, height, dst); err != nil {
		return err
	}
	a.Reads = append(a.Reads, Read{Framebuffer: a.BoundFramebuffer, Width: width, Height: height})
	for i := range dst[:graphics.RGBA8Size(width, height)] {
		dst[i] = a.Fill
	}
	return nil
}

var _ graphics.API = (*API)(nil)
