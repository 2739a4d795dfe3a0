package graphics

import "fmt"

// ShaderStage selects the pipeline stage a shader object is compiled for.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == FragmentStage {
		return "fragment"
	}
	return "vertex"
}

// API is the set of OpenGL operations the renderer issues. It stands in for
// the implicit global GL state so every component receives it explicitly.
// All calls must happen on the thread that owns the current context.
type API interface {
	// CompileShader creates and compiles a shader object. On failure the
	// object is deleted and the returned error carries the info log.
	CompileShader(stage ShaderStage, source string) (uint32, error)
	DeleteShader(shader uint32)
	// LinkProgram links the given shader objects into a program. On failure
	// the program is deleted and the returned error carries the info log.
	LinkProgram(shaders ...uint32) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	GenVertexArray() uint32
	GenBuffer() uint32
	BindVertexArray(vao uint32)
	BindArrayBuffer(vbo uint32)
	// BufferStaticData uploads data to the bound array buffer with a
	// static-draw usage hint.
	BufferStaticData(data []float32)
	// VertexAttribFloat describes a float attribute at slot. stride and
	// offset are in bytes.
	VertexAttribFloat(slot uint32, size int32, stride int32, offset int)
	EnableVertexAttrib(slot uint32)
	DeleteVertexArray(vao uint32)
	DeleteBuffer(vbo uint32)

	ClearColor(r, g, b, a float32)
	ClearColorBuffer()
	Viewport(x, y, width, height int32)
	DrawTriangles(first, count int32)

	// CreateFramebuffer allocates an offscreen framebuffer with one RGBA8
	// color attachment and fails unless it is complete. The previously bound
	// framebuffer stays bound.
	CreateFramebuffer(width, height int32) (uint32, error)
	// BindFramebuffer makes fbo the draw and read framebuffer. 0 selects the
	// window.
	BindFramebuffer(fbo uint32)
	// DeleteFramebuffer deletes fbo and its color attachment.
	DeleteFramebuffer(fbo uint32)
	// ReadPixels reads RGBA8 pixels from the bound read framebuffer into dst.
	// dst must hold at least RGBA8Size(width, height) bytes.
	ReadPixels(x, y, width, height int32, dst []byte) error
}

// RGBA8Size is the number of bytes in a width x height RGBA8 image.
func RGBA8Size(width, height int32) int {
	return int(width) * int(height) * 4
}

// CheckPixelBuffer reports an error when dst cannot hold a width x height
// RGBA8 image.
func CheckPixelBuffer(width, height int32, dst []byte) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid pixel region %dx%d", width, height)
	}
	if need := RGBA8Size(width, height); len(dst) < need {
		return fmt.Errorf("pixel buffer holds %d bytes, %dx%d RGBA needs %d", len(dst), width, height, need)
	}
	return nil
}
