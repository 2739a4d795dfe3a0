// Package glapi implements graphics.API on top of the desktop OpenGL 4.1
// core bindings.
package glapi

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/twotriangles/graphics"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// API issues GL calls against whatever context is current on the calling thread.
type API struct{}

// Init resolves the OpenGL entry points. A context must be current on the
// calling thread. The bindings are loaded once per process.
func Init() (*API, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
		if glInitErr == nil {
			log.Printf("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
		}
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return &API{}, nil
}

func shaderType(stage graphics.ShaderStage) uint32 {
	if stage == graphics.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func (API) CompileShader(stage graphics.ShaderStage, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType(stage))
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, errors.New(strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}

func (API) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (API) LinkProgram(shaders ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, errors.New(strings.TrimRight(logText, "\x00"))
	}

	// the program keeps the binaries; detaching lets DeleteShader free them
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, nil
}

func (API) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (API) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (API) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (API) GenBuffer() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return vbo
}

func (API) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (API) BindArrayBuffer(vbo uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
}

func (API) BufferStaticData(data []float32) {
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (API) VertexAttribFloat(slot uint32, size int32, stride int32, offset int) {
	gl.VertexAttribPointer(slot, size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (API) EnableVertexAttrib(slot uint32) {
	gl.EnableVertexAttribArray(slot)
}

func (API) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (API) DeleteBuffer(vbo uint32) {
	gl.DeleteBuffers(1, &vbo)
}

func (API) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (API) ClearColorBuffer() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (API) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (API) DrawTriangles(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (API) CreateFramebuffer(width, height int32) (uint32, error) {
	var previous int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &previous)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(previous))

	var fbo, texture uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)
	gl.DrawBuffer(gl.COLOR_ATTACHMENT0)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &texture)
		return 0, fmt.Errorf("offscreen framebuffer %dx%d is not complete (status 0x%x)", width, height, status)
	}
	log.Printf("Offscreen framebuffer %d: %dx%d RGBA8", fbo, width, height)
	return fbo, nil
}

func (API) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (API) DeleteFramebuffer(fbo uint32) {
	var previous int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &previous)

	var texture int32
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME, &texture)
	if uint32(previous) == fbo {
		previous = 0
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(previous))

	gl.DeleteFramebuffers(1, &fbo)
	if texture != 0 {
		tex := uint32(texture)
		gl.DeleteTextures(1, &tex)
	}
}

func (API) ReadPixels(x, y, width, height int32, dst []byte) error {
	if err := graphics.CheckPixelBuffer(width, height, dst); err != nil {
		return err
	}
	if graphics.RGBA8Size(width, height) == 0 {
		return nil
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	return nil
}

var _ graphics.API = API{}
