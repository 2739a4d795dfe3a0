package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/twotriangles/graphics"
	"github.com/richinsley/twotriangles/shader"
)

const floatSize = 4

// Mesh is a static vertex buffer of 3D positions together with the vertex
// array that describes it. Binding the vertex array is enough to draw it.
type Mesh struct {
	api   graphics.API
	vao   uint32
	vbo   uint32
	count int32
}

// NewMesh uploads positions (x, y, z triples) once with a static-draw hint
// and points attribute slot 0 at them.
func NewMesh(api graphics.API, positions []float32) (*Mesh, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("mesh has no vertices")
	}
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("mesh has %d floats, not a multiple of 3", len(positions))
	}

	m := &Mesh{
		api:   api,
		vao:   api.GenVertexArray(),
		vbo:   api.GenBuffer(),
		count: int32(len(positions) / 3),
	}
	api.BindVertexArray(m.vao)
	api.BindArrayBuffer(m.vbo)
	api.BufferStaticData(positions)
	api.VertexAttribFloat(shader.PositionSlot, 3, 3*floatSize, 0)
	api.EnableVertexAttrib(shader.PositionSlot)
	api.BindArrayBuffer(0)
	api.BindVertexArray(0)
	return m, nil
}

func NewMeshFromVertices(api graphics.API, vertices []mgl32.Vec3) (*Mesh, error) {
	positions := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		positions = append(positions, v[0], v[1], v[2])
	}
	return NewMesh(api, positions)
}

func (m *Mesh) VertexCount() int32 { return m.count }

func (m *Mesh) VertexArray() uint32 { return m.vao }

func (m *Mesh) Bind() { m.api.BindVertexArray(m.vao) }

// Delete releases the vertex array and its buffer. Further calls do nothing.
func (m *Mesh) Delete() {
	if m.vao != 0 {
		m.api.DeleteVertexArray(m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		m.api.DeleteBuffer(m.vbo)
		m.vbo = 0
	}
}
