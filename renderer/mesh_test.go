package renderer

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/twotriangles/graphics/graphicstest"
)

func TestNewMeshVertexCount(t *testing.T) {
	tests := []struct {
		name      string
		positions []float32
		want      int32
		wantErr   bool
	}{
		{"triangle", []float32{-0.2, 0.1, 0, 0.5, 0.1, 0, 0.7, 0.2, 0}, 3, false},
		{"two triangles", make([]float32, 18), 6, false},
		{"single vertex", []float32{1, 2, 3}, 1, false},
		{"empty", nil, 0, true},
		{"ragged", []float32{1, 2, 3, 4}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := graphicstest.NewAPI()
			m, err := NewMesh(api, tt.positions)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewMesh() succeeded, want error")
				}
				if len(api.Buffers) != 0 || len(api.VertexArrays) != 0 {
					t.Errorf("NewMesh() allocated GL objects before failing")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMesh() error = %v", err)
			}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewMeshLayout(t *testing.T) {
	api := graphicstest.NewAPI()
	positions := []float32{-0.6, 0.3, 0, 0.9, 0.4, 0, 0.1, 0.3, 0}
	m, err := NewMesh(api, positions)
	if err != nil {
		t.Fatalf("NewMesh() error = %v", err)
	}

	va := api.VertexArrays[m.VertexArray()]
	if va == nil {
		t.Fatalf("vertex array %d was not generated", m.VertexArray())
	}
	attr := va.Attribs[0]
	if attr == nil {
		t.Fatalf("slot 0 not described")
	}
	if attr.Size != 3 || attr.Stride != 12 || attr.Offset != 0 || !attr.Enabled {
		t.Errorf("slot 0 = %+v, want size 3 stride 12 offset 0 enabled", *attr)
	}
	buf := api.Buffers[attr.Buffer]
	if buf == nil {
		t.Fatalf("slot 0 points at unknown buffer %d", attr.Buffer)
	}
	if !slices.Equal(buf.Data, positions) {
		t.Errorf("slot 0 buffer data = %v, want %v", buf.Data, positions)
	}
	if buf.Uploads != 1 {
		t.Errorf("buffer uploaded %d times, want 1", buf.Uploads)
	}
}

func TestMeshBindingDoesNotMutateOthers(t *testing.T) {
	api := graphicstest.NewAPI()
	a, err := NewMeshFromVertices(api, []mgl32.Vec3{{-0.2, 0.1, 0}, {0.5, 0.1, 0}, {0.7, 0.2, 0}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMeshFromVertices(api, []mgl32.Vec3{{-0.6, 0.3, 0}, {0.9, 0.4, 0}, {0.1, 0.3, 0}})
	if err != nil {
		t.Fatal(err)
	}

	snapshot := make(map[uint32][]float32)
	for h, buf := range api.Buffers {
		snapshot[h] = slices.Clone(buf.Data)
	}

	for i := 0; i < 3; i++ {
		a.Bind()
		api.DrawTriangles(0, a.VertexCount())
		b.Bind()
		api.DrawTriangles(0, b.VertexCount())
		a.Bind()
	}

	for h, buf := range api.Buffers {
		if !slices.Equal(buf.Data, snapshot[h]) {
			t.Errorf("buffer %d data changed: %v, want %v", h, buf.Data, snapshot[h])
		}
		if buf.Uploads != 1 {
			t.Errorf("buffer %d uploaded %d times, want 1", h, buf.Uploads)
		}
	}
	if api.Draws[0].Buffer == api.Draws[1].Buffer {
		t.Errorf("both meshes drew from buffer %d", api.Draws[0].Buffer)
	}
}

func TestMeshDeleteIdempotent(t *testing.T) {
	api := graphicstest.NewAPI()
	m, err := NewMesh(api, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	vao := m.VertexArray()

	m.Delete()
	m.Delete()

	if got := api.VertexArrays[vao].Deletes; got != 1 {
		t.Errorf("vertex array deleted %d times, want 1", got)
	}
	for h, buf := range api.Buffers {
		if buf.Deletes != 1 {
			t.Errorf("buffer %d deleted %d times, want 1", h, buf.Deletes)
		}
	}
}
