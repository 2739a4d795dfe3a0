package renderer

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/twotriangles/graphics"
	"github.com/richinsley/twotriangles/options"
	"github.com/richinsley/twotriangles/shader"
)

// DrawEntry pairs a program with the mesh it draws.
type DrawEntry struct {
	Name    string
	Program *Program
	Mesh    *Mesh
}

// Scene owns the programs and meshes of one draw list.
type Scene struct {
	Title      string
	Background mgl32.Vec4
	// Entries are drawn in order every frame.
	Entries []DrawEntry

	programs  []*Program
	meshes    []*Mesh
	destroyed bool
}

// Destroy releases meshes first, then programs. It is safe to call more
// than once and on a nil Scene.
func (s *Scene) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	s.destroyed = true
	log.Printf("Destroying scene: %s", s.Title)

	for _, m := range s.meshes {
		m.Delete()
	}
	for _, p := range s.programs {
		p.Delete()
	}
}

// LoadScene builds one program per triangle, all sharing a single vertex
// stage, uploads each triangle into its own mesh and makes the result the
// renderer's current scene. tr may be nil.
func (r *Renderer) LoadScene(cfg *options.SceneConfig, tr Translator) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	scene := &Scene{
		Title:      cfg.Title,
		Background: cfg.Background,
		Entries:    make([]DrawEntry, 0, len(cfg.Triangles)),
	}

	isGLES := tr != nil
	builder := NewProgramBuilder(r.api, tr)
	defer builder.Release()

	vs, err := builder.Compile(graphics.VertexStage, shader.GenerateVertexShader(isGLES))
	if err != nil {
		return nil, err
	}

	for i, t := range cfg.Triangles {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("triangle%d", i)
		}

		fs, err := builder.Compile(graphics.FragmentStage, shader.GenerateFillFragmentShader(t.Color, isGLES))
		if err != nil {
			scene.Destroy()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		program, err := builder.Link(vs, fs)
		if err != nil {
			scene.Destroy()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scene.programs = append(scene.programs, program)

		mesh, err := NewMeshFromVertices(r.api, t.Vertices)
		if err != nil {
			scene.Destroy()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scene.meshes = append(scene.meshes, mesh)

		scene.Entries = append(scene.Entries, DrawEntry{Name: name, Program: program, Mesh: mesh})
	}

	r.scene.Destroy()
	r.scene = scene
	log.Printf("Successfully loaded scene: %s (%d draw entries)", scene.Title, len(scene.Entries))
	return scene, nil
}
