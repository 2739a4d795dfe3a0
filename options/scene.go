package options

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// TriangleConfig is one draw-list entry: a filled triangle.
type TriangleConfig struct {
	Name     string       `yaml:"name"`
	Color    mgl32.Vec4   `yaml:"color"`
	Vertices []mgl32.Vec3 `yaml:"vertices"`
}

// SceneConfig describes the window and the ordered draw list.
type SceneConfig struct {
	Title      string           `yaml:"title"`
	Width      int              `yaml:"width"`
	Height     int              `yaml:"height"`
	VSync      bool             `yaml:"vsync"`
	Background mgl32.Vec4       `yaml:"background"`
	Triangles  []TriangleConfig `yaml:"triangles"`
}

// DefaultScene returns the built-in scene: two triangles, orange and green,
// over a dark teal background.
func DefaultScene() *SceneConfig {
	return &SceneConfig{
		Title:      "LearnOpenGL",
		Width:      800,
		Height:     600,
		VSync:      true,
		Background: mgl32.Vec4{0.2, 0.3, 0.3, 1.0},
		Triangles: []TriangleConfig{
			{
				Name:  "first",
				Color: mgl32.Vec4{1.0, 0.5, 0.2, 1.0},
				Vertices: []mgl32.Vec3{
					{-0.2, 0.1, 0.0},
					{0.5, 0.1, 0.0},
					{0.7, 0.2, 0.0},
				},
			},
			{
				Name:  "second",
				Color: mgl32.Vec4{0.5, 1.0, 0.2, 1.0},
				Vertices: []mgl32.Vec3{
					{-0.6, 0.3, 0.0},
					{0.9, 0.4, 0.0},
					{0.1, 0.3, 0.0},
				},
			},
		},
	}
}

// LoadScene reads a YAML scene file. Fields the file leaves out keep the
// values of DefaultScene, except the triangle list which is replaced whole
// when present.
func LoadScene(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// ParseScene decodes and validates a YAML scene document.
func ParseScene(data []byte) (*SceneConfig, error) {
	scene := DefaultScene()
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

// Validate checks the invariants the renderer relies on.
func (s *SceneConfig) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", s.Width, s.Height)
	}
	if len(s.Triangles) == 0 {
		return fmt.Errorf("scene has no triangles")
	}
	for i, t := range s.Triangles {
		if len(t.Vertices) != 3 {
			return fmt.Errorf("triangle %d (%q) has %d vertices, want 3", i, t.Name, len(t.Vertices))
		}
	}
	return nil
}
