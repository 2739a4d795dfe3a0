package renderer

import (
	"fmt"
	"log"
	"strings"

	"github.com/richinsley/twotriangles/graphics"
)

// StageLink is the ShaderError stage reported for link failures.
const StageLink = "link"

// ShaderError reports a shader that failed to translate, compile or link.
type ShaderError struct {
	Stage string // "vertex", "fragment" or StageLink
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("failed to link program: %s", e.Log)
	}
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// Translator rewrites a stage source before it is handed to the driver.
type Translator interface {
	Translate(stage, source string) (string, error)
}

// Shader is a compiled stage owned by the ProgramBuilder that compiled it.
type Shader struct {
	handle uint32
	stage  graphics.ShaderStage
}

func (s *Shader) Handle() uint32              { return s.handle }
func (s *Shader) Stage() graphics.ShaderStage { return s.stage }

// Program is a linked vertex+fragment program.
type Program struct {
	api      graphics.API
	handle   uint32
	vertex   uint32
	fragment uint32
}

func (p *Program) Handle() uint32 { return p.handle }

// Shaders returns the stage handles the program was linked from.
func (p *Program) Shaders() (vertex, fragment uint32) { return p.vertex, p.fragment }

func (p *Program) Use() { p.api.UseProgram(p.handle) }

// Delete releases the program. Further calls do nothing.
func (p *Program) Delete() {
	if p.handle == 0 {
		return
	}
	p.api.DeleteProgram(p.handle)
	p.handle = 0
}

// ProgramBuilder compiles stages and links them into programs. A compiled
// vertex stage may be linked into any number of programs; stage objects live
// until Release.
type ProgramBuilder struct {
	api        graphics.API
	translator Translator
	shaders    []uint32
}

// NewProgramBuilder returns a builder issuing calls through api. tr may be
// nil, in which case sources reach the driver unchanged.
func NewProgramBuilder(api graphics.API, tr Translator) *ProgramBuilder {
	return &ProgramBuilder{api: api, translator: tr}
}

func (b *ProgramBuilder) Compile(stage graphics.ShaderStage, source string) (*Shader, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ShaderError{Stage: stage.String(), Log: "empty source"}
	}
	if b.translator != nil {
		translated, err := b.translator.Translate(stage.String(), source)
		if err != nil {
			log.Printf("%s shader translation failed", stage)
			return nil, &ShaderError{Stage: stage.String(), Log: err.Error()}
		}
		source = translated
	}

	handle, err := b.api.CompileShader(stage, source)
	if err != nil {
		log.Printf("%s shader compile status: failed", stage)
		return nil, &ShaderError{Stage: stage.String(), Log: err.Error()}
	}
	log.Printf("%s shader %d compile status: ok", stage, handle)
	b.shaders = append(b.shaders, handle)
	return &Shader{handle: handle, stage: stage}, nil
}

func (b *ProgramBuilder) Link(vs, fs *Shader) (*Program, error) {
	if vs == nil || vs.stage != graphics.VertexStage {
		return nil, fmt.Errorf("link: first shader is not a vertex stage")
	}
	if fs == nil || fs.stage != graphics.FragmentStage {
		return nil, fmt.Errorf("link: second shader is not a fragment stage")
	}

	handle, err := b.api.LinkProgram(vs.handle, fs.handle)
	if err != nil {
		log.Printf("program link status: failed")
		return nil, &ShaderError{Stage: StageLink, Log: err.Error()}
	}
	log.Printf("program %d link status: ok", handle)
	return &Program{api: b.api, handle: handle, vertex: vs.handle, fragment: fs.handle}, nil
}

// Build compiles both stages and links them.
func (b *ProgramBuilder) Build(vertexSource, fragmentSource string) (*Program, error) {
	vs, err := b.Compile(graphics.VertexStage, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := b.Compile(graphics.FragmentStage, fragmentSource)
	if err != nil {
		return nil, err
	}
	return b.Link(vs, fs)
}

// Release deletes every stage object compiled by the builder. Linked
// programs are unaffected.
func (b *ProgramBuilder) Release() {
	for _, s := range b.shaders {
		b.api.DeleteShader(s)
	}
	b.shaders = nil
}
