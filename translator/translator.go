package translator

import (
	"context"
	"fmt"
	"log"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide ANGLE translator, starting it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
		if translatorErr == nil {
			log.Printf("Shader translator ready")
		}
	})
	return translator, translatorErr
}

// Translator turns GLSL ES 3.00 stage sources into desktop GLSL 4.10 for
// the 4.1 core context. A failed translation is a compile error caught
// before the driver sees the source.
type Translator struct{}

func New() *Translator {
	return &Translator{}
}

// Translate translates one stage. stage is "vertex" or "fragment".
func (t *Translator) Translate(stage, source string) (string, error) {
	tr, err := GetTranslator()
	if err != nil {
		return "", fmt.Errorf("failed to start shader translator: %w", err)
	}
	out, err := tr.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", err
	}
	return out.Code, nil
}
