package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec3 aPos;
void main() {
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

const fillFragmentShaderTemplateGL = `#version 410 core
out vec4 FragColor;
void main() {
    FragColor = %s;
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec3 aPos;
void main() {
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

const fillFragmentShaderTemplateGLES = `#version 300 es
precision mediump float;
out vec4 FragColor;
void main() {
    FragColor = %s;
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// PositionSlot is the attribute location the vertex stage reads positions from.
const PositionSlot = 0

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GenerateFillFragmentShader returns a fragment stage that writes color to
// every covered pixel.
func GenerateFillFragmentShader(color mgl32.Vec4, isGLES bool) string {
	if isGLES {
		return fmt.Sprintf(fillFragmentShaderTemplateGLES, vec4Literal(color))
	}
	return fmt.Sprintf(fillFragmentShaderTemplateGL, vec4Literal(color))
}

func vec4Literal(v mgl32.Vec4) string {
	return "vec4(" + floatLiteral(v[0]) + ", " + floatLiteral(v[1]) + ", " +
		floatLiteral(v[2]) + ", " + floatLiteral(v[3]) + ")"
}

// floatLiteral always carries a decimal point; GLSL ES rejects int-to-float
// conversion outside constructors.
func floatLiteral(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}
