package renderer

import "github.com/kjkrol/gokview/pkg/gfx"

// RendererConfig describes the demo scene. ShaderSource must be a single-source
// shader that supports the stage defines VERTEX and FRAGMENT, takes position
// and color at attribute locations 0 and 1, and a uMVP matrix uniform.
type RendererConfig struct {
	ShaderSource string
	FieldOfView  float32
	Distance     float32
	SpinRate     float32
}

const DefaultShaderSource = `
#ifdef VERTEX
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aColor;
uniform mat4 uMVP;
out vec3 vColor;
void main() {
	vColor = aColor;
	gl_Position = uMVP * vec4(aPos, 1.0);
}
#endif
#ifdef FRAGMENT
in vec3 vColor;
out vec4 fragColor;
void main() {
	fragColor = vec4(vColor, 1.0);
}
#endif
`

func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		ShaderSource: DefaultShaderSource,
		FieldOfView:  45,
		Distance:     3,
		SpinRate:     30,
	}
}

func NewSceneFactory(conf RendererConfig) gfx.SceneFactory {
	return func(v *gfx.Viewer) gfx.Scene {
		return newRenderer(v, conf)
	}
}
