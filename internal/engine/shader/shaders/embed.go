// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SceneVertexShader transforms terrain, model and skybox vertices.
//
//go:embed scene.vert
var SceneVertexShader string

// SceneFragmentShader samples the diffuse texture with one directional light.
//
//go:embed scene.frag
var SceneFragmentShader string
