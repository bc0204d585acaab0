// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// GarmentVertexShader is the vertex shader for textured garment meshes.
//
//go:embed garment.vert
var GarmentVertexShader string

// GarmentFragmentShader is the fragment shader for textured garment meshes.
//
//go:embed garment.frag
var GarmentFragmentShader string
