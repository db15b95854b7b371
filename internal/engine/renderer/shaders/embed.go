// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MapVertexShader places one segment quad in world space.
//
//go:embed map.vert
var MapVertexShader string

// MapFragmentShader shades a segment from its tile grid, the ground atlas and
// the blend mask.
//
//go:embed map.frag
var MapFragmentShader string
