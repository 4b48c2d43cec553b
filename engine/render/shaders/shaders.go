package shaders

import (
	_ "embed"
)

//go:embed mesh.wgsl
var MeshWGSL string

//go:embed particle.wgsl
var ParticleWGSL string

//go:embed sdf.wgsl
var SDFWGSL string
