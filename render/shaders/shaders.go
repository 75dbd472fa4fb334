package shaders

import (
	_ "embed"
)

//go:embed planes.wgsl
var PlanesWGSL string

//go:embed bloom_bright.wgsl
var BloomBrightWGSL string

//go:embed bloom_blur.wgsl
var BloomBlurWGSL string

//go:embed bloom_composite.wgsl
var BloomCompositeWGSL string

//go:embed text.wgsl
var TextWGSL string
