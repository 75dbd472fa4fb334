package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShadersEmbedded(t *testing.T) {
	for name, src := range map[string]string{
		"planes":          PlanesWGSL,
		"bloom_bright":    BloomBrightWGSL,
		"bloom_blur":      BloomBlurWGSL,
		"bloom_composite": BloomCompositeWGSL,
		"text":            TextWGSL,
	} {
		assert.Contains(t, src, "fn vs_main", name)
		assert.Contains(t, src, "fn fs_main", name)
	}
	assert.Contains(t, PlanesWGSL, "instance_index")
}

func TestBloomBrightGatesWithSmoothstep(t *testing.T) {
	assert.Contains(t, BloomBrightWGSL, "smoothstep(params.threshold, params.threshold + SMOOTH_WIDTH, lum)")
	assert.Contains(t, BloomBrightWGSL, "const SMOOTH_WIDTH: f32 = 0.01;")
	assert.NotContains(t, BloomBrightWGSL, "lum - params.threshold", "pixels above the threshold keep full intensity")
}
