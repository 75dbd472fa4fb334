package render

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene uniform block layout, std140-like WGSL rules:
//
//	view_proj    mat4x4  0
//	time         f32     64
//	colors_speed f32     68
//	color1       vec3    80
//	color2       vec3    96
const (
	SceneUniformSize  = 112
	sceneFrameSize    = 72
	sceneColorsOffset = 80
	sceneColorsSize   = 32

	// Small parameter blocks of the bloom shaders.
	bloomUniformSize = 16
)

func putFloats(buf []byte, offset int, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
	}
}

// PackSceneFrame encodes the part of the scene block written every frame.
func PackSceneFrame(viewProj mgl32.Mat4, time, colorsSpeed float32) []byte {
	buf := make([]byte, sceneFrameSize)
	putFloats(buf, 0, viewProj[:]...)
	putFloats(buf, 64, time, colorsSpeed)
	return buf
}

// PackSceneColors encodes color1 and color2, written at sceneColorsOffset.
func PackSceneColors(color1, color2 [3]float32) []byte {
	buf := make([]byte, sceneColorsSize)
	putFloats(buf, 0, color1[:]...)
	putFloats(buf, 16, color2[:]...)
	return buf
}

func packBright(threshold float32) []byte {
	buf := make([]byte, bloomUniformSize)
	putFloats(buf, 0, threshold)
	return buf
}

func packBlur(dirX, dirY, spread float32) []byte {
	buf := make([]byte, bloomUniformSize)
	putFloats(buf, 0, dirX, dirY, spread)
	return buf
}

func packComposite(strength, exposure float32) []byte {
	buf := make([]byte, bloomUniformSize)
	putFloats(buf, 0, strength, exposure)
	return buf
}

// BlurSpread maps the bloom radius onto the blur tap distance in texels.
func BlurSpread(radius float32) float32 {
	if radius < 0 {
		radius = 0
	}
	return 1 + radius*3
}

// SRGBToLinear decodes one sRGB channel in 0..1.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow((float64(c)+0.055)/1.055, 2.4))
}
