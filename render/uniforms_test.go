package render

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestPackSceneFrame(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	buf := PackSceneFrame(m, 4.5, -2)

	require.Len(t, buf, sceneFrameSize)
	for i := 0; i < 16; i++ {
		assert.Equal(t, m[i], floatAt(buf, i*4), "matrix element %d", i)
	}
	assert.Equal(t, float32(4.5), floatAt(buf, 64))
	assert.Equal(t, float32(-2), floatAt(buf, 68))
}

func TestPackSceneColors(t *testing.T) {
	buf := PackSceneColors([3]float32{1, 0.5, 0.25}, [3]float32{0, 0.5, 1})

	require.Len(t, buf, sceneColorsSize)
	assert.Equal(t, float32(1), floatAt(buf, 0))
	assert.Equal(t, float32(0.25), floatAt(buf, 8))
	assert.Equal(t, float32(0), floatAt(buf, 16))
	assert.Equal(t, float32(1), floatAt(buf, 24))
	assert.Equal(t, SceneUniformSize, sceneColorsOffset+sceneColorsSize)
	assert.LessOrEqual(t, sceneFrameSize, sceneColorsOffset)
}

func TestPackBloomBlocks(t *testing.T) {
	bright := packBright(0.3)
	assert.Len(t, bright, bloomUniformSize)
	assert.Equal(t, float32(0.3), floatAt(bright, 0))

	blur := packBlur(0, 1, 2.2)
	assert.Equal(t, float32(0), floatAt(blur, 0))
	assert.Equal(t, float32(1), floatAt(blur, 4))
	assert.Equal(t, float32(2.2), floatAt(blur, 8))

	composite := packComposite(1.5, 0.8)
	assert.Equal(t, float32(1.5), floatAt(composite, 0))
	assert.Equal(t, float32(0.8), floatAt(composite, 4))
}

func TestBlurSpread(t *testing.T) {
	assert.Equal(t, float32(1), BlurSpread(0))
	assert.Equal(t, float32(1), BlurSpread(-2))
	assert.InDelta(t, 2.2, BlurSpread(0.4), 1e-6)
	assert.Equal(t, float32(4), BlurSpread(1))
}

func TestBlurSize(t *testing.T) {
	w, h := BlurSize(1280, 720)
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(360), h)

	w, h = BlurSize(1, 0)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)
}

func TestVertexLayouts(t *testing.T) {
	assert.Equal(t, uintptr(20), unsafe.Sizeof(Vertex{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(TextVertex{}))
	assert.Equal(t, uintptr(64), unsafe.Sizeof(mgl32.Mat4{}))
}
