package layers

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func heldKeys(keys ...glfw.Key) func(glfw.Key) bool {
	return func(k glfw.Key) bool {
		for _, held := range keys {
			if held == k {
				return true
			}
		}
		return false
	}
}

func TestAnyDown_EitherShift(t *testing.T) {
	shift := keyToGlfw[KeyShift]
	assert.True(t, anyDown(heldKeys(glfw.KeyLeftShift), shift))
	assert.True(t, anyDown(heldKeys(glfw.KeyRightShift), shift))
	assert.False(t, anyDown(heldKeys(glfw.KeyLeftControl), shift))
	assert.False(t, anyDown(heldKeys(), nil))
}

func TestKeyToGlfw_CoversEveryKey(t *testing.T) {
	for key := Key1; key < MouseButtonLeft; key++ {
		assert.NotEmpty(t, keyToGlfw[key], "key %d", key)
	}
	assert.Len(t, buttonToGlfw, inputCount-MouseButtonLeft)
}

func TestInput_PressEdges(t *testing.T) {
	input := &Input{}
	input.press(KeyShift, true)
	assert.True(t, input.JustPressed[KeyShift])

	input.press(KeyShift, true)
	assert.True(t, input.Pressed[KeyShift])
	assert.False(t, input.JustPressed[KeyShift])

	input.press(KeyShift, false)
	assert.True(t, input.JustReleased[KeyShift])
	assert.False(t, input.Pressed[KeyShift])
}
