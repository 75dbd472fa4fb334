package layers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	props   map[string][]byte
	saveErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{props: make(map[string][]byte)}
}

func (m *memoryStorage) ObjectPropExists(object, property string) bool {
	_, ok := m.props[object+"/"+property]
	return ok
}

func (m *memoryStorage) LoadObjectProp(object, property string) ([]byte, error) {
	return m.props[object+"/"+property], nil
}

func (m *memoryStorage) SaveObjectProp(object, property string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.props[object+"/"+property] = data
	return nil
}

func TestPresets_SaveThenLoad(t *testing.T) {
	presets := NewPresets(newMemoryStorage())
	values := testParamValues()
	values.RotationSpeed = 0
	values.Color2 = RGB{1, 2, 3}

	require.NoError(t, presets.Save("mine", values))

	got, err := presets.Load("mine", testParamValues())
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestPresets_LoadKeepsMissingKeys(t *testing.T) {
	storage := newMemoryStorage()
	storage.props["presets/old"] = []byte("rotation_speed: 3\n")
	presets := NewPresets(storage)

	got, err := presets.Load("old", testParamValues())
	require.NoError(t, err)
	assert.Equal(t, float32(3), got.RotationSpeed)
	assert.Equal(t, testParamValues().Color1, got.Color1)
}

func TestPresets_Errors(t *testing.T) {
	disabled := NewPresets(nil)
	assert.False(t, disabled.Available())
	assert.ErrorIs(t, disabled.Save("x", testParamValues()), ErrPresetsUnavailable)
	_, err := disabled.Load("x", testParamValues())
	assert.ErrorIs(t, err, ErrPresetsUnavailable)

	storage := newMemoryStorage()
	presets := NewPresets(storage)
	_, err = presets.Load("missing", testParamValues())
	assert.ErrorIs(t, err, ErrNoPreset)

	storage.props["presets/broken"] = []byte("color1: [1, 2")
	got, err := presets.Load("broken", testParamValues())
	assert.Error(t, err)
	assert.Equal(t, testParamValues(), got)

	storage.saveErr = errors.New("disk full")
	assert.ErrorContains(t, presets.Save("x", testParamValues()), "disk full")
}

func TestPresetInputSystem(t *testing.T) {
	app := NewAppBuilder().UseModule(ParametersModule{Values: testParamValues()}).Build()
	presets := NewPresets(newMemoryStorage())
	input := &Input{}
	slot := &presetSlot{name: presetDefaultSlot}
	app.Commands().AddResources(presets, input, slot)
	app.UseSystem(System(presetInputSystem))
	params := MustResource[Parameters](app)

	params.SetRotationSpeed(4)
	input.press(KeyS, true)
	app.Step()

	params.SetRotationSpeed(-1)
	input.press(KeyS, false)
	input.press(KeyL, true)
	app.Step()

	assert.Equal(t, float32(4), params.RotationSpeed())
}
