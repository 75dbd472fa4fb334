package layers

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceModels_ReusesBuffer(t *testing.T) {
	transforms := GenerateTransforms(0.5, 8, 1.3, 1.2)
	models := instanceModels(nil, transforms)
	require.Len(t, models, 8)
	for i, tr := range transforms {
		assert.Equal(t, tr.Matrix(), models[i])
	}

	again := instanceModels(models, transforms[:3])
	assert.Len(t, again, 3)
	assert.Same(t, &models[0], &again[0])
}

func TestActiveViewProjection(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	assert.Equal(t, mgl32.Ident4(), activeViewProjection(cmd), "identity without a camera")

	cam := CameraComponent{
		Position: mgl32.Vec3{0, 0, 10},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      60,
		Aspect:   1.5,
		Near:     0.1,
		Far:      100,
	}
	cmd.AddEntity(cam)
	app.FlushCommands()

	assert.Equal(t, cam.ViewProjection(), activeViewProjection(cmd))
}

func TestCollectTextItems_SkipsEmpty(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	cmd.AddEntity(TextComponent{Text: "hello", Position: [2]float32{3, 4}, Scale: 2, Color: [4]float32{1, 1, 1, 1}})
	cmd.AddEntity(TextComponent{})
	app.FlushCommands()

	items := collectTextItems(cmd, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "hello", items[0].Text)
	assert.Equal(t, [2]float32{3, 4}, items[0].Position)
	assert.Equal(t, float32(2), items[0].Scale)
}

func TestPanelModule_WritesPanelText(t *testing.T) {
	clock := &fakeClock{}
	app := NewAppBuilder().UseModule(
		TimeModule{Now: clock.Now},
		ParametersModule{Values: testParamValues()},
		PanelModule{Defaults: testParamValues()},
	).Build()
	app.Commands().AddResources(&Input{})

	MustResource[Parameters](app).SetRotationSpeed(2)
	app.Step()

	items := collectTextItems(app.Commands(), nil)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Text, "2.00")
}

func TestQuitOnEscape(t *testing.T) {
	app := NewAppBuilder().UseModule(QuitModule{}).Build()
	input := &Input{}
	app.Commands().AddResources(input)

	app.Step()
	assert.False(t, app.quitRequested)

	input.press(KeyEscape, true)
	app.Step()
	assert.True(t, app.quitRequested)
}
