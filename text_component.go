package layers

import (
	"fmt"
)

// TextComponent is screen space text drawn over the scene. Lines are split on
// newlines.
type TextComponent struct {
	Text     string
	Position [2]float32 // pixels, top-left
	Scale    float32
	Color    [4]float32
}

// FPSText marks the debug frame rate line.
type FPSText struct {
	frames  int
	elapsed float32
}

type FPSModule struct{}

func (FPSModule) Install(app *App, cmd *Commands) {
	cmd.AddEntity(
		TextComponent{
			Text:     "fps --",
			Position: [2]float32{12, 0},
			Scale:    1,
			Color:    [4]float32{0.6, 1, 0.6, 1},
		},
		FPSText{},
	)
	app.UseSystem(
		System(fpsTextSystem).
			InStage(Update),
	)
}

// fpsTextSystem refreshes the frame rate twice a second.
func fpsTextSystem(cmd *Commands, t *Time, vp *Viewport) {
	dt := t.DtSeconds()
	MakeQuery2[TextComponent, FPSText](cmd).Map(func(_ EntityId, tc *TextComponent, fps *FPSText) bool {
		tc.Position[1] = float32(vp.Height) - 28
		fps.frames++
		fps.elapsed += dt
		if fps.elapsed >= 0.5 {
			tc.Text = fmt.Sprintf("fps %.0f  frame %.2fms", float32(fps.frames)/fps.elapsed, 1000*fps.elapsed/float32(fps.frames))
			fps.frames = 0
			fps.elapsed = 0
		}
		return true
	})
}
