package layers

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Inputs the demo reacts to.
const (
	Key1 int = iota
	Key2
	Key3
	KeyH
	KeyR
	KeyS
	KeyL
	KeyEscape
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyShift
	MouseButtonLeft

	inputCount
)

type Input struct {
	Pressed      [inputCount]bool
	JustPressed  [inputCount]bool
	JustReleased [inputCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64

	// ScrollY is the vertical scroll received since the previous frame.
	ScrollY float64

	scrollAccum float64
	hasCursor   bool
}

// press records the new state of one key or button and derives the edges.
func (input *Input) press(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// moveCursor updates the cursor and its delta. The first sample has no delta.
func (input *Input) moveCursor(x, y float64) {
	if input.hasCursor {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	}
	input.MouseX, input.MouseY = x, y
	input.hasCursor = true
}

func (input *Input) takeScroll() {
	input.ScrollY = input.scrollAccum
	input.scrollAccum = 0
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	input := &Input{}
	s := MustResource[WindowState](app)
	s.windowGlfw.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		input.scrollAccum += yoff
	})
	cmd.AddResources(input)
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(s *WindowState, input *Input) {
	keyDown := func(k glfw.Key) bool { return s.windowGlfw.GetKey(k) == glfw.Press }
	for key, glfwKeys := range keyToGlfw {
		input.press(key, anyDown(keyDown, glfwKeys))
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.press(btn, s.windowGlfw.GetMouseButton(glfwBtn) == glfw.Press)
	}
	input.moveCursor(s.windowGlfw.GetCursorPos())
	input.takeScroll()
}

// anyDown reports whether one of keys is held.
func anyDown(down func(glfw.Key) bool, keys []glfw.Key) bool {
	for _, k := range keys {
		if down(k) {
			return true
		}
	}
	return false
}

var keyToGlfw = map[int][]glfw.Key{
	Key1:      {glfw.Key1, glfw.KeyKP1},
	Key2:      {glfw.Key2, glfw.KeyKP2},
	Key3:      {glfw.Key3, glfw.KeyKP3},
	KeyH:      {glfw.KeyH},
	KeyR:      {glfw.KeyR},
	KeyS:      {glfw.KeyS},
	KeyL:      {glfw.KeyL},
	KeyEscape: {glfw.KeyEscape},
	KeyRight:  {glfw.KeyRight},
	KeyLeft:   {glfw.KeyLeft},
	KeyDown:   {glfw.KeyDown},
	KeyUp:     {glfw.KeyUp},
	KeyShift:  {glfw.KeyLeftShift, glfw.KeyRightShift},
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft: glfw.MouseButtonLeft,
}
