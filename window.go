package layers

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw  *glfw.Window
	windowTitle string
}

// Glfw exposes the native window for surface creation.
func (s *WindowState) Glfw() *glfw.Window {
	return s.windowGlfw
}

func (s *WindowState) FramebufferSize() (int, int) {
	return s.windowGlfw.GetFramebufferSize()
}

func createWindowState(width, height int, title string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // rendering goes through WebGPU
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	return &WindowState{
		windowGlfw:  win,
		windowTitle: title,
	}, nil
}

func (s *WindowState) destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}

// WindowModule opens the GLFW window and publishes WindowState and Viewport.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()

	state, err := createWindowState(mod.Width, mod.Height, mod.Title)
	if err != nil {
		logger.Errorf("window: %v", err)
		panic(err)
	}
	app.OnShutdown(state.destroy)

	w, h := state.FramebufferSize()
	vp := &Viewport{Width: w, Height: h}
	state.windowGlfw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if width == vp.Width && height == vp.Height {
			return
		}
		vp.Width, vp.Height = width, height
		vp.Resized = true
		logger.Debugf("window: framebuffer %dx%d", width, height)
	})

	cmd.AddResources(state, vp)
	logger.Infof("window: %q %dx%d", mod.Title, w, h)

	app.UseSystem(
		System(windowEventsSystem).
			InStage(PreUpdate),
	)
}

func windowEventsSystem(cmd *Commands, s *WindowState, vp *Viewport) {
	vp.Resized = false
	glfw.PollEvents()
	if s.windowGlfw.ShouldClose() {
		cmd.Logger().Infof("window: close requested")
		cmd.Quit()
	}
}
