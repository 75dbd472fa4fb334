package layers

// CoreModules are the window independent parts of the demo: clock, parameter
// store, uniforms and the instanced plane field. Tests run them headless.
func CoreModules(cfg Config) []Module {
	return []Module{
		LoggingModule{Prefix: "layers", Debug: cfg.Debug},
		TimeModule{},
		ParametersModule{Values: cfg.ParamValues(), HasBloom: cfg.Bloom.Enabled},
		AssetServerModule{MeshPath: cfg.Mesh.Path},
		UniformsModule{},
		InstancingModule{Count: cfg.InstanceCount},
	}
}

// NewDemo assembles the full interactive demo for cfg.
func NewDemo(cfg Config) *AppBuilder {
	modules := CoreModules(cfg)
	modules = append(modules,
		WindowModule{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title},
		InputModule{},
		CameraModule{Config: cfg.Camera},
		PanelModule{Defaults: cfg.ParamValues()},
		PresetsModule{AppName: cfg.Presets.AppName, Slot: cfg.Presets.Slot},
		QuitModule{},
	)
	if cfg.Debug {
		modules = append(modules, FPSModule{})
	}
	modules = append(modules, RendererModule{Bloom: cfg.Bloom, Background: cfg.Background})

	return NewAppBuilder().UseModule(modules...)
}

// QuitModule stops the app when Escape is pressed.
type QuitModule struct{}

func (QuitModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(quitOnEscapeSystem).
			InStage(Update),
	)
}

func quitOnEscapeSystem(cmd *Commands, input *Input) {
	if input.JustPressed[KeyEscape] {
		cmd.Quit()
	}
}
