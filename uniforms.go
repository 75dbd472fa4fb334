package layers

// ShaderUniforms mirrors the per-frame values of the plane shader. Colors are
// normalized to 0..1 and only change through the parameter change path.
type ShaderUniforms struct {
	Time        float32
	ColorsSpeed float32
	Color1      [3]float32
	Color2      [3]float32

	// ColorsDirty is raised by a color change and lowered by the renderer.
	ColorsDirty bool
}

type UniformsModule struct{}

func (UniformsModule) Install(app *App, cmd *Commands) {
	params := MustResource[Parameters](app)

	uniforms := &ShaderUniforms{
		Color1:      params.Color1().Normalized(),
		Color2:      params.Color2().Normalized(),
		ColorsDirty: true,
	}
	params.OnChange(func(name ParamName, p *Parameters) {
		switch name {
		case ParamColor1:
			uniforms.Color1 = p.Color1().Normalized()
			uniforms.ColorsDirty = true
		case ParamColor2:
			uniforms.Color2 = p.Color2().Normalized()
			uniforms.ColorsDirty = true
		}
	})
	cmd.AddResources(uniforms)

	app.UseSystem(
		System(shaderUniformsSystem).
			InStage(Update),
	)
}

func shaderUniformsSystem(t *Time, params *Parameters, uniforms *ShaderUniforms) {
	uniforms.Time = float32(t.Elapsed())
	uniforms.ColorsSpeed = params.ColorsSpeed()
}
