package layers

import (
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/layers/render"
)

type RenderState struct {
	renderer *render.Renderer
	models   []mgl32.Mat4
	items    []render.TextItem
}

type RendererModule struct {
	Bloom      BloomConfig
	Background RGB
}

func (mod RendererModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()
	window := MustResource[WindowState](app)
	vp := MustResource[Viewport](app)
	assets := MustResource[AssetServer](app)

	mesh, ok := assets.Mesh(assets.PlaneMesh)
	if !ok {
		mesh = UnitPlane()
	}

	r, err := render.New(wgpuglfw.GetSurfaceDescriptor(window.Glfw()), render.Options{
		Width:         vp.Width,
		Height:        vp.Height,
		Vertices:      mesh.Vertices(),
		Indices:       mesh.Indices,
		Bloom:         mod.Bloom.Enabled,
		BloomPasses:   mod.Bloom.Passes,
		BloomExposure: mod.Bloom.Exposure,
		Background:    mod.Background.Normalized(),
	})
	if err != nil {
		logger.Errorf("renderer: %v", err)
		panic(err)
	}
	app.OnShutdown(r.Release)
	logger.Infof("renderer: format %v, bloom %v", r.Device.Format(), mod.Bloom.Enabled)
	if r.TextErr != nil {
		logger.Warnf("renderer: running without text: %v", r.TextErr)
	}

	cmd.AddResources(&RenderState{renderer: r})

	app.UseSystem(
		System(renderUploadSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

// instanceModels converts transforms into model matrices, reusing dst.
func instanceModels(dst []mgl32.Mat4, transforms []InstanceTransform) []mgl32.Mat4 {
	dst = dst[:0]
	for _, t := range transforms {
		dst = append(dst, t.Matrix())
	}
	return dst
}

// activeViewProjection returns the first camera's view-projection.
func activeViewProjection(cmd *Commands) mgl32.Mat4 {
	viewProj := mgl32.Ident4()
	MakeQuery1[CameraComponent](cmd).Map(func(_ EntityId, cam *CameraComponent) bool {
		viewProj = cam.ViewProjection()
		return false
	})
	return viewProj
}

func collectTextItems(cmd *Commands, dst []render.TextItem) []render.TextItem {
	dst = dst[:0]
	MakeQuery1[TextComponent](cmd).Map(func(_ EntityId, tc *TextComponent) bool {
		if tc.Text == "" {
			return true
		}
		dst = append(dst, render.TextItem{
			Text:     tc.Text,
			Position: tc.Position,
			Scale:    tc.Scale,
			Color:    tc.Color,
		})
		return true
	})
	return dst
}

func renderUploadSystem(cmd *Commands, rs *RenderState, vp *Viewport, uniforms *ShaderUniforms, params *Parameters) {
	logger := cmd.Logger()
	r := rs.renderer

	if vp.Resized {
		if err := r.Resize(vp.Width, vp.Height); err != nil {
			logger.Errorf("renderer: resize: %v", err)
		}
	}

	if err := r.WriteFrame(activeViewProjection(cmd), uniforms.Time, uniforms.ColorsSpeed); err != nil {
		logger.Errorf("renderer: frame uniforms: %v", err)
	}
	if uniforms.ColorsDirty {
		if err := r.WriteColors(uniforms.Color1, uniforms.Color2); err != nil {
			logger.Errorf("renderer: colors: %v", err)
		} else {
			uniforms.ColorsDirty = false
		}
	}

	MakeQuery1[InstancedMesh](cmd).Map(func(_ EntityId, im *InstancedMesh) bool {
		if !im.Dirty {
			return true
		}
		rs.models = instanceModels(rs.models, im.Transforms)
		if err := r.WriteInstances(rs.models); err != nil {
			logger.Errorf("renderer: instances: %v", err)
			return true
		}
		im.Dirty = false
		return true
	})

	if params.HasBloom() {
		b := params.Bloom()
		if err := r.WriteBloom(render.BloomSettings{Strength: b.Strength, Radius: b.Radius, Threshold: b.Threshold}); err != nil {
			logger.Errorf("renderer: bloom: %v", err)
		}
	}

	rs.items = collectTextItems(cmd, rs.items)
	if err := r.WriteText(rs.items); err != nil {
		logger.Errorf("renderer: text: %v", err)
	}
}

func renderSystem(cmd *Commands, rs *RenderState) {
	if err := rs.renderer.Render(); err != nil {
		cmd.Logger().Errorf("renderer: %v", err)
	}
}
