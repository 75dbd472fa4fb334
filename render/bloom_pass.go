package render

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/layers/render/shaders"
)

// HDRFormat is the offscreen format the scene renders into when bloom is on.
const HDRFormat = wgpu.TextureFormatRGBA16Float

// BloomSettings are read from the parameter store every frame.
type BloomSettings struct {
	Strength  float32
	Radius    float32
	Threshold float32
}

type renderTarget struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

func newRenderTarget(d *Device, label string, width, height uint32) (renderTarget, error) {
	tex, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: max(width, 1), Height: max(height, 1), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        HDRFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return renderTarget{}, fmt.Errorf("%s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return renderTarget{}, fmt.Errorf("%s view: %w", label, err)
	}
	return renderTarget{Texture: tex, View: view}, nil
}

func (t renderTarget) release() {
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}

// BloomPass extracts bright pixels from the HDR scene, blurs them at half
// resolution with Passes horizontal+vertical pairs and adds them back on top
// of the scene while tone mapping to the surface format.
type BloomPass struct {
	Passes   int
	Exposure float32

	// Scene is the HDR target the plane pass draws into.
	Scene renderTarget
	ping  renderTarget
	pong  renderTarget

	brightPipeline    *wgpu.RenderPipeline
	blurPipeline      *wgpu.RenderPipeline
	compositePipeline *wgpu.RenderPipeline

	brightUniform    *wgpu.Buffer
	blurHUniform     *wgpu.Buffer
	blurVUniform     *wgpu.Buffer
	compositeUniform *wgpu.Buffer

	brightGroup    *wgpu.BindGroup
	blurFromPing   *wgpu.BindGroup
	blurFromPong   *wgpu.BindGroup
	compositeGroup *wgpu.BindGroup

	sampler *wgpu.Sampler
	device  *Device
}

func NewBloomPass(d *Device, sampler *wgpu.Sampler, passes int, exposure float32) (*BloomPass, error) {
	b := &BloomPass{
		Passes:   max(passes, 1),
		Exposure: exposure,
		sampler:  sampler,
		device:   d,
	}

	var err error
	if b.brightPipeline, err = createFullscreenPipeline(d, "BloomBright", shaders.BloomBrightWGSL, HDRFormat); err != nil {
		b.Release()
		return nil, err
	}
	if b.blurPipeline, err = createFullscreenPipeline(d, "BloomBlur", shaders.BloomBlurWGSL, HDRFormat); err != nil {
		b.Release()
		return nil, err
	}
	if b.compositePipeline, err = createFullscreenPipeline(d, "BloomComposite", shaders.BloomCompositeWGSL, d.Format()); err != nil {
		b.Release()
		return nil, err
	}

	for _, u := range []struct {
		buf   **wgpu.Buffer
		label string
	}{
		{&b.brightUniform, "BloomBrightUniform"},
		{&b.blurHUniform, "BloomBlurHUniform"},
		{&b.blurVUniform, "BloomBlurVUniform"},
		{&b.compositeUniform, "BloomCompositeUniform"},
	} {
		if *u.buf, err = d.createUniformBuffer(u.label, bloomUniformSize); err != nil {
			b.Release()
			return nil, err
		}
	}

	width, height := d.Size()
	if err := b.Resize(width, height); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func createFullscreenPipeline(d *Device, label, code string, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	module, err := d.createShader(label+"Shader", code)
	if err != nil {
		return nil, err
	}
	defer module.Release()

	pipeline, err := d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: label + "Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", label, err)
	}
	return pipeline, nil
}

// BlurSize is the resolution of the blur targets for a given surface size.
func BlurSize(width, height uint32) (uint32, uint32) {
	return max(width/2, 1), max(height/2, 1)
}

// Resize recreates the offscreen targets and the bind groups reading them.
func (b *BloomPass) Resize(width, height uint32) error {
	b.releaseTargets()

	var err error
	if b.Scene, err = newRenderTarget(b.device, "BloomScene", width, height); err != nil {
		return err
	}
	bw, bh := BlurSize(width, height)
	if b.ping, err = newRenderTarget(b.device, "BloomPing", bw, bh); err != nil {
		return err
	}
	if b.pong, err = newRenderTarget(b.device, "BloomPong", bw, bh); err != nil {
		return err
	}

	dev := b.device.Device
	if b.brightGroup, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BloomBrightBG",
		Layout: b.brightPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.Scene.View},
			{Binding: 1, Sampler: b.sampler},
			{Binding: 2, Buffer: b.brightUniform, Size: bloomUniformSize},
		},
	}); err != nil {
		return err
	}
	if b.blurFromPing, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BloomBlurPingBG",
		Layout: b.blurPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.ping.View},
			{Binding: 1, Sampler: b.sampler},
			{Binding: 2, Buffer: b.blurHUniform, Size: bloomUniformSize},
		},
	}); err != nil {
		return err
	}
	if b.blurFromPong, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BloomBlurPongBG",
		Layout: b.blurPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.pong.View},
			{Binding: 1, Sampler: b.sampler},
			{Binding: 2, Buffer: b.blurVUniform, Size: bloomUniformSize},
		},
	}); err != nil {
		return err
	}
	b.compositeGroup, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "BloomCompositeBG",
		Layout: b.compositePipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.Scene.View},
			{Binding: 1, TextureView: b.ping.View},
			{Binding: 2, Sampler: b.sampler},
			{Binding: 3, Buffer: b.compositeUniform, Size: bloomUniformSize},
		},
	})
	return err
}

// WriteSettings uploads the live bloom parameters.
func (b *BloomPass) WriteSettings(queue *wgpu.Queue, s BloomSettings) error {
	spread := BlurSpread(s.Radius)
	return errors.Join(
		queue.WriteBuffer(b.brightUniform, 0, packBright(s.Threshold)),
		queue.WriteBuffer(b.blurHUniform, 0, packBlur(1, 0, spread)),
		queue.WriteBuffer(b.blurVUniform, 0, packBlur(0, 1, spread)),
		queue.WriteBuffer(b.compositeUniform, 0, packComposite(s.Strength, b.Exposure)),
	)
}

func fullscreenPass(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, pipeline *wgpu.RenderPipeline, group *wgpu.BindGroup) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{0, 0, 0, 1},
		}},
	})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, group, nil)
	pass.Draw(3, 1, 0, 0)
	return pass.End()
}

// Encode runs the bright pass and the blur chain. The blurred result is
// combined with the scene by DrawComposite.
func (b *BloomPass) Encode(encoder *wgpu.CommandEncoder) error {
	if err := fullscreenPass(encoder, b.ping.View, b.brightPipeline, b.brightGroup); err != nil {
		return fmt.Errorf("bloom bright: %w", err)
	}
	for i := 0; i < b.Passes; i++ {
		if err := fullscreenPass(encoder, b.pong.View, b.blurPipeline, b.blurFromPing); err != nil {
			return fmt.Errorf("bloom blur h: %w", err)
		}
		if err := fullscreenPass(encoder, b.ping.View, b.blurPipeline, b.blurFromPong); err != nil {
			return fmt.Errorf("bloom blur v: %w", err)
		}
	}
	return nil
}

// DrawComposite writes the tone mapped result into an open render pass.
func (b *BloomPass) DrawComposite(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(b.compositePipeline)
	pass.SetBindGroup(0, b.compositeGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

func (b *BloomPass) releaseTargets() {
	for _, g := range []*wgpu.BindGroup{b.brightGroup, b.blurFromPing, b.blurFromPong, b.compositeGroup} {
		if g != nil {
			g.Release()
		}
	}
	b.brightGroup, b.blurFromPing, b.blurFromPong, b.compositeGroup = nil, nil, nil, nil
	b.Scene.release()
	b.ping.release()
	b.pong.release()
	b.Scene, b.ping, b.pong = renderTarget{}, renderTarget{}, renderTarget{}
}

// Release frees whatever has been created so far.
func (b *BloomPass) Release() {
	b.releaseTargets()
	for _, buf := range []*wgpu.Buffer{b.brightUniform, b.blurHUniform, b.blurVUniform, b.compositeUniform} {
		if buf != nil {
			buf.Release()
		}
	}
	for _, p := range []*wgpu.RenderPipeline{b.brightPipeline, b.blurPipeline, b.compositePipeline} {
		if p != nil {
			p.Release()
		}
	}
}
