package render

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/layers/render/shaders"
)

// TextPass draws screen space text from a TextAtlas over whatever is already
// in the target.
type TextPass struct {
	Atlas *TextAtlas

	pipeline     *wgpu.RenderPipeline
	bindGroup    *wgpu.BindGroup
	atlasTexture *wgpu.Texture
	atlasView    *wgpu.TextureView
	vertexBuffer *wgpu.Buffer
	vertexCount  uint32
	device       *wgpu.Device
}

func NewTextPass(d *Device, sampler *wgpu.Sampler, atlas *TextAtlas) (*TextPass, error) {
	w, h := atlas.Image.Bounds().Dx(), atlas.Image.Bounds().Dy()
	extent := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}

	tex, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          extent,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("text atlas: %w", err)
	}
	p := &TextPass{Atlas: atlas, atlasTexture: tex, device: d.Device}

	if err := d.Queue.WriteTexture(tex.AsImageCopy(), atlas.Image.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &extent); err != nil {
		p.Release()
		return nil, fmt.Errorf("text atlas upload: %w", err)
	}
	if p.atlasView, err = tex.CreateView(nil); err != nil {
		p.Release()
		return nil, fmt.Errorf("text atlas view: %w", err)
	}

	module, err := d.createShader("TextShader", shaders.TextWGSL)
	if err != nil {
		p.Release()
		return nil, err
	}
	defer module.Release()

	p.pipeline, err = d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: d.Format(),
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
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
		p.Release()
		return nil, fmt.Errorf("text pipeline: %w", err)
	}

	p.bindGroup, err = d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TextBG",
		Layout: p.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.atlasView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("text bind group: %w", err)
	}
	return p, nil
}

// Update rebuilds the vertex buffer for this frame's items.
func (p *TextPass) Update(queue *wgpu.Queue, items []TextItem, screenW, screenH int) error {
	vertices := p.Atlas.BuildVertices(items, screenW, screenH)
	p.vertexCount = uint32(len(vertices))
	if len(vertices) == 0 {
		return nil
	}

	size := uint64(len(vertices)) * uint64(unsafe.Sizeof(TextVertex{}))
	if p.vertexBuffer == nil || p.vertexBuffer.GetSize() < size {
		if p.vertexBuffer != nil {
			p.vertexBuffer.Release()
		}
		buf, err := p.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TextVertexBuffer",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.vertexBuffer = nil
			p.vertexCount = 0
			return fmt.Errorf("text vertex buffer: %w", err)
		}
		p.vertexBuffer = buf
	}
	return queue.WriteBuffer(p.vertexBuffer, 0, wgpu.ToBytes(vertices))
}

func (p *TextPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.vertexCount == 0 || p.vertexBuffer == nil {
		return
	}
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.SetVertexBuffer(0, p.vertexBuffer, 0, p.vertexBuffer.GetSize())
	pass.Draw(p.vertexCount, 1, 0, 0)
}

// Release frees whatever has been created so far.
func (p *TextPass) Release() {
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.atlasView != nil {
		p.atlasView.Release()
	}
	if p.atlasTexture != nil {
		p.atlasTexture.Release()
	}
}
