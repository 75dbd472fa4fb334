package render

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/layers/render/shaders"
)

// Vertex matches VertexInput in planes.wgsl.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
}

// PlanePass draws every instance of one mesh with a per-instance model matrix.
type PlanePass struct {
	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	SceneBuffer    *wgpu.Buffer
	VertexBuffer   *wgpu.Buffer
	IndexBuffer    *wgpu.Buffer
	IndexCount     uint32
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32
	InstanceCount  uint32
	Device         *wgpu.Device
}

func NewPlanePass(d *Device, format wgpu.TextureFormat, vertices []Vertex, indices []uint32) (*PlanePass, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("plane pass: empty mesh")
	}

	shaderModule, err := d.createShader("PlanesShader", shaders.PlanesWGSL)
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	pipeline, err := d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "PlanesPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(mgl32.Mat4{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					// Layers add up; draw order does not matter without depth.
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("planes pipeline: %w", err)
	}

	p := &PlanePass{
		Pipeline:   pipeline,
		IndexCount: uint32(len(indices)),
		Device:     d.Device,
	}

	p.VertexBuffer, err = d.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "PlanesVertexBuffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("planes vertex buffer: %w", err)
	}
	p.IndexBuffer, err = d.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "PlanesIndexBuffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("planes index buffer: %w", err)
	}

	p.SceneBuffer, err = d.createUniformBuffer("PlanesSceneBuffer", SceneUniformSize)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.BindGroup, err = d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "PlanesSceneBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.SceneBuffer, Size: SceneUniformSize},
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("planes bind group: %w", err)
	}
	return p, nil
}

// WriteFrame uploads the per-frame part of the scene block.
func (p *PlanePass) WriteFrame(queue *wgpu.Queue, viewProj mgl32.Mat4, time, colorsSpeed float32) error {
	return queue.WriteBuffer(p.SceneBuffer, 0, PackSceneFrame(viewProj, time, colorsSpeed))
}

// WriteColors uploads color1 and color2. Colors only change on demand.
func (p *PlanePass) WriteColors(queue *wgpu.Queue, color1, color2 [3]float32) error {
	return queue.WriteBuffer(p.SceneBuffer, sceneColorsOffset, PackSceneColors(color1, color2))
}

// WriteInstances uploads model matrices, growing the instance buffer as needed.
func (p *PlanePass) WriteInstances(queue *wgpu.Queue, models []mgl32.Mat4) error {
	count := uint32(len(models))
	p.InstanceCount = count
	if count == 0 {
		return nil
	}

	if p.InstanceBuffer == nil || p.InstanceCap < count {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "PlanesInstanceBuffer",
			Size:  uint64(count) * uint64(unsafe.Sizeof(mgl32.Mat4{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceBuffer = nil
			p.InstanceCap = 0
			return fmt.Errorf("instance buffer: %w", err)
		}
		p.InstanceBuffer = buf
		p.InstanceCap = count
	}

	return queue.WriteBuffer(p.InstanceBuffer, 0, wgpu.ToBytes(models))
}

func (p *PlanePass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil || p.InstanceCount == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())
	pass.SetIndexBuffer(p.IndexBuffer, wgpu.IndexFormatUint32, 0, p.IndexBuffer.GetSize())
	pass.DrawIndexed(p.IndexCount, p.InstanceCount, 0, 0, 0)
}

// Release frees whatever has been created so far.
func (p *PlanePass) Release() {
	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.SceneBuffer != nil {
		p.SceneBuffer.Release()
	}
	if p.IndexBuffer != nil {
		p.IndexBuffer.Release()
	}
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
