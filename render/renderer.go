package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type Options struct {
	Width, Height int
	Vertices      []Vertex
	Indices       []uint32

	Bloom         bool
	BloomPasses   int
	BloomExposure float32

	// Background is the sRGB clear color, channels 0..1.
	Background [3]float32

	FontSize float64
}

// Renderer draws the plane field, optionally through the bloom chain, and the
// text overlay on top.
type Renderer struct {
	Device *Device
	Planes *PlanePass
	Bloom  *BloomPass // nil when bloom is off
	Text   *TextPass  // nil when the overlay could not be set up, see TextErr

	// TextErr is why Text is nil. The scene still renders without it.
	TextErr error

	clearValue wgpu.Color
	sampler    *wgpu.Sampler
}

func New(surfaceDesc *wgpu.SurfaceDescriptor, opts Options) (*Renderer, error) {
	dev, err := NewDevice(surfaceDesc, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	r := &Renderer{Device: dev, clearValue: clearColor(opts.Background)}
	if r.sampler, err = dev.createLinearSampler(); err != nil {
		r.Release()
		return nil, fmt.Errorf("sampler: %w", err)
	}

	planeFormat := dev.Format()
	if opts.Bloom {
		planeFormat = HDRFormat
		if r.Bloom, err = NewBloomPass(dev, r.sampler, opts.BloomPasses, opts.BloomExposure); err != nil {
			r.Release()
			return nil, err
		}
	}

	if r.Planes, err = NewPlanePass(dev, planeFormat, opts.Vertices, opts.Indices); err != nil {
		r.Release()
		return nil, err
	}

	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = 18
	}
	atlas, err := NewTextAtlas(fontSize)
	if err == nil {
		r.Text, err = NewTextPass(dev, r.sampler, atlas)
	}
	if err != nil {
		r.Text = nil
		r.TextErr = fmt.Errorf("text overlay: %w", err)
	}
	return r, nil
}

func clearColor(srgb [3]float32) wgpu.Color {
	return wgpu.Color{
		R: float64(SRGBToLinear(srgb[0])),
		G: float64(SRGBToLinear(srgb[1])),
		B: float64(SRGBToLinear(srgb[2])),
		A: 1,
	}
}

// Resize follows a framebuffer size change.
func (r *Renderer) Resize(width, height int) error {
	if !r.Device.Resize(width, height) {
		return nil
	}
	if r.Bloom != nil {
		return r.Bloom.Resize(uint32(width), uint32(height))
	}
	return nil
}

func (r *Renderer) WriteFrame(viewProj mgl32.Mat4, time, colorsSpeed float32) error {
	return r.Planes.WriteFrame(r.Device.Queue, viewProj, time, colorsSpeed)
}

func (r *Renderer) WriteColors(color1, color2 [3]float32) error {
	return r.Planes.WriteColors(r.Device.Queue, color1, color2)
}

func (r *Renderer) WriteInstances(models []mgl32.Mat4) error {
	return r.Planes.WriteInstances(r.Device.Queue, models)
}

func (r *Renderer) WriteBloom(s BloomSettings) error {
	if r.Bloom == nil {
		return nil
	}
	return r.Bloom.WriteSettings(r.Device.Queue, s)
}

func (r *Renderer) WriteText(items []TextItem) error {
	if r.Text == nil {
		return nil
	}
	w, h := r.Device.Size()
	return r.Text.Update(r.Device.Queue, items, int(w), int(h))
}

// Render encodes and presents one frame. On error nothing is presented.
func (r *Renderer) Render() error {
	surfaceTexture, err := r.Device.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("current texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.Device.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("command encoder: %w", err)
	}
	defer encoder.Release()

	sceneTarget := view
	if r.Bloom != nil {
		sceneTarget = r.Bloom.Scene.View
	}

	scenePass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       sceneTarget,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: r.clearValue,
		}},
	})
	r.Planes.Draw(scenePass)
	if r.Bloom == nil && r.Text != nil {
		r.Text.Draw(scenePass)
	}
	if err := scenePass.End(); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}

	if r.Bloom != nil {
		if err := r.Bloom.Encode(encoder); err != nil {
			return err
		}
		finalPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{0, 0, 0, 1},
			}},
		})
		r.Bloom.DrawComposite(finalPass)
		if r.Text != nil {
			r.Text.Draw(finalPass)
		}
		if err := finalPass.End(); err != nil {
			return fmt.Errorf("composite pass: %w", err)
		}
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()

	r.Device.Queue.Submit(cmd)
	r.Device.Surface.Present()
	return nil
}

// Release frees every GPU object. Safe on a partially built renderer.
func (r *Renderer) Release() {
	if r.Text != nil {
		r.Text.Release()
	}
	if r.Planes != nil {
		r.Planes.Release()
	}
	if r.Bloom != nil {
		r.Bloom.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	r.Device.Release()
}
