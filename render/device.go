package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device owns the WebGPU objects shared by every pass.
type Device struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration
}

func NewDevice(surfaceDesc *wgpu.SurfaceDescriptor, width, height int) (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(surfaceDesc)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "layers device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	caps := surface.GetCapabilities(adapter)
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	return &Device{
		Instance: instance,
		Surface:  surface,
		Adapter:  adapter,
		Device:   device,
		Queue:    device.GetQueue(),
		Config:   config,
	}, nil
}

func (d *Device) Format() wgpu.TextureFormat {
	return d.Config.Format
}

func (d *Device) Size() (uint32, uint32) {
	return d.Config.Width, d.Config.Height
}

// Resize reconfigures the surface. Zero sizes (minimized window) are ignored.
func (d *Device) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	d.Config.Width = uint32(width)
	d.Config.Height = uint32(height)
	d.Surface.Configure(d.Adapter, d.Device, d.Config)
	return true
}

func (d *Device) createShader(label, code string) (*wgpu.ShaderModule, error) {
	module, err := d.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", label, err)
	}
	return module, nil
}

func (d *Device) createUniformBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

func (d *Device) createLinearSampler() (*wgpu.Sampler, error) {
	return d.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
}

func (d *Device) Release() {
	d.Device.Release()
	d.Adapter.Release()
	d.Surface.Release()
	d.Instance.Release()
}
