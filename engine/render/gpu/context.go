package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const DepthFormat = wgpu.TextureFormatDepth24Plus

// Context owns the device, the window surface and the depth target.
type Context struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView
}

func NewContext(window *glfw.Window) (*Context, error) {
	c := &Context{Window: window}
	c.Instance = wgpu.CreateInstance(nil)
	c.Surface = c.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := c.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	c.Adapter = adapter

	c.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	c.Queue = c.Device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := c.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 {
		return nil, fmt.Errorf("gpu: surface reports no formats")
	}
	c.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	c.Surface.Configure(adapter, c.Device, c.Config)

	if err := c.createDepth(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) Format() wgpu.TextureFormat { return c.Config.Format }

func (c *Context) Size() (uint32, uint32) { return c.Config.Width, c.Config.Height }

func (c *Context) createDepth() error {
	if c.DepthView != nil {
		c.DepthView.Release()
	}
	if c.DepthTexture != nil {
		c.DepthTexture.Release()
	}
	tex, err := c.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          wgpu.Extent3D{Width: c.Config.Width, Height: c.Config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("gpu: depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("gpu: depth view: %w", err)
	}
	c.DepthTexture, c.DepthView = tex, view
	return nil
}

// Resize reconfigures the surface and depth target. Zero sizes (minimised
// windows) are ignored.
func (c *Context) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	c.Config.Width = uint32(w)
	c.Config.Height = uint32(h)
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
	return c.createDepth()
}

func (c *Context) Release() {
	if c.DepthView != nil {
		c.DepthView.Release()
	}
	if c.DepthTexture != nil {
		c.DepthTexture.Release()
	}
	if c.Device != nil {
		c.Device.Release()
	}
	if c.Adapter != nil {
		c.Adapter.Release()
	}
	if c.Surface != nil {
		c.Surface.Release()
	}
	if c.Instance != nil {
		c.Instance.Release()
	}
}

// ensureBuffer grows buf to hold data and uploads it. It reports whether
// the buffer was recreated, which invalidates bind groups that use it.
func ensureBuffer(device *wgpu.Device, name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) (bool, error) {
	needed := uint64(len(data))
	if needed%4 != 0 {
		needed += 4 - needed%4
	}
	if needed == 0 {
		needed = 4
	}

	recreated := false
	current := *buf
	if current == nil || current.GetSize() < needed {
		if current != nil {
			current.Release()
		}
		// headroom so growing scenes do not reallocate every frame
		size := needed + needed/2
		size += (4 - size%4) % 4
		newBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  size,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return false, fmt.Errorf("gpu: create %s: %w", name, err)
		}
		*buf = newBuf
		recreated = true
	}
	if len(data) > 0 {
		padded := data
		if len(padded)%4 != 0 {
			padded = append(append([]byte(nil), data...), make([]byte, 4-len(data)%4)...)
		}
		device.GetQueue().WriteBuffer(*buf, 0, padded)
	}
	return recreated, nil
}
