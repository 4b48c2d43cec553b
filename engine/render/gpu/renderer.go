package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/hungaromakker/battle-tok-sub003/engine/render"
)

// RenderPass is one stage of the frame. Passes share a single render pass
// encoder and are run in priority order.
type RenderPass interface {
	render.Pass
	Initialize(ctx *Context, camera *wgpu.Buffer) error
	// Prepare uploads per-frame data before the render pass begins.
	Prepare(queue *wgpu.Queue, frame *render.Frame) error
	Render(pass *wgpu.RenderPassEncoder)
	Release()
}

type Renderer struct {
	ctx        *Context
	passes     render.Registry[RenderPass]
	camera     *wgpu.Buffer
	ClearColor wgpu.Color
}

func NewRenderer(ctx *Context) (*Renderer, error) {
	camera, err := ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform",
		Size:  render.CameraDataSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: camera buffer: %w", err)
	}
	return &Renderer{
		ctx:        ctx,
		camera:     camera,
		ClearColor: wgpu.Color{R: 0.62, G: 0.7, B: 0.8, A: 1},
	}, nil
}

// Add initializes p and registers it.
func (r *Renderer) Add(p RenderPass) error {
	if err := p.Initialize(r.ctx, r.camera); err != nil {
		return fmt.Errorf("gpu: init pass %s: %w", p.Name(), err)
	}
	return r.passes.Register(p)
}

func (r *Renderer) Passes() []RenderPass { return r.passes.Passes() }

// Draw renders one frame to the window surface.
func (r *Renderer) Draw(frame *render.Frame) error {
	queue := r.ctx.Queue
	queue.WriteBuffer(r.camera, 0, frame.CameraBytes())
	for _, p := range r.passes.Passes() {
		if err := p.Prepare(queue, frame); err != nil {
			return fmt.Errorf("gpu: prepare %s: %w", p.Name(), err)
		}
	}

	next, err := r.ctx.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: current texture: %w", err)
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: command encoder: %w", err)
	}

	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: r.ClearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.ctx.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	for _, p := range r.passes.Passes() {
		p.Render(rp)
	}
	if err := rp.End(); err != nil {
		return fmt.Errorf("gpu: end render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish encoder: %w", err)
	}
	queue.Submit(cmd)
	r.ctx.Surface.Present()
	return nil
}

func (r *Renderer) Release() {
	for _, p := range r.passes.Passes() {
		p.Release()
	}
	if r.camera != nil {
		r.camera.Release()
	}
}

func depthState(write bool, compare wgpu.CompareFunction) *wgpu.DepthStencilState {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

var alphaBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}

func cameraBindGroup(device *wgpu.Device, label string, pipeline *wgpu.RenderPipeline, camera *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: camera, Size: render.CameraDataSize},
		},
	})
}

var (
	_ RenderPass = (*SDFPass)(nil)
	_ RenderPass = (*MeshPass)(nil)
	_ RenderPass = (*ParticlePass)(nil)
)
