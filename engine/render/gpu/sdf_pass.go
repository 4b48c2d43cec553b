package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/hungaromakker/battle-tok-sub003/engine/render"
	"github.com/hungaromakker/battle-tok-sub003/engine/render/shaders"
)

// SDFPass raymarches the frame's SDF entities on a fullscreen triangle.
type SDFPass struct {
	device      *wgpu.Device
	pipeline    *wgpu.RenderPipeline
	cameraGroup *wgpu.BindGroup
	entityGroup *wgpu.BindGroup
	entities    *wgpu.Buffer
	count       int
}

func NewSDFPass() *SDFPass { return &SDFPass{} }

func (p *SDFPass) Name() string  { return "sdf" }
func (p *SDFPass) Priority() int { return 0 }

func (p *SDFPass) Initialize(ctx *Context, camera *wgpu.Buffer) error {
	p.device = ctx.Device
	module, err := ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "SDFShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SDFWGSL},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	p.pipeline, err = ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "SDFPipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    ctx.Format(),
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend:     alphaBlend,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
			CullMode: wgpu.CullModeNone,
		},
		DepthStencil: depthState(false, wgpu.CompareFunctionAlways),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	p.cameraGroup, err = cameraBindGroup(ctx.Device, "SDFCameraBG", p.pipeline, camera)
	return err
}

func (p *SDFPass) Prepare(queue *wgpu.Queue, frame *render.Frame) error {
	p.count = frame.EntityCount
	if p.count == 0 {
		return nil
	}
	recreated, err := ensureBuffer(p.device, "SDFEntities", &p.entities, frame.Entities, wgpu.BufferUsageStorage)
	if err != nil {
		return err
	}
	if recreated || p.entityGroup == nil {
		if p.entityGroup != nil {
			p.entityGroup.Release()
		}
		p.entityGroup, err = p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "SDFEntitiesBG",
			Layout: p.pipeline.GetBindGroupLayout(1),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: p.entities, Size: wgpu.WholeSize},
			},
		})
	}
	return err
}

func (p *SDFPass) Render(pass *wgpu.RenderPassEncoder) {
	if p.count == 0 || p.entityGroup == nil {
		return
	}
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.cameraGroup, nil)
	pass.SetBindGroup(1, p.entityGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

func (p *SDFPass) Release() {
	for _, g := range []*wgpu.BindGroup{p.cameraGroup, p.entityGroup} {
		if g != nil {
			g.Release()
		}
	}
	if p.entities != nil {
		p.entities.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
