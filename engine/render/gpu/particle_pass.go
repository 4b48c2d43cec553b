package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/hungaromakker/battle-tok-sub003/engine/render"
	"github.com/hungaromakker/battle-tok-sub003/engine/render/shaders"
)

// ParticlePass draws debris, projectiles and meteors as camera-facing
// quads.
type ParticlePass struct {
	device    *wgpu.Device
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
	instances *wgpu.Buffer
	count     uint32
}

func NewParticlePass() *ParticlePass { return &ParticlePass{} }

func (p *ParticlePass) Name() string  { return "particles" }
func (p *ParticlePass) Priority() int { return 20 }

func (p *ParticlePass) Initialize(ctx *Context, camera *wgpu.Buffer) error {
	p.device = ctx.Device
	module, err := ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticleWGSL},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	p.pipeline, err = ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "ParticlePipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: render.ParticleSize,
				StepMode:    wgpu.VertexStepModeInstance,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
				},
			}},
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
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState(false, wgpu.CompareFunctionLess),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	p.bindGroup, err = cameraBindGroup(ctx.Device, "ParticleCameraBG", p.pipeline, camera)
	return err
}

func (p *ParticlePass) Prepare(queue *wgpu.Queue, frame *render.Frame) error {
	bb := frame.Billboards()
	p.count = uint32(len(bb))
	if p.count == 0 {
		return nil
	}
	_, err := ensureBuffer(p.device, "ParticleInstances", &p.instances, render.ParticleBytes(bb), wgpu.BufferUsageVertex)
	return err
}

func (p *ParticlePass) Render(pass *wgpu.RenderPassEncoder) {
	if p.count == 0 {
		return
	}
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.SetVertexBuffer(0, p.instances, 0, p.instances.GetSize())
	pass.Draw(6, p.count, 0, 0)
}

func (p *ParticlePass) Release() {
	if p.instances != nil {
		p.instances.Release()
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
