package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
	"github.com/hungaromakker/battle-tok-sub003/engine/render"
	"github.com/hungaromakker/battle-tok-sub003/engine/render/shaders"
)

// meshVertexLayout matches mesh.Vertex.
var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: mesh.VertexSize,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
	},
}

// instanceLayout matches render.Instance.
var instanceLayout = wgpu.VertexBufferLayout{
	ArrayStride: render.InstanceSize,
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 7},
	},
}

type meshBatch struct {
	vertices      *wgpu.Buffer
	indices       *wgpu.Buffer
	instances     *wgpu.Buffer
	indexCount    uint32
	instanceCount uint32
}

func (b *meshBatch) upload(device *wgpu.Device, label string, m *mesh.Mesh, inst []render.Instance) error {
	b.indexCount, b.instanceCount = 0, 0
	if m == nil || m.Empty() || len(inst) == 0 {
		return nil
	}
	if _, err := ensureBuffer(device, label+" Vertices", &b.vertices, m.VertexBytes(), wgpu.BufferUsageVertex); err != nil {
		return err
	}
	if _, err := ensureBuffer(device, label+" Indices", &b.indices, m.IndexBytes(), wgpu.BufferUsageIndex); err != nil {
		return err
	}
	if _, err := ensureBuffer(device, label+" Instances", &b.instances, render.InstanceBytes(inst), wgpu.BufferUsageVertex); err != nil {
		return err
	}
	b.indexCount = uint32(len(m.Indices))
	b.instanceCount = uint32(len(inst))
	return nil
}

func (b *meshBatch) draw(pass *wgpu.RenderPassEncoder) {
	if b.indexCount == 0 {
		return
	}
	pass.SetVertexBuffer(0, b.vertices, 0, b.vertices.GetSize())
	pass.SetVertexBuffer(1, b.instances, 0, b.instances.GetSize())
	pass.SetIndexBuffer(b.indices, wgpu.IndexFormatUint32, 0, b.indices.GetSize())
	pass.DrawIndexed(b.indexCount, b.instanceCount, 0, 0, 0)
}

func (b *meshBatch) release() {
	for _, buf := range []*wgpu.Buffer{b.vertices, b.indices, b.instances} {
		if buf != nil {
			buf.Release()
		}
	}
}

// MeshPass draws merged static regions and instanced falling prisms.
type MeshPass struct {
	device    *wgpu.Device
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup

	regions batchCache
	static  meshBatch
	prisms  meshBatch
}

// batchCache remembers which region meshes were last combined.
type batchCache struct {
	meshes   []*mesh.Mesh
	combined mesh.Mesh
}

func (c *batchCache) update(regions []render.RegionView) bool {
	same := len(regions) == len(c.meshes)
	for i := 0; same && i < len(regions); i++ {
		same = regions[i].Mesh == c.meshes[i]
	}
	if same {
		return false
	}
	c.meshes = c.meshes[:0]
	c.combined = mesh.Mesh{}
	for _, r := range regions {
		c.meshes = append(c.meshes, r.Mesh)
		c.combined.Append(*r.Mesh)
	}
	return true
}

func NewMeshPass() *MeshPass { return &MeshPass{} }

func (p *MeshPass) Name() string  { return "mesh" }
func (p *MeshPass) Priority() int { return 10 }

func (p *MeshPass) Initialize(ctx *Context, camera *wgpu.Buffer) error {
	p.device = ctx.Device
	module, err := ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MeshShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeshWGSL},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	p.pipeline, err = ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "MeshPipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{meshVertexLayout, instanceLayout},
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
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: depthState(true, wgpu.CompareFunctionLess),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	p.bindGroup, err = cameraBindGroup(ctx.Device, "MeshCameraBG", p.pipeline, camera)
	return err
}

func (p *MeshPass) Prepare(queue *wgpu.Queue, frame *render.Frame) error {
	if p.regions.update(frame.VisibleRegions()) {
		ident := []render.Instance{{Model: mgl32.Ident4(), Color: [4]float32{1, 1, 1, 1}}}
		if err := p.static.upload(p.device, "Regions", &p.regions.combined, ident); err != nil {
			return err
		}
	}
	return p.prisms.upload(p.device, "Prisms", frame.PrismTemplate, frame.Prisms)
}

func (p *MeshPass) Render(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	p.static.draw(pass)
	p.prisms.draw(pass)
}

func (p *MeshPass) Release() {
	p.static.release()
	p.prisms.release()
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
