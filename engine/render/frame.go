package render

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

const (
	InstanceSize   = 80  // mat4 + colour
	ParticleSize   = 32  // position, size, colour
	CameraDataSize = 256 // uniform block, padded
)

// RegionView is a merged static mesh. Mesh is shared with the scene and
// must not be modified.
type RegionView struct {
	Mesh     *mesh.Mesh
	Min, Max mgl32.Vec3
	Material uint8
}

// Instance places a copy of a template mesh.
type Instance struct {
	Model mgl32.Mat4
	Color [4]float32
}

// Particle is a camera-facing quad.
type Particle struct {
	Position mgl32.Vec3
	Size     float32
	Color    [4]float32
}

type MeteorView struct {
	Position mgl32.Vec3
	Size     float32
	Trail    []mgl32.Vec3
}

type CameraData struct {
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	ViewProj mgl32.Mat4
	Position mgl32.Vec3
	Right    mgl32.Vec3
	Up       mgl32.Vec3
}

// Frame is the read-only snapshot a renderer draws. It is rebuilt every
// frame and never written back into the simulation.
type Frame struct {
	Time   float32
	Camera CameraData

	Regions       []RegionView
	PrismTemplate *mesh.Mesh
	Prisms        []Instance
	Particles     []Particle
	Meteors       []MeteorView
	Projectiles   []Particle

	Entities    []byte // packed SDF entities
	EntityCount int
	BVH         []byte

	MeteorColor [4]float32
}

func NewFrame(cam *Camera, time float32) *Frame {
	f := &Frame{Time: time, MeteorColor: [4]float32{1, 0.45, 0.12, 1}}
	if cam != nil {
		f.Camera = CameraData{
			View:     cam.View(),
			Proj:     cam.Projection(),
			ViewProj: cam.ViewProj(),
			Position: cam.Position,
			Right:    cam.Right(),
			Up:       cam.Up(),
		}
	}
	return f
}

// VisibleRegions filters regions against the camera frustum.
func (f *Frame) VisibleRegions() []RegionView {
	planes := ExtractFrustum(f.Camera.ViewProj)
	out := make([]RegionView, 0, len(f.Regions))
	for _, r := range f.Regions {
		if AABBInFrustum(r.Min, r.Max, planes) {
			out = append(out, r)
		}
	}
	return out
}

// Billboards collects debris, projectiles and meteors (heads and trails)
// into one particle list.
func (f *Frame) Billboards() []Particle {
	out := make([]Particle, 0, len(f.Particles)+len(f.Projectiles)+len(f.Meteors)*8)
	out = append(out, f.Particles...)
	out = append(out, f.Projectiles...)
	for _, m := range f.Meteors {
		out = append(out, Particle{Position: m.Position, Size: m.Size, Color: f.MeteorColor})
		n := len(m.Trail)
		for i, p := range m.Trail {
			fade := float32(i+1) / float32(n+1)
			c := f.MeteorColor
			c[3] *= fade
			out = append(out, Particle{Position: p, Size: m.Size * (0.3 + 0.7*fade), Color: c})
		}
	}
	return out
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putMat(buf []byte, off int, m mgl32.Mat4) {
	for i, v := range m {
		putF32(buf, off+i*4, v)
	}
}

func putVec4(buf []byte, off int, v mgl32.Vec3, w float32) {
	putF32(buf, off, v[0])
	putF32(buf, off+4, v[1])
	putF32(buf, off+8, v[2])
	putF32(buf, off+12, w)
}

// CameraBytes packs the camera uniform:
// view_proj, inv_view_proj, position, right, up, params(time, entity count).
func (f *Frame) CameraBytes() []byte {
	buf := make([]byte, CameraDataSize)
	putMat(buf, 0, f.Camera.ViewProj)
	putMat(buf, 64, f.Camera.ViewProj.Inv())
	putVec4(buf, 128, f.Camera.Position, 1)
	putVec4(buf, 144, f.Camera.Right, 0)
	putVec4(buf, 160, f.Camera.Up, 0)
	putF32(buf, 176, f.Time)
	binary.LittleEndian.PutUint32(buf[180:], uint32(f.EntityCount))
	return buf
}

func InstanceBytes(in []Instance) []byte {
	buf := make([]byte, len(in)*InstanceSize)
	for i, inst := range in {
		off := i * InstanceSize
		putMat(buf, off, inst.Model)
		for k, c := range inst.Color {
			putF32(buf, off+64+k*4, c)
		}
	}
	return buf
}

func ParticleBytes(ps []Particle) []byte {
	buf := make([]byte, len(ps)*ParticleSize)
	for i, p := range ps {
		off := i * ParticleSize
		putVec4(buf, off, p.Position, p.Size)
		for k, c := range p.Color {
			putF32(buf, off+16+k*4, c)
		}
	}
	return buf
}
