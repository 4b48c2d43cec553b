package sdf

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type EntityType uint32

const (
	EntitySphere EntityType = iota
	EntityBox
	EntityCapsule
	EntityTorus
	EntityCylinder
)

// EntitySize is the packed size of an Entity in bytes.
const EntitySize = 48

// Matches WGSL SdfEntity
// struct SdfEntity {
//    position : vec3<f32>; (12)
//    kind : u32; (4)
//    params : vec4<f32>; (16)
//    color : vec4<f32>; (16)
// }; -> 48 bytes
//
// params by kind:
//   sphere   radius
//   box      half.x, half.y, half.z
//   capsule  (B-A).x, (B-A).y, (B-A).z, radius   (position is A)
//   torus    major, minor
//   cylinder radius, half height
type Entity struct {
	Position [3]float32
	Kind     EntityType
	Params   [4]float32
	Color    [4]float32
}

// NewEntity packs a primitive for upload.
func NewEntity(p Primitive, color [4]float32) Entity {
	e := Entity{Color: color}
	switch v := p.(type) {
	case Sphere:
		e.Kind = EntitySphere
		e.Position = v.Center
		e.Params[0] = v.Radius
	case Box:
		e.Kind = EntityBox
		e.Position = v.Center
		e.Params = [4]float32{v.Half.X(), v.Half.Y(), v.Half.Z(), 0}
	case Capsule:
		e.Kind = EntityCapsule
		e.Position = v.A
		ab := v.B.Sub(v.A)
		e.Params = [4]float32{ab.X(), ab.Y(), ab.Z(), v.Radius}
	case Torus:
		e.Kind = EntityTorus
		e.Position = v.Center
		e.Params[0], e.Params[1] = v.Major, v.Minor
	case Cylinder:
		e.Kind = EntityCylinder
		e.Position = v.Center
		e.Params[0], e.Params[1] = v.Radius, v.HalfHeight
	}
	return e
}

// EvalEntity is the CPU twin of sdf_entity() in the raymarch kernel. It is
// written in the kernel's scalar style and must stay in step with it.
func EvalEntity(e Entity, p mgl32.Vec3) float32 {
	px := p[0] - e.Position[0]
	py := p[1] - e.Position[1]
	pz := p[2] - e.Position[2]
	k := e.Params

	switch e.Kind {
	case EntitySphere:
		return sqrt32(px*px+py*py+pz*pz) - k[0]
	case EntityBox:
		qx := abs32(px) - k[0]
		qy := abs32(py) - k[1]
		qz := abs32(pz) - k[2]
		ox, oy, oz := max(qx, 0), max(qy, 0), max(qz, 0)
		return sqrt32(ox*ox+oy*oy+oz*oz) + min(max(qx, max(qy, qz)), 0)
	case EntityCapsule:
		bb := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
		var h float32
		if bb > 0 {
			h = clamp((px*k[0]+py*k[1]+pz*k[2])/bb, 0, 1)
		}
		dx, dy, dz := px-k[0]*h, py-k[1]*h, pz-k[2]*h
		return sqrt32(dx*dx+dy*dy+dz*dz) - k[3]
	case EntityTorus:
		qx := sqrt32(px*px+pz*pz) - k[0]
		return sqrt32(qx*qx+py*py) - k[1]
	case EntityCylinder:
		dx := sqrt32(px*px+pz*pz) - k[0]
		dy := abs32(py) - k[1]
		ox, oy := max(dx, 0), max(dy, 0)
		return min(max(dx, dy), 0) + sqrt32(ox*ox+oy*oy)
	}
	return float32(math.MaxFloat32)
}

// Primitive unpacks the entity.
func (e Entity) Primitive() Primitive {
	pos := mgl32.Vec3(e.Position)
	k := e.Params
	switch e.Kind {
	case EntityBox:
		return Box{Center: pos, Half: mgl32.Vec3{k[0], k[1], k[2]}}
	case EntityCapsule:
		return Capsule{A: pos, B: pos.Add(mgl32.Vec3{k[0], k[1], k[2]}), Radius: k[3]}
	case EntityTorus:
		return Torus{Center: pos, Major: k[0], Minor: k[1]}
	case EntityCylinder:
		return Cylinder{Center: pos, Radius: k[0], HalfHeight: k[1]}
	default:
		return Sphere{Center: pos, Radius: k[0]}
	}
}

func (e Entity) ToBytes() []byte {
	buf := make([]byte, EntitySize)
	putF := func(off int, f float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
	}
	for i, f := range e.Position {
		putF(i*4, f)
	}
	binary.LittleEndian.PutUint32(buf[12:16], uint32(e.Kind))
	for i, f := range e.Params {
		putF(16+i*4, f)
	}
	for i, f := range e.Color {
		putF(32+i*4, f)
	}
	return buf
}

// EntitiesBytes packs a storage buffer of entities.
func EntitiesBytes(es []Entity) []byte {
	out := make([]byte, 0, len(es)*EntitySize)
	for _, e := range es {
		out = append(out, e.ToBytes()...)
	}
	return out
}
