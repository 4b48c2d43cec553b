package sdf

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is one of Sphere, Box, Capsule, Torus or Cylinder.
type Primitive interface {
	Distance(p mgl32.Vec3) float32
	Bounds() (mgl32.Vec3, mgl32.Vec3)
	isPrimitive()
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

type Box struct {
	Center mgl32.Vec3
	Half   mgl32.Vec3
}

// Capsule is a segment A-B swept by Radius.
type Capsule struct {
	A, B   mgl32.Vec3
	Radius float32
}

// Torus lies in the XZ plane.
type Torus struct {
	Center mgl32.Vec3
	Major  float32
	Minor  float32
}

// Cylinder is capped and aligned with Y.
type Cylinder struct {
	Center     mgl32.Vec3
	Radius     float32
	HalfHeight float32
}

func (Sphere) isPrimitive()   {}
func (Box) isPrimitive()      {}
func (Capsule) isPrimitive()  {}
func (Torus) isPrimitive()    {}
func (Cylinder) isPrimitive() {}

func (s Sphere) Distance(p mgl32.Vec3) float32 {
	return p.Sub(s.Center).Len() - s.Radius
}

func (s Sphere) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return s.Center.Sub(r), s.Center.Add(r)
}

func (b Box) Distance(p mgl32.Vec3) float32 {
	d := p.Sub(b.Center)
	q := mgl32.Vec3{abs32(d.X()) - b.Half.X(), abs32(d.Y()) - b.Half.Y(), abs32(d.Z()) - b.Half.Z()}
	outside := mgl32.Vec3{max(q.X(), 0), max(q.Y(), 0), max(q.Z(), 0)}.Len()
	inside := min(max(q.X(), max(q.Y(), q.Z())), 0)
	return outside + inside
}

func (b Box) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	return b.Center.Sub(b.Half), b.Center.Add(b.Half)
}

func (c Capsule) Distance(p mgl32.Vec3) float32 {
	pa := p.Sub(c.A)
	ba := c.B.Sub(c.A)
	denom := ba.Dot(ba)
	var h float32
	if denom > 0 {
		h = clamp(pa.Dot(ba)/denom, 0, 1)
	}
	return pa.Sub(ba.Mul(h)).Len() - c.Radius
}

func (c Capsule) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	lo := mgl32.Vec3{min(c.A.X(), c.B.X()), min(c.A.Y(), c.B.Y()), min(c.A.Z(), c.B.Z())}
	hi := mgl32.Vec3{max(c.A.X(), c.B.X()), max(c.A.Y(), c.B.Y()), max(c.A.Z(), c.B.Z())}
	return lo.Sub(r), hi.Add(r)
}

func (t Torus) Distance(p mgl32.Vec3) float32 {
	d := p.Sub(t.Center)
	qx := mgl32.Vec2{d.X(), d.Z()}.Len() - t.Major
	return mgl32.Vec2{qx, d.Y()}.Len() - t.Minor
}

func (t Torus) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	r := t.Major + t.Minor
	e := mgl32.Vec3{r, t.Minor, r}
	return t.Center.Sub(e), t.Center.Add(e)
}

func (c Cylinder) Distance(p mgl32.Vec3) float32 {
	d := p.Sub(c.Center)
	dx := mgl32.Vec2{d.X(), d.Z()}.Len() - c.Radius
	dy := abs32(d.Y()) - c.HalfHeight
	return min(max(dx, dy), 0) + mgl32.Vec2{max(dx, 0), max(dy, 0)}.Len()
}

func (c Cylinder) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	e := mgl32.Vec3{c.Radius, c.HalfHeight, c.Radius}
	return c.Center.Sub(e), c.Center.Add(e)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
