package sdf

import "github.com/go-gl/mathgl/mgl32"

// Field is a signed distance function: negative inside, positive outside.
type Field func(p mgl32.Vec3) float32

func FromPrimitive(p Primitive) Field {
	return p.Distance
}

// FromEntities unions packed entities through EvalEntity, the same path the
// kernel takes.
func FromEntities(es []Entity) Field {
	return func(p mgl32.Vec3) float32 {
		d := float32(1e30)
		for _, e := range es {
			d = min(d, EvalEntity(e, p))
		}
		return d
	}
}

func Union(a, b Field) Field {
	return func(p mgl32.Vec3) float32 { return min(a(p), b(p)) }
}

func Intersect(a, b Field) Field {
	return func(p mgl32.Vec3) float32 { return max(a(p), b(p)) }
}

// Subtract carves b out of a.
func Subtract(a, b Field) Field {
	return func(p mgl32.Vec3) float32 { return max(a(p), -b(p)) }
}

// SmoothUnion blends a and b over distance k (polynomial smooth min).
func SmoothUnion(a, b Field, k float32) Field {
	if k <= 0 {
		return Union(a, b)
	}
	return func(p mgl32.Vec3) float32 {
		da, db := a(p), b(p)
		h := clamp(0.5+0.5*(db-da)/k, 0, 1)
		return db + (da-db)*h - k*h*(1-h)
	}
}

func Translate(f Field, offset mgl32.Vec3) Field {
	return func(p mgl32.Vec3) float32 { return f(p.Sub(offset)) }
}

// Gradient estimates the field normal by central differences.
func Gradient(f Field, p mgl32.Vec3, eps float32) mgl32.Vec3 {
	dx := f(p.Add(mgl32.Vec3{eps, 0, 0})) - f(p.Sub(mgl32.Vec3{eps, 0, 0}))
	dy := f(p.Add(mgl32.Vec3{0, eps, 0})) - f(p.Sub(mgl32.Vec3{0, eps, 0}))
	dz := f(p.Add(mgl32.Vec3{0, 0, eps})) - f(p.Sub(mgl32.Vec3{0, 0, eps}))
	return mgl32.Vec3{dx, dy, dz}
}
