package mesh

import "github.com/go-gl/mathgl/mgl32"

// FaceTop and FaceBottom are the face indices that follow the n side faces
// of a prism.
func FaceTop(sides int) int    { return sides }
func FaceBottom(sides int) int { return sides + 1 }

// Prism extrudes a convex footprint (XZ) from bottomY to topY. Side face i
// spans footprint corners i and i+1. skip, when set, omits faces it
// returns true for.
func Prism(footprint []mgl32.Vec2, bottomY, topY float32, color [4]float32, skip func(face int) bool) Mesh {
	var m Mesh
	n := len(footprint)
	if n < 3 {
		return m
	}

	var centroid mgl32.Vec2
	for _, p := range footprint {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float32(n))

	for i := 0; i < n; i++ {
		if skip != nil && skip(i) {
			continue
		}
		a, b := footprint[i], footprint[(i+1)%n]
		edge := b.Sub(a)
		out := mgl32.Vec2{edge.Y(), -edge.X()}
		mid := a.Add(b).Mul(0.5)
		if out.Dot(mid.Sub(centroid)) < 0 {
			out = out.Mul(-1)
		}
		out = out.Normalize()
		m.AddFace([]mgl32.Vec3{
			{a.X(), bottomY, a.Y()},
			{b.X(), bottomY, b.Y()},
			{b.X(), topY, b.Y()},
			{a.X(), topY, a.Y()},
		}, mgl32.Vec3{out.X(), 0, out.Y()}, color)
	}

	if skip == nil || !skip(FaceTop(n)) {
		m.AddFace(ring(footprint, topY), mgl32.Vec3{0, 1, 0}, color)
	}
	if skip == nil || !skip(FaceBottom(n)) {
		m.AddFace(ring(footprint, bottomY), mgl32.Vec3{0, -1, 0}, color)
	}
	return m
}

func ring(footprint []mgl32.Vec2, y float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(footprint))
	for i, p := range footprint {
		out[i] = mgl32.Vec3{p.X(), y, p.Y()}
	}
	return out
}

// UnitPrism is a footprint-shaped prism centred on the origin, used as the
// template instanced for falling pieces.
func UnitPrism(footprint []mgl32.Vec2, height float32, color [4]float32) Mesh {
	var centroid mgl32.Vec2
	for _, p := range footprint {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float32(len(footprint)))
	local := make([]mgl32.Vec2, len(footprint))
	for i, p := range footprint {
		local[i] = p.Sub(centroid)
	}
	return Prism(local, -height/2, height/2, color, nil)
}
