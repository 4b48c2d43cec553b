package grid

import "github.com/go-gl/mathgl/mgl32"

// HitInfo describes the nearest cell a ray struck.
type HitInfo struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Coord    Coord
	Distance float32
}

// Raycast finds the nearest occupied cell along a unit-length ray within
// maxDist. The ray is marched at half the cell extent; every occupied cell
// around each sample is tested against its exact solid.
func (g *Grid) Raycast(origin, dir mgl32.Vec3, maxDist float32) (HitInfo, bool) {
	if g.Len() == 0 || maxDist <= 0 {
		return HitInfo{}, false
	}

	extent := g.Lattice.Extent()
	step := extent * 0.5
	tested := make(CoordSet)

	var best HitInfo
	found := false

	try := func(c Coord) {
		if tested.Has(c) {
			return
		}
		tested.Add(c)
		if !g.Occupied(c) {
			return
		}
		t, n, ok := g.Lattice.IntersectRay(c, origin, dir)
		if !ok || t > maxDist {
			return
		}
		if !found || t < best.Distance {
			best = HitInfo{
				Position: origin.Add(dir.Mul(t)),
				Normal:   n,
				Coord:    c,
				Distance: t,
			}
			found = true
		}
	}

	for t := float32(0); t <= maxDist+step; t += step {
		if found && best.Distance+2*extent < t {
			break
		}
		c := g.Lattice.CoordAt(origin.Add(dir.Mul(t)))
		try(c)
		for i, n := range g.Lattice.Neighbors(c) {
			try(n)
			if i < g.Lattice.Sides() {
				try(n.Up())
				try(n.Down())
			}
		}
	}
	return best, found
}
