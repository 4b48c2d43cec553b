package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const parallelEpsilon = 1e-8

// RayAABB intersects a ray with an axis-aligned box using the slab method.
// dir must be unit length for the returned distance to be in world units.
// A ray starting inside the box reports t = 0.
func RayAABB(origin, dir, boxMin, boxMax mgl32.Vec3) (float32, bool) {
	tEnter := float32(math.Inf(-1))
	tExit := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		if math.Abs(float64(d)) < parallelEpsilon {
			// Parallel to this slab: must already be between its planes.
			if o < boxMin[axis] || o > boxMax[axis] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (boxMin[axis] - o) * inv
		t2 := (boxMax[axis] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return 0, false
		}
	}

	if tExit < 0 {
		return 0, false
	}
	if tEnter < 0 {
		return 0, true
	}
	return tEnter, true
}

// AABBSurfaceNormal returns the outward normal of the box face nearest to point.
// Ties resolve in the order -X, +X, -Y, +Y, -Z, +Z (axis priority X > Y > Z).
func AABBSurfaceNormal(point, boxMin, boxMax mgl32.Vec3) mgl32.Vec3 {
	normals := [6]mgl32.Vec3{
		{-1, 0, 0}, {1, 0, 0},
		{0, -1, 0}, {0, 1, 0},
		{0, 0, -1}, {0, 0, 1},
	}
	dists := [6]float32{
		abs32(point.X() - boxMin.X()), abs32(boxMax.X() - point.X()),
		abs32(point.Y() - boxMin.Y()), abs32(boxMax.Y() - point.Y()),
		abs32(point.Z() - boxMin.Z()), abs32(boxMax.Z() - point.Z()),
	}

	best := 0
	for i := 1; i < 6; i++ {
		if dists[i] < dists[best] {
			best = i
		}
	}
	return normals[best]
}

// AABBOverlap reports whether two boxes intersect (touching counts).
func AABBOverlap(aMin, aMax, bMin, bMax mgl32.Vec3) bool {
	return aMin.X() <= bMax.X() && aMax.X() >= bMin.X() &&
		aMin.Y() <= bMax.Y() && aMax.Y() >= bMin.Y() &&
		aMin.Z() <= bMax.Z() && aMax.Z() >= bMin.Z()
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
