package physics

import "github.com/go-gl/mathgl/mgl32"

// RaycastHeight marches a ray against a height field in fixed steps and
// refines the first crossing by bisection. It returns the distance along
// dir. An origin already below the surface hits at 0.
func RaycastHeight(h HeightFunc, origin, dir mgl32.Vec3, maxDist, step float32) (float32, bool) {
	if h == nil || maxDist <= 0 || step <= 0 {
		return 0, false
	}
	above := func(t float32) bool {
		p := origin.Add(dir.Mul(t))
		return p.Y() > h(p.X(), p.Z())
	}
	if !above(0) {
		return 0, true
	}

	prev := float32(0)
	for t := step; ; t += step {
		if t > maxDist {
			t = maxDist
		}
		if !above(t) {
			lo, hi := prev, t
			for i := 0; i < 16; i++ {
				mid := (lo + hi) * 0.5
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return hi, true
		}
		if t >= maxDist {
			return 0, false
		}
		prev = t
	}
}
