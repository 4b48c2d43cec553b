package sdf

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

const (
	MinLatheSegments = 6
	MaxLatheSegments = 64
)

// sharpCornerCos is cos(45°): profile turns tighter than this fall back to
// accumulated face normals.
const sharpCornerCos = 0.7071

// Lathe revolves profile (X = radius, Y = height) about the Y axis.
// segments is clamped to [MinLatheSegments, MaxLatheSegments] and sweep to
// [0, 360] degrees; segments+1 rings are emitted, so a full sweep closes on
// itself while a partial sweep leaves an open seam.
func Lathe(profile []mgl32.Vec2, segments int, sweep float32, color [4]float32) mesh.Mesh {
	var m mesh.Mesh
	if len(profile) < 2 {
		return m
	}
	segments = min(max(segments, MinLatheSegments), MaxLatheSegments)
	sweep = clamp(sweep, 0, 360)
	if sweep == 0 {
		return m
	}

	pts := make([]mgl32.Vec2, len(profile))
	for i, p := range profile {
		pts[i] = mgl32.Vec2{abs32(p.X()), p.Y()}
	}
	// Walk the profile upwards so side normals face away from the axis.
	if pts[0].Y() > pts[len(pts)-1].Y() {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	normals2D, sharp := profileNormals(pts)
	rings := segments + 1
	sweepRad := float64(mgl32.DegToRad(sweep))

	for s := 0; s < rings; s++ {
		a := sweepRad * float64(s) / float64(segments)
		ca, sa := float32(math.Cos(a)), float32(math.Sin(a))
		for i, p := range pts {
			n := normals2D[i]
			m.AddVertex(mesh.Vertex{
				Position: [3]float32{p.X() * ca, p.Y(), p.X() * sa},
				Normal:   [3]float32{n.X() * ca, n.Y(), n.X() * sa},
				Color:    color,
			})
		}
	}

	cols := uint32(len(pts))
	for s := uint32(0); s < uint32(segments); s++ {
		for i := uint32(0); i+1 < cols; i++ {
			a := s*cols + i
			b := s*cols + i + 1
			c := (s+1)*cols + i + 1
			d := (s+1)*cols + i
			m.AddTriangle(a, b, c)
			m.AddTriangle(a, c, d)
		}
	}

	if sharp {
		m.RecomputeNormals()
	}
	return m
}

// profileNormals derives outward normals from the local profile tangent.
// sharp reports a corner tighter than sharpCornerCos.
func profileNormals(pts []mgl32.Vec2) ([]mgl32.Vec2, bool) {
	out := make([]mgl32.Vec2, len(pts))
	sharp := false
	for i := range pts {
		prev := pts[max(i-1, 0)]
		next := pts[min(i+1, len(pts)-1)]
		tangent := next.Sub(prev)
		if l := tangent.Len(); l > 0 {
			tangent = tangent.Mul(1 / l)
		}
		out[i] = mgl32.Vec2{tangent.Y(), -tangent.X()}

		if i > 0 && i+1 < len(pts) {
			in := pts[i].Sub(pts[i-1])
			outSeg := pts[i+1].Sub(pts[i])
			if li, lo := in.Len(), outSeg.Len(); li > 0 && lo > 0 {
				if in.Dot(outSeg)/(li*lo) < sharpCornerCos {
					sharp = true
				}
			}
		}
	}
	return out, sharp
}
