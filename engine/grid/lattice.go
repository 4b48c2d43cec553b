package grid

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Lattice maps integer cell coordinates to world-space geometry.
type Lattice interface {
	// Center returns the world-space centroid of a cell.
	Center(c Coord) mgl32.Vec3
	// CoordAt returns the cell containing p.
	CoordAt(p mgl32.Vec3) Coord
	// Neighbors lists the lateral neighbours in side order, then above, then below.
	Neighbors(c Coord) []Coord
	// Sides is the number of lateral faces of a cell.
	Sides() int
	// SideNeighbor is the cell across lateral face i.
	SideNeighbor(c Coord, i int) Coord
	// Footprint is the bottom outline of the cell in XZ, in side order:
	// side i spans corners i and i+1.
	Footprint(c Coord) []mgl32.Vec2
	// LevelSpan returns the bottom and top heights of the cell.
	LevelSpan(c Coord) (bottom, top float32)
	// Bounds is the world AABB of the cell.
	Bounds(c Coord) (min, max mgl32.Vec3)
	// IntersectRay tests the exact cell solid. dir must be unit length.
	IntersectRay(c Coord, origin, dir mgl32.Vec3) (t float32, normal mgl32.Vec3, ok bool)
	// Extent is the smallest cell dimension, used as the ray-march scale.
	Extent() float32
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}

type plane struct {
	n mgl32.Vec3
	d float32 // inside when n·p <= d
}

// clipConvex intersects a ray with a convex solid given as half-spaces.
func clipConvex(planes []plane, origin, dir mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	const eps = 1e-8
	tEnter := float32(-1e30)
	tExit := float32(1e30)
	var enterN mgl32.Vec3
	insideN := 0
	var bestSlack float32 = 1e30

	for i, pl := range planes {
		denom := pl.n.Dot(dir)
		slack := pl.d - pl.n.Dot(origin)
		if slack < bestSlack {
			bestSlack = slack
			insideN = i
		}
		if denom > -eps && denom < eps {
			if slack < 0 {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t := slack / denom
		if denom < 0 {
			if t > tEnter {
				tEnter = t
				enterN = pl.n
			}
		} else if t < tExit {
			tExit = t
		}
		if tEnter > tExit {
			return 0, mgl32.Vec3{}, false
		}
	}

	if tExit < 0 {
		return 0, mgl32.Vec3{}, false
	}
	if tEnter < 0 {
		return 0, planes[insideN].n, true
	}
	return tEnter, enterN, true
}
