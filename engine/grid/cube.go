package grid

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

var cubeDirections = [4]Coord{
	{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}, {0, -1, 0},
}

// Cube is an axis-aligned cubic lattice. Q runs along X, R along Z.
type Cube struct {
	Size  float32
	BaseY float32
}

func NewCube(size, baseY float32) Cube {
	return Cube{Size: size, BaseY: baseY}
}

func (l Cube) Center(c Coord) mgl32.Vec3 {
	return mgl32.Vec3{
		(float32(c.Q) + 0.5) * l.Size,
		l.BaseY + (float32(c.Level)+0.5)*l.Size,
		(float32(c.R) + 0.5) * l.Size,
	}
}

func (l Cube) CoordAt(p mgl32.Vec3) Coord {
	return Coord{
		Q:     int32(math.Floor(float64(p.X() / l.Size))),
		R:     int32(math.Floor(float64(p.Z() / l.Size))),
		Level: int32(math.Floor(float64((p.Y() - l.BaseY) / l.Size))),
	}
}

func (l Cube) Sides() int { return 4 }

func (l Cube) SideNeighbor(c Coord, i int) Coord {
	return c.Add(cubeDirections[i%4])
}

func (l Cube) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 6)
	for _, d := range cubeDirections {
		out = append(out, c.Add(d))
	}
	return append(out, c.Up(), c.Down())
}

// Footprint corners are ordered so that side i (+X, +Z, -X, -Z) spans
// corners i and i+1.
func (l Cube) Footprint(c Coord) []mgl32.Vec2 {
	x0, z0 := float32(c.Q)*l.Size, float32(c.R)*l.Size
	x1, z1 := x0+l.Size, z0+l.Size
	return []mgl32.Vec2{{x1, z0}, {x1, z1}, {x0, z1}, {x0, z0}}
}

func (l Cube) LevelSpan(c Coord) (float32, float32) {
	bottom := l.BaseY + float32(c.Level)*l.Size
	return bottom, bottom + l.Size
}

func (l Cube) Bounds(c Coord) (mgl32.Vec3, mgl32.Vec3) {
	half := mgl32.Vec3{l.Size, l.Size, l.Size}.Mul(0.5)
	center := l.Center(c)
	return center.Sub(half), center.Add(half)
}

func (l Cube) IntersectRay(c Coord, origin, dir mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	bmin, bmax := l.Bounds(c)
	t, ok := physics.RayAABB(origin, dir, bmin, bmax)
	if !ok {
		return 0, mgl32.Vec3{}, false
	}
	hit := origin.Add(dir.Mul(t))
	return t, physics.AABBSurfaceNormal(hit, bmin, bmax), true
}

func (l Cube) Extent() float32 { return l.Size }
