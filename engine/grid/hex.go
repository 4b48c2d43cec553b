package grid

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var sqrt3 = float32(math.Sqrt(3))

// hexDirections are the axial offsets across each side, counter-clockwise
// starting at +X. Side i faces the direction 60*i degrees in the XZ plane.
var hexDirections = [6]Coord{
	{1, 0, 0}, {0, 1, 0}, {-1, 1, 0},
	{-1, 0, 0}, {0, -1, 0}, {1, -1, 0},
}

// HexPrism is a pointy-top hexagonal prism lattice.
type HexPrism struct {
	Radius float32 // circumradius of the hexagon
	Height float32
	BaseY  float32 // bottom of level 0
}

func NewHexPrism(radius, height, baseY float32) HexPrism {
	return HexPrism{Radius: radius, Height: height, BaseY: baseY}
}

// Apothem is the centre-to-side distance.
func (h HexPrism) Apothem() float32 { return h.Radius * sqrt3 * 0.5 }

func (h HexPrism) Center(c Coord) mgl32.Vec3 {
	x := h.Radius * sqrt3 * (float32(c.Q) + float32(c.R)*0.5)
	z := h.Radius * 1.5 * float32(c.R)
	y := h.BaseY + (float32(c.Level)+0.5)*h.Height
	return mgl32.Vec3{x, y, z}
}

func (h HexPrism) CoordAt(p mgl32.Vec3) Coord {
	fq := (sqrt3/3*p.X() - p.Z()/3) / h.Radius
	fr := (2.0 / 3.0 * p.Z()) / h.Radius
	q, r := hexRound(fq, fr)
	level := int32(math.Floor(float64((p.Y() - h.BaseY) / h.Height)))
	return Coord{q, r, level}
}

func hexRound(fq, fr float32) (int32, int32) {
	fs := -fq - fr
	q := float32(math.Round(float64(fq)))
	r := float32(math.Round(float64(fr)))
	s := float32(math.Round(float64(fs)))

	dq := abs32(q - fq)
	dr := abs32(r - fr)
	ds := abs32(s - fs)
	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return int32(q), int32(r)
}

func (h HexPrism) Sides() int { return 6 }

func (h HexPrism) SideNeighbor(c Coord, i int) Coord {
	return c.Add(hexDirections[i%6])
}

func (h HexPrism) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for _, d := range hexDirections {
		out = append(out, c.Add(d))
	}
	return append(out, c.Up(), c.Down())
}

func (h HexPrism) Footprint(c Coord) []mgl32.Vec2 {
	center := h.Center(c)
	pts := make([]mgl32.Vec2, 6)
	for i := 0; i < 6; i++ {
		a := mgl32.DegToRad(float32(60*i - 30))
		pts[i] = mgl32.Vec2{
			center.X() + h.Radius*float32(math.Cos(float64(a))),
			center.Z() + h.Radius*float32(math.Sin(float64(a))),
		}
	}
	return pts
}

func (h HexPrism) LevelSpan(c Coord) (float32, float32) {
	bottom := h.BaseY + float32(c.Level)*h.Height
	return bottom, bottom + h.Height
}

func (h HexPrism) Bounds(c Coord) (mgl32.Vec3, mgl32.Vec3) {
	center := h.Center(c)
	half := mgl32.Vec3{h.Apothem(), h.Height * 0.5, h.Radius}
	return center.Sub(half), center.Add(half)
}

func (h HexPrism) planes(c Coord) []plane {
	center := h.Center(c)
	bottom, top := h.LevelSpan(c)
	ap := h.Apothem()
	out := make([]plane, 0, 8)
	for i := 0; i < 6; i++ {
		n := sideNormal(i)
		out = append(out, plane{n: n, d: n.Dot(center) + ap})
	}
	out = append(out,
		plane{n: mgl32.Vec3{0, -1, 0}, d: -bottom},
		plane{n: mgl32.Vec3{0, 1, 0}, d: top},
	)
	return out
}

func sideNormal(i int) mgl32.Vec3 {
	a := mgl32.DegToRad(float32(60 * i))
	return mgl32.Vec3{float32(math.Cos(float64(a))), 0, float32(math.Sin(float64(a)))}
}

func (h HexPrism) IntersectRay(c Coord, origin, dir mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	return clipConvex(h.planes(c), origin, dir)
}

func (h HexPrism) Extent() float32 {
	w := 2 * h.Apothem()
	if h.Height < w {
		return h.Height
	}
	return w
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
