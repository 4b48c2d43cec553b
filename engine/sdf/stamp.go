package sdf

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
)

// Stamp fills every vacant in-bounds cell whose centre lies inside p and
// returns the coordinates it filled, in grid order.
func Stamp(g *grid.Grid, p Primitive, cell grid.Cell) []grid.Coord {
	return StampField(g, p.Distance, p.Bounds, cell)
}

// StampField is Stamp for an arbitrary field with explicit bounds.
func StampField(g *grid.Grid, f Field, bounds func() (mgl32.Vec3, mgl32.Vec3), cell grid.Cell) []grid.Coord {
	lo, hi := bounds()
	a := g.Lattice.CoordAt(lo)
	b := g.Lattice.CoordAt(hi)
	minQ, maxQ := min(a.Q, b.Q)-1, max(a.Q, b.Q)+1
	minR, maxR := min(a.R, b.R)-1, max(a.R, b.R)+1
	minL, maxL := min(a.Level, b.Level)-1, max(a.Level, b.Level)+1
	// Axial hex coordinates skew along Q as R changes.
	skew := (maxR - minR + 1) / 2
	minQ -= skew
	maxQ += skew

	var filled []grid.Coord
	for l := minL; l <= maxL; l++ {
		for r := minR; r <= maxR; r++ {
			for q := minQ; q <= maxQ; q++ {
				c := grid.Coord{Q: q, R: r, Level: l}
				if f(g.Lattice.Center(c)) >= 0 {
					continue
				}
				if _, ok := g.Insert(c, cell); ok {
					filled = append(filled, c)
				}
			}
		}
	}
	return filled
}
