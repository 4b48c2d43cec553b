package grid

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaycastCube(t *testing.T) {
	g := New(NewCube(1, 0), Bounds{Min: Coord{-10, -10, -10}, Max: Coord{10, 10, 10}})
	g.MustInsert(Coord{0, 0, 0}, Cell{})
	g.MustInsert(Coord{3, 0, 0}, Cell{})

	hit, ok := g.Raycast(mgl32.Vec3{-5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 50)
	require.True(t, ok)
	assert.Equal(t, Coord{0, 0, 0}, hit.Coord)
	assert.InDelta(t, 5.0, hit.Distance, 1e-4)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, hit.Normal)

	hit, ok = g.Raycast(mgl32.Vec3{10, 0.5, 0.5}, mgl32.Vec3{-1, 0, 0}, 50)
	require.True(t, ok)
	assert.Equal(t, Coord{3, 0, 0}, hit.Coord)
	assert.InDelta(t, 6.0, hit.Distance, 1e-4)

	_, ok = g.Raycast(mgl32.Vec3{10, 0.5, 0.5}, mgl32.Vec3{-1, 0, 0}, 3)
	assert.False(t, ok)
}

func TestRaycastHexFromAbove(t *testing.T) {
	g := testGrid()
	column(g, 2, 1, 3)
	top := Coord{2, 1, 2}
	center := g.Lattice.Center(top)

	hit, ok := g.Raycast(center.Add(mgl32.Vec3{0, 10, 0}), mgl32.Vec3{0, -1, 0}, 20)
	require.True(t, ok)
	assert.Equal(t, top, hit.Coord)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, hit.Normal)
	assert.InDelta(t, 3.0, hit.Position.Y(), 1e-4)
}

func TestRaycastDiagonalFindsNearest(t *testing.T) {
	g := testGrid()
	for q := int32(0); q < 6; q++ {
		g.MustInsert(Coord{q, 0, 0}, Cell{})
	}
	target := g.Lattice.Center(Coord{3, 0, 0})
	origin := target.Add(mgl32.Vec3{-6, 6, 0})
	dir := target.Sub(origin).Normalize()

	hit, ok := g.Raycast(origin, dir, 30)
	require.True(t, ok)
	// The first cell struck along the diagonal is at or before the target.
	assert.LessOrEqual(t, hit.Coord.Q, int32(3))
	assert.Less(t, hit.Distance, target.Sub(origin).Len())
}

func TestRaycastEmptyGrid(t *testing.T) {
	g := testGrid()
	_, ok := g.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 100)
	assert.False(t, ok)
}
