package grid

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexCenterRoundTrip(t *testing.T) {
	hex := NewHexPrism(1.0, 0.8, 0)
	for q := int32(-4); q <= 4; q++ {
		for r := int32(-4); r <= 4; r++ {
			for level := int32(-1); level <= 3; level++ {
				c := Coord{q, r, level}
				got := hex.CoordAt(hex.Center(c))
				if got != c {
					t.Fatalf("CoordAt(Center(%v)) = %v", c, got)
				}
			}
		}
	}
}

func TestHexNeighborsAreAdjacent(t *testing.T) {
	hex := NewHexPrism(2.0, 1.0, 0)
	c := Coord{1, -2, 3}
	center := hex.Center(c)
	ns := hex.Neighbors(c)
	require.Len(t, ns, 8)

	for i := 0; i < hex.Sides(); i++ {
		n := hex.SideNeighbor(c, i)
		assert.Equal(t, ns[i], n)
		d := hex.Center(n).Sub(center)
		assert.InDelta(t, 2*hex.Apothem(), d.Len(), 1e-4)
		// Neighbour i lies along the outward normal of side i.
		assert.InDelta(t, 1.0, d.Normalize().Dot(sideNormal(i)), 1e-4)
	}
	assert.Equal(t, c.Up(), ns[6])
	assert.Equal(t, c.Down(), ns[7])
}

func TestHexFootprintSideOrder(t *testing.T) {
	hex := NewHexPrism(1.0, 1.0, 0)
	c := Coord{0, 0, 0}
	fp := hex.Footprint(c)
	require.Len(t, fp, 6)
	for i := 0; i < 6; i++ {
		a, b := fp[i], fp[(i+1)%6]
		mid := mgl32.Vec3{(a.X() + b.X()) / 2, 0, (a.Y() + b.Y()) / 2}
		assert.InDelta(t, hex.Apothem(), mid.Dot(sideNormal(i)), 1e-4)
	}
}

func TestHexIntersectRay(t *testing.T) {
	hex := NewHexPrism(1.0, 1.0, 0)
	c := Coord{0, 0, 0}

	tt, n, ok := hex.IntersectRay(c, mgl32.Vec3{-5, 0.5, 0}, mgl32.Vec3{1, 0, 0})
	require.True(t, ok)
	assert.InDelta(t, 5-hex.Apothem(), tt, 1e-4)
	assert.InDelta(t, -1.0, n.X(), 1e-4)
	assert.InDelta(t, 0.0, n.Z(), 1e-4)

	tt, n, ok = hex.IntersectRay(c, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0})
	require.True(t, ok)
	assert.InDelta(t, 4.0, tt, 1e-5)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, n)

	// Passes beside the pointy corner.
	_, _, ok = hex.IntersectRay(c, mgl32.Vec3{-5, 0.5, 1.2}, mgl32.Vec3{1, 0, 0})
	assert.False(t, ok)

	// Origin inside.
	tt, _, ok = hex.IntersectRay(c, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 0, 1})
	require.True(t, ok)
	assert.Equal(t, float32(0), tt)
}

func TestCubeLattice(t *testing.T) {
	cube := NewCube(2.0, 0)
	c := Coord{1, -1, 2}

	assert.Equal(t, mgl32.Vec3{3, 5, -1}, cube.Center(c))
	assert.Equal(t, c, cube.CoordAt(cube.Center(c)))
	assert.Len(t, cube.Neighbors(c), 6)

	tt, n, ok := cube.IntersectRay(c, mgl32.Vec3{3, 5, -10}, mgl32.Vec3{0, 0, 1})
	require.True(t, ok)
	assert.InDelta(t, 8.0, tt, 1e-5)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, n)

	bmin, bmax := cube.Bounds(c)
	assert.Equal(t, mgl32.Vec3{2, 4, -2}, bmin)
	assert.Equal(t, mgl32.Vec3{4, 6, 0}, bmax)
}
