package destruction

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/building"
	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

func newGrid() *grid.Grid {
	return grid.New(grid.NewHexPrism(1, 1, 0), grid.Bounds{
		Min: grid.Coord{Q: -16, R: -16, Level: -2},
		Max: grid.Coord{Q: 16, R: 16, Level: 16},
	})
}

func stack(g *grid.Grid, q, r int32, height int) {
	for l := 0; l < height; l++ {
		g.MustInsert(grid.Coord{Q: q, R: r, Level: int32(l)}, grid.Cell{Material: 1, Color: [4]float32{0.5, 0.4, 0.3, 1}})
	}
}

func newSystem() *System {
	return NewSystem(DefaultConfig(), rand.New(rand.NewSource(7)))
}

func TestDestroyBaseDropsWholeStack(t *testing.T) {
	g := newGrid()
	stack(g, 0, 0, 3)
	s := newSystem()

	removed := s.DestroyCell(g, grid.Coord{})
	require.Len(t, removed, 3)
	assert.Equal(t, grid.Coord{}, removed[0])
	assert.Len(t, s.Prisms(), 3)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 3, s.DestroyedCount())

	for l := int32(0); l < 3; l++ {
		assert.False(t, g.Occupied(grid.Coord{Level: l}))
	}
}

func TestDestroyTopLeavesRest(t *testing.T) {
	g := newGrid()
	stack(g, 0, 0, 3)
	s := newSystem()

	removed := s.DestroyCell(g, grid.Coord{Level: 2})
	assert.Equal(t, []grid.Coord{{Level: 2}}, removed)
	assert.Equal(t, 2, g.Len())
	assert.Len(t, s.Prisms(), 1)
}

func TestDestroyVacantIsNoop(t *testing.T) {
	g := newGrid()
	s := newSystem()

	assert.Nil(t, s.DestroyCell(g, grid.Coord{Q: 3}))
	assert.Empty(t, s.Prisms())
	assert.Zero(t, s.DestroyedCount())
}

func TestPrismCarriesCellShape(t *testing.T) {
	g := newGrid()
	stack(g, 2, 0, 1)
	s := newSystem()

	s.DestroyCell(g, grid.Coord{Q: 2})
	require.Len(t, s.Prisms(), 1)
	p := s.Prisms()[0]
	center := g.Lattice.Center(grid.Coord{Q: 2})
	assert.InDelta(t, center.X(), p.Center.X(), 1e-5)
	assert.InDelta(t, center.Y(), p.Center.Y(), 1e-5)
	assert.InDelta(t, center.Z(), p.Center.Z(), 1e-5)
	assert.InDelta(t, 1.0, p.Size.Y(), 1e-5)
	assert.Equal(t, [4]float32{0.5, 0.4, 0.3, 1}, p.Color)
	assert.Less(t, p.Velocity.Y(), float32(0))
}

func TestPrismKeepsPartialShapes(t *testing.T) {
	tests := []struct {
		name   string
		shape  building.Shape
		sizeY  float32
		sizeXZ float32 // relative to a full cell
	}{
		{"prism", building.ShapePrism, 1, 1},
		{"slab", building.ShapeSlab, 0.5, 1},
		{"pillar", building.ShapePillar, 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid()
			stack(g, 0, 0, 1)
			top := grid.Coord{Level: 1}
			g.MustInsert(top, grid.Cell{Shape: uint8(tt.shape), Color: [4]float32{1, 1, 1, 1}})

			s := newSystem()
			s.Bounds = func(c grid.Coord, cell grid.Cell) (mgl32.Vec3, mgl32.Vec3) {
				return building.ShapeBounds(g.Lattice, c, building.Shape(cell.Shape))
			}
			s.DestroyCell(g, grid.Coord{})
			require.Len(t, s.Prisms(), 2)

			var p FallingPrism
			for _, fp := range s.Prisms() {
				if fp.Coord == top {
					p = fp
				}
			}
			lo, hi := g.Lattice.Bounds(top)
			full := hi.Sub(lo)
			bottom, _ := g.Lattice.LevelSpan(top)

			assert.Equal(t, uint8(tt.shape), p.Shape)
			assert.InDelta(t, tt.sizeY, p.Size.Y(), 1e-5)
			assert.InDelta(t, full.X()*tt.sizeXZ, p.Size.X(), 1e-4)
			assert.InDelta(t, full.Z()*tt.sizeXZ, p.Size.Z(), 1e-4)
			assert.InDelta(t, bottom, p.Center.Y()-p.Size.Y()/2, 1e-5)
		})
	}
}

func TestPrismLandsAndBursts(t *testing.T) {
	g := newGrid()
	stack(g, 0, 0, 1)
	s := newSystem()
	s.Terrain = physics.Flat(-1)
	s.DestroyCell(g, grid.Coord{})

	for i := 0; i < 200 && len(s.Prisms()) > 0; i++ {
		s.Update(1.0 / 60)
	}
	assert.Empty(t, s.Prisms())
	assert.NotEmpty(t, s.Debris())
	for _, d := range s.Debris() {
		assert.GreaterOrEqual(t, d.Position.Y(), float32(-1))
	}
}

func TestPrismExpires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	cfg.ImpulseSpeed = 0
	cfg.FallLifetime = 0.5
	s := NewSystem(cfg, rand.New(rand.NewSource(1)))
	g := newGrid()
	g.MustInsert(grid.Coord{Level: 4}, grid.Cell{})
	s.Collapse(g, []grid.Coord{{Level: 4}})
	require.Len(t, s.Prisms(), 1)

	s.Update(0.25)
	assert.Len(t, s.Prisms(), 1)
	s.Update(0.3)
	assert.Empty(t, s.Prisms())
}

func TestRotationStaysUnit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = mgl32.Vec3{}
	s := NewSystem(cfg, rand.New(rand.NewSource(3)))
	g := newGrid()
	g.MustInsert(grid.Coord{Level: 8}, grid.Cell{})
	s.Collapse(g, []grid.Coord{{Level: 8}})

	for i := 0; i < 30; i++ {
		s.Update(1.0 / 60)
	}
	require.Len(t, s.Prisms(), 1)
	assert.InDelta(t, 1.0, s.Prisms()[0].Rotation.Len(), 1e-4)
}

func TestDebrisLifetimeInvariant(t *testing.T) {
	s := newSystem()
	s.Burst(mgl32.Vec3{0, 5, 0}, [4]float32{1, 1, 1, 1}, 64, 3)
	require.Len(t, s.Debris(), 64)

	for step := 0; step < 200; step++ {
		s.Update(1.0 / 30)
		for _, d := range s.Debris() {
			assert.Greater(t, d.Lifetime, float32(0))
			assert.LessOrEqual(t, d.Lifetime, d.MaxLifetime)
			assert.LessOrEqual(t, d.Opacity(), float32(1))
		}
	}
	assert.Empty(t, s.Debris())
}

func TestBurstRespectsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDebris = 10
	s := NewSystem(cfg, nil)

	s.Burst(mgl32.Vec3{}, [4]float32{}, 8, 1)
	s.Burst(mgl32.Vec3{}, [4]float32{}, 8, 1)
	assert.Len(t, s.Debris(), 10)
}

func TestUpdateNonPositiveDt(t *testing.T) {
	s := newSystem()
	s.Burst(mgl32.Vec3{}, [4]float32{}, 4, 1)
	before := append([]DebrisParticle(nil), s.Debris()...)

	s.Update(0)
	s.Update(-1)
	assert.Equal(t, before, s.Debris())
}
