package building

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

func cubeGrid() *grid.Grid {
	return grid.New(grid.NewCube(1, 0), grid.Bounds{
		Min: grid.Coord{Q: -16, R: -16, Level: 0},
		Max: grid.Coord{Q: 16, R: 16, Level: 16},
	})
}

func newBuilder(g *grid.Grid) *Builder {
	cfg := DefaultConfig()
	cfg.Variety.ColorJitter = 0
	return NewBuilder(g, cfg)
}

func TestPlaceBlock(t *testing.T) {
	g := cubeGrid()
	b := newBuilder(g)
	require.True(t, b.SelectMaterial(2))
	require.True(t, b.SelectShape(ShapeSlab))

	id, ok := b.PlaceBlock(mgl32.Vec3{0.5, 0.5, 0.5})
	require.True(t, ok)
	assert.NotZero(t, id)

	cell, ok := g.Get(grid.Coord{})
	require.True(t, ok)
	assert.Equal(t, uint8(2), cell.Material)
	assert.Equal(t, uint8(ShapeSlab), cell.Shape)
	assert.Equal(t, DefaultConfig().Materials[2].Color, cell.Color)

	_, ok = b.PlaceBlock(mgl32.Vec3{0.5, 0.5, 0.5})
	assert.False(t, ok, "occupied")
	_, ok = b.PlaceBlock(mgl32.Vec3{100, 0.5, 0})
	assert.False(t, ok, "out of bounds")
	assert.Equal(t, 1, b.PlacedCount())
}

func TestSelectRejectsInvalid(t *testing.T) {
	b := newBuilder(cubeGrid())
	assert.False(t, b.SelectMaterial(-1))
	assert.False(t, b.SelectMaterial(len(b.Materials())))
	assert.False(t, b.SelectShape(shapeCount))
	assert.Equal(t, 0, b.Material())
	assert.Equal(t, ShapePrism, b.Shape())
}

func TestCalculatePlacement(t *testing.T) {
	g := cubeGrid()
	b := newBuilder(g)
	ground := physics.Flat(0)
	down := mgl32.Vec3{0, -1, 0}

	p, ok := b.CalculatePlacement(mgl32.Vec3{0.5, 10, 0.5}, down, ground)
	require.True(t, ok)
	assert.True(t, p.OnTerrain)
	assert.Equal(t, grid.Coord{}, p.Coord)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, p.Position)

	_, ok = b.PlaceBlock(p.Position)
	require.True(t, ok)

	p, ok = b.CalculatePlacement(mgl32.Vec3{0.5, 10, 0.5}, down, ground)
	require.True(t, ok)
	assert.False(t, p.OnTerrain)
	assert.Equal(t, grid.Coord{Level: 1}, p.Coord)

	p, ok = b.CalculatePlacement(mgl32.Vec3{-5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, ground)
	require.True(t, ok)
	assert.Equal(t, grid.Coord{Q: -1}, p.Coord)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, p.Normal)

	_, ok = b.CalculatePlacement(mgl32.Vec3{0.5, 10, 0.5}, mgl32.Vec3{0, 1, 0}, ground)
	assert.False(t, ok, "nothing above")

	_, ok = b.CalculatePlacement(mgl32.Vec3{0.5, 10, 0.5}, down, nil)
	assert.True(t, ok, "cells alone are enough")
}

func TestCalculatePlacementOutOfRange(t *testing.T) {
	g := cubeGrid()
	cfg := DefaultConfig()
	cfg.MaxPlaceDistance = 5
	b := NewBuilder(g, cfg)

	_, ok := b.CalculatePlacement(mgl32.Vec3{0.5, 10, 0.5}, mgl32.Vec3{0, -1, 0}, physics.Flat(0))
	assert.False(t, ok)
}

func TestStructuralCheckRunsOnInterval(t *testing.T) {
	g := cubeGrid()
	b := newBuilder(g)
	for l := int32(0); l < 3; l++ {
		_, ok := b.PlaceBlock(g.Lattice.Center(grid.Coord{Level: l}))
		require.True(t, ok)
	}
	assert.Nil(t, b.UpdateStructuralPhysics(0.5), "stack is supported")

	_, ok := g.Remove(grid.Coord{})
	require.True(t, ok)

	assert.Nil(t, b.UpdateStructuralPhysics(0.1))
	assert.Equal(t, 1, b.PendingChecks())

	failed := b.UpdateStructuralPhysics(0.4)
	assert.Equal(t, []grid.Coord{{Level: 1}, {Level: 2}}, failed)
	assert.Equal(t, 2, g.Len(), "check is read-only")
	assert.Zero(t, b.PendingChecks())

	assert.Nil(t, b.UpdateStructuralPhysics(0.5), "nothing new to check")
}

func TestMergeCullsSharedFaces(t *testing.T) {
	g := cubeGrid()
	g.MustInsert(grid.Coord{}, grid.Cell{Material: 1})
	g.MustInsert(grid.Coord{Q: 1}, grid.Cell{Material: 1})
	b := newBuilder(g)
	b.Merger().Flush()

	regions := b.Regions()
	require.Len(t, regions, 1)
	assert.Len(t, regions[0].Cells, 2)
	assert.Equal(t, 20, regions[0].Mesh.TriangleCount())
	assert.NoError(t, regions[0].Mesh.Validate())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, regions[0].Min)
	assert.Equal(t, mgl32.Vec3{2, 1, 1}, regions[0].Max)
}

func TestMergeSplitsMaterials(t *testing.T) {
	g := cubeGrid()
	g.MustInsert(grid.Coord{}, grid.Cell{Material: 1})
	g.MustInsert(grid.Coord{Q: 1}, grid.Cell{Material: 2})
	b := newBuilder(g)
	b.Merger().Flush()

	regions := b.Regions()
	require.Len(t, regions, 2)
	for _, r := range regions {
		assert.Equal(t, 12, r.Mesh.TriangleCount())
	}
}

func TestMergeAcrossChunkBorder(t *testing.T) {
	g := cubeGrid()
	g.MustInsert(grid.Coord{Q: 7}, grid.Cell{Material: 1})
	g.MustInsert(grid.Coord{Q: 8}, grid.Cell{Material: 1})
	b := newBuilder(g)
	b.Merger().Flush()

	regions := b.Regions()
	require.Len(t, regions, 2)
	assert.NotEqual(t, regions[0].Chunk, regions[1].Chunk)
	assert.Equal(t, 20, regions[0].Mesh.TriangleCount()+regions[1].Mesh.TriangleCount())
}

func TestMergeDoesNotTouchGrid(t *testing.T) {
	g := cubeGrid()
	b := newBuilder(g)
	for q := int32(0); q < 4; q++ {
		_, ok := b.PlaceBlock(g.Lattice.Center(grid.Coord{Q: q}))
		require.True(t, ok)
	}
	before := g.Clone()

	assert.False(t, b.UpdateMerge(0.1))
	assert.True(t, b.UpdateMerge(0.2))
	assert.Equal(t, before.Coords(), g.Coords())
	require.Len(t, b.Regions(), 1)
	assert.Len(t, b.Regions()[0].Cells, 4)

	g.Remove(grid.Coord{Q: 1})
	assert.True(t, b.UpdateMerge(1))
	assert.Len(t, b.Regions(), 2)
	assert.Zero(t, b.Merger().Pending())

	for q := int32(0); q < 4; q++ {
		g.Remove(grid.Coord{Q: q})
	}
	b.UpdateMerge(1)
	assert.Empty(t, b.Regions())
}

func TestPartialShapesAreNotCulled(t *testing.T) {
	g := cubeGrid()
	g.MustInsert(grid.Coord{}, grid.Cell{Material: 1})
	g.MustInsert(grid.Coord{Q: 1}, grid.Cell{Material: 1, Shape: uint8(ShapeSlab)})

	full, _ := g.Get(grid.Coord{})
	fullMesh := CellMesh(g, grid.Coord{}, full)
	assert.Equal(t, 12, fullMesh.TriangleCount())

	slab, _ := g.Get(grid.Coord{Q: 1})
	m := CellMesh(g, grid.Coord{Q: 1}, slab)
	_, hi, ok := m.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 0.5, hi.Y(), 1e-6)
}

func TestShapeGeometryPillar(t *testing.T) {
	l := grid.NewCube(2, 0)
	fp, bottom, top := ShapeGeometry(l, grid.Coord{}, ShapePillar)
	assert.Equal(t, float32(0), bottom)
	assert.Equal(t, float32(2), top)
	for _, p := range fp {
		assert.InDelta(t, 0.5, abs(p.X()-1), 1e-6)
		assert.InDelta(t, 0.5, abs(p.Y()-1), 1e-6)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestChunkKeys(t *testing.T) {
	ci := NewChunkIndex(8)
	assert.Equal(t, ChunkKey{0, 0, 0}, ci.KeyOf(grid.Coord{Q: 7, R: 0, Level: 7}))
	assert.Equal(t, ChunkKey{-1, 0, 0}, ci.KeyOf(grid.Coord{Q: -1}))
	assert.Equal(t, ChunkKey{-1, -2, 1}, ci.KeyOf(grid.Coord{Q: -8, R: -9, Level: 8}))

	ci.Insert(grid.Coord{Q: 1})
	ci.Insert(grid.Coord{Q: 2})
	assert.Equal(t, 1, ci.Len())
	ci.Remove(grid.Coord{Q: 1})
	ci.Remove(grid.Coord{Q: 2})
	assert.Equal(t, 0, ci.Len())

	ci.Touch(grid.Coord{Q: 7}, []grid.Coord{{Q: 8}, {Q: 6}})
	assert.Equal(t, []ChunkKey{{0, 0, 0}, {1, 0, 0}}, ci.TakeDirty())
	assert.Empty(t, ci.TakeDirty())
}

func TestParseShape(t *testing.T) {
	s, ok := ParseShape("Pillar")
	require.True(t, ok)
	assert.Equal(t, ShapePillar, s)
	assert.Equal(t, "pillar", s.String())

	_, ok = ParseShape("sphere")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Shape(9).String())
}
