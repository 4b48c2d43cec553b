package building

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

// Region is a connected run of same-material cells inside one chunk,
// batched into a single mesh. Regions are derived data; the grid stays the
// source of truth for occupancy and collision.
type Region struct {
	Chunk    ChunkKey
	Material uint8
	Cells    []grid.Coord
	Mesh     mesh.Mesh
	Min, Max mgl32.Vec3
}

// Merger keeps per-chunk regions in step with the grid.
type Merger struct {
	grid     *grid.Grid
	index    *ChunkIndex
	regions  map[ChunkKey][]Region
	interval float32
	timer    float32
	rebuilds int
}

func NewMerger(g *grid.Grid, chunkSize int32, interval float32) *Merger {
	m := &Merger{
		grid:     g,
		index:    NewChunkIndex(chunkSize),
		regions:  make(map[ChunkKey][]Region),
		interval: interval,
	}
	g.Each(func(c grid.Coord, _ grid.Cell) bool {
		m.index.Insert(c)
		m.index.Touch(c, nil)
		return true
	})
	return m
}

// Observe records grid changes so the affected chunks get rebuilt.
func (m *Merger) Observe(changes []grid.Coord) {
	for _, c := range changes {
		if m.grid.Occupied(c) {
			m.index.Insert(c)
		} else {
			m.index.Remove(c)
		}
		m.index.Touch(c, m.grid.Lattice.Neighbors(c))
	}
}

// Update rebuilds dirty chunks once the merge interval has elapsed and
// reports whether anything was rebuilt.
func (m *Merger) Update(dt float32) bool {
	m.timer += dt
	if m.timer < m.interval {
		return false
	}
	m.timer = 0
	return m.Flush()
}

// Flush rebuilds every dirty chunk now.
func (m *Merger) Flush() bool {
	dirty := m.index.TakeDirty()
	for _, k := range dirty {
		cells := m.index.Cells(k)
		if len(cells) == 0 {
			delete(m.regions, k)
			continue
		}
		m.regions[k] = buildRegions(m.grid, k, cells)
		m.rebuilds++
	}
	return len(dirty) > 0
}

// Pending is the number of chunks waiting for a rebuild.
func (m *Merger) Pending() int { return m.index.DirtyCount() }

// Rebuilds counts chunk rebuilds since creation.
func (m *Merger) Rebuilds() int { return m.rebuilds }

// Regions returns every region in chunk order. The pointers stay valid
// until their chunk is rebuilt and must be treated as read-only.
func (m *Merger) Regions() []*Region {
	keys := make([]ChunkKey, 0, len(m.regions))
	for k := range m.regions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	var out []*Region
	for _, k := range keys {
		rs := m.regions[k]
		for i := range rs {
			out = append(out, &rs[i])
		}
	}
	return out
}

func buildRegions(g *grid.Grid, key ChunkKey, cells []grid.Coord) []Region {
	inChunk := grid.NewCoordSet(cells...)
	seen := make(grid.CoordSet, len(cells))
	var out []Region

	for _, start := range cells {
		if seen.Has(start) {
			continue
		}
		first, _ := g.Get(start)
		r := Region{Chunk: key, Material: first.Material}

		queue := []grid.Coord{start}
		seen.Add(start)
		for len(queue) > 0 {
			c := queue[0]
			queue = queue[1:]
			r.Cells = append(r.Cells, c)
			for _, n := range g.Lattice.Neighbors(c) {
				if seen.Has(n) || !inChunk.Has(n) {
					continue
				}
				if cell, ok := g.Get(n); ok && cell.Material == r.Material {
					seen.Add(n)
					queue = append(queue, n)
				}
			}
		}

		r.Cells = grid.NewCoordSet(r.Cells...).Sorted()
		for _, c := range r.Cells {
			cell, _ := g.Get(c)
			r.Mesh.Append(CellMesh(g, c, cell))
		}
		r.Min, r.Max, _ = r.Mesh.Bounds()
		out = append(out, r)
	}
	return out
}

// CellMesh builds the geometry of one cell, leaving out faces hidden by a
// full neighbour of the same material.
func CellMesh(g *grid.Grid, c grid.Coord, cell grid.Cell) mesh.Mesh {
	footprint, bottom, top := ShapeGeometry(g.Lattice, c, Shape(cell.Shape))
	sides := g.Lattice.Sides()

	hidden := func(n grid.Coord) bool {
		if !Shape(cell.Shape).Full() {
			return false
		}
		other, ok := g.Get(n)
		return ok && other.Material == cell.Material && Shape(other.Shape).Full()
	}
	skip := func(face int) bool {
		switch {
		case face < sides:
			return hidden(g.Lattice.SideNeighbor(c, face))
		case face == mesh.FaceTop(sides):
			return hidden(c.Up())
		default:
			return hidden(c.Down())
		}
	}
	return mesh.Prism(footprint, bottom, top, cell.Color, skip)
}

// ShapeGeometry returns the footprint and vertical span of shape s placed
// at c.
func ShapeGeometry(l grid.Lattice, c grid.Coord, s Shape) ([]mgl32.Vec2, float32, float32) {
	footprint := l.Footprint(c)
	bottom, top := l.LevelSpan(c)
	switch s {
	case ShapeSlab:
		top = bottom + (top-bottom)*0.5
	case ShapePillar:
		center := l.Center(c)
		mid := mgl32.Vec2{center.X(), center.Z()}
		narrowed := make([]mgl32.Vec2, len(footprint))
		for i, p := range footprint {
			narrowed[i] = mid.Add(p.Sub(mid).Mul(0.5))
		}
		footprint = narrowed
	}
	return footprint, bottom, top
}

// ShapeBounds is the axis-aligned box around shape s placed at c.
func ShapeBounds(l grid.Lattice, c grid.Coord, s Shape) (mgl32.Vec3, mgl32.Vec3) {
	footprint, bottom, top := ShapeGeometry(l, c, s)
	lo := mgl32.Vec3{footprint[0].X(), bottom, footprint[0].Y()}
	hi := mgl32.Vec3{footprint[0].X(), top, footprint[0].Y()}
	for _, p := range footprint[1:] {
		lo[0], hi[0] = min(lo[0], p.X()), max(hi[0], p.X())
		lo[2], hi[2] = min(lo[2], p.Y()), max(hi[2], p.Y())
	}
	return lo, hi
}
