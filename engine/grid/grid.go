package grid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

// Cell is one occupied lattice slot.
type Cell struct {
	ID         uint64
	Material   uint8
	Shape      uint8
	Color      [4]float32
	Foundation bool // permanently anchored
}

// DefaultAnchorTolerance is how far above the terrain a cell bottom may sit
// and still count as resting on it.
const DefaultAnchorTolerance = 0.05

// Grid maps coordinates to cells. Keys are unique; a coordinate is either
// vacant or holds exactly one cell.
type Grid struct {
	Lattice Lattice
	Limits  Bounds
	Terrain physics.HeightFunc // optional

	AnchorTolerance float32

	cells   map[Coord]Cell
	nextID  uint64
	changes []Coord
}

func New(lattice Lattice, limits Bounds) *Grid {
	return &Grid{
		Lattice:         lattice,
		Limits:          limits,
		AnchorTolerance: DefaultAnchorTolerance,
		cells:           make(map[Coord]Cell),
		nextID:          1,
	}
}

func (g *Grid) InBounds(c Coord) bool {
	return g.Limits.Contains(c)
}

// Insert places cell at c and returns its assigned id. It refuses occupied or
// out-of-bounds coordinates.
func (g *Grid) Insert(c Coord, cell Cell) (uint64, bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	if _, exists := g.cells[c]; exists {
		return 0, false
	}
	cell.ID = g.nextID
	g.nextID++
	g.cells[c] = cell
	g.changes = append(g.changes, c)
	return cell.ID, true
}

// MustInsert is Insert for bootstrap code where a conflict is a bug.
func (g *Grid) MustInsert(c Coord, cell Cell) uint64 {
	id, ok := g.Insert(c, cell)
	if !ok {
		panic(fmt.Sprintf("grid: cannot insert at %v", c))
	}
	return id
}

func (g *Grid) Remove(c Coord) (Cell, bool) {
	cell, ok := g.cells[c]
	if !ok {
		return Cell{}, false
	}
	delete(g.cells, c)
	g.changes = append(g.changes, c)
	return cell, true
}

func (g *Grid) Get(c Coord) (Cell, bool) {
	cell, ok := g.cells[c]
	return cell, ok
}

func (g *Grid) Occupied(c Coord) bool {
	_, ok := g.cells[c]
	return ok
}

func (g *Grid) Len() int { return len(g.cells) }

// Coords returns all occupied coordinates in deterministic order.
func (g *Grid) Coords() []Coord {
	out := make([]Coord, 0, len(g.cells))
	for c := range g.cells {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

// Each visits cells in Coords order until fn returns false.
func (g *Grid) Each(fn func(Coord, Cell) bool) {
	for _, c := range g.Coords() {
		if !fn(c, g.cells[c]) {
			return
		}
	}
}

// DrainChanges returns the coordinates inserted or removed since the last
// call, in mutation order.
func (g *Grid) DrainChanges() []Coord {
	out := g.changes
	g.changes = nil
	return out
}

// IsAnchor reports whether c is an occupied cell that is supported
// unconditionally: a foundation, on or below level 0, or resting on terrain.
func (g *Grid) IsAnchor(c Coord) bool {
	cell, ok := g.cells[c]
	if !ok {
		return false
	}
	if cell.Foundation || c.Level <= 0 {
		return true
	}
	if g.Terrain == nil {
		return false
	}
	center := g.Lattice.Center(c)
	bottom, _ := g.Lattice.LevelSpan(c)
	return bottom <= g.Terrain(center.X(), center.Z())+g.AnchorTolerance
}

// CellAt resolves a world position to the occupied cell containing it.
func (g *Grid) CellAt(p mgl32.Vec3) (Coord, Cell, bool) {
	c := g.Lattice.CoordAt(p)
	cell, ok := g.cells[c]
	return c, cell, ok
}

// Clone copies occupancy; the change log is not carried over.
func (g *Grid) Clone() *Grid {
	out := New(g.Lattice, g.Limits)
	out.Terrain = g.Terrain
	out.AnchorTolerance = g.AnchorTolerance
	out.nextID = g.nextID
	for c, cell := range g.cells {
		out.cells[c] = cell
	}
	return out
}
