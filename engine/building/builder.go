package building

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

// Placement is a resolved spot for a new block.
type Placement struct {
	Coord     grid.Coord
	Position  mgl32.Vec3 // centre of the target cell
	Normal    mgl32.Vec3 // normal of the surface that was hit
	OnTerrain bool
}

// Builder validates and commits placements and owns the periodic
// structural check and mesh merge. It is the only consumer of the grid's
// change log.
type Builder struct {
	cfg    Config
	grid   *grid.Grid
	merger *Merger

	material int
	shape    Shape

	recent       grid.CoordSet
	physicsTimer float32
	placed       int
}

func NewBuilder(g *grid.Grid, cfg Config) *Builder {
	if len(cfg.Materials) == 0 {
		cfg.Materials = DefaultConfig().Materials
	}
	g.DrainChanges()
	return &Builder{
		cfg:    cfg,
		grid:   g,
		merger: NewMerger(g, cfg.ChunkSize, cfg.MergeInterval),
		recent: make(grid.CoordSet),
	}
}

func (b *Builder) Grid() *grid.Grid      { return b.grid }
func (b *Builder) Materials() []Material { return b.cfg.Materials }
func (b *Builder) Material() int         { return b.material }
func (b *Builder) Shape() Shape          { return b.shape }
func (b *Builder) PlacedCount() int      { return b.placed }
func (b *Builder) Regions() []*Region    { return b.merger.Regions() }
func (b *Builder) Merger() *Merger       { return b.merger }
func (b *Builder) PendingChecks() int    { return len(b.recent) }

func (b *Builder) SelectMaterial(i int) bool {
	if i < 0 || i >= len(b.cfg.Materials) {
		return false
	}
	b.material = i
	return true
}

func (b *Builder) SelectShape(s Shape) bool {
	if s >= shapeCount {
		return false
	}
	b.shape = s
	return true
}

// CalculatePlacement casts a ray against occupied cells and the terrain and
// returns the free cell that would receive a new block.
func (b *Builder) CalculatePlacement(origin, dir mgl32.Vec3, terrain physics.HeightFunc) (Placement, bool) {
	maxDist := b.cfg.MaxPlaceDistance
	hit, onCell := b.grid.Raycast(origin, dir, maxDist)
	tTerrain, onTerrain := physics.RaycastHeight(terrain, origin, dir, maxDist, b.cfg.TerrainStep)

	var p Placement
	switch {
	case onCell && (!onTerrain || hit.Distance <= tTerrain):
		p.Coord = b.adjacent(hit.Coord, hit.Normal)
		p.Normal = hit.Normal
	case onTerrain:
		at := origin.Add(dir.Mul(tTerrain))
		at[1] += 1e-3
		p.Coord = b.grid.Lattice.CoordAt(at)
		p.Normal = mgl32.Vec3{0, 1, 0}
		p.OnTerrain = true
	default:
		return Placement{}, false
	}

	if !b.grid.InBounds(p.Coord) || b.grid.Occupied(p.Coord) {
		return Placement{}, false
	}
	p.Position = b.grid.Lattice.Center(p.Coord)
	return p, true
}

// adjacent picks the neighbour of c across the face with normal n.
func (b *Builder) adjacent(c grid.Coord, n mgl32.Vec3) grid.Coord {
	switch {
	case n.Y() > 0.5:
		return c.Up()
	case n.Y() < -0.5:
		return c.Down()
	}
	l := b.grid.Lattice
	center := l.Center(c)
	best, bestDot := c.Up(), float32(-2)
	for i := 0; i < l.Sides(); i++ {
		nb := l.SideNeighbor(c, i)
		d := l.Center(nb).Sub(center)
		d[1] = 0
		if dot := d.Normalize().Dot(n); dot > bestDot {
			best, bestDot = nb, dot
		}
	}
	return best
}

// PlaceBlock inserts the selected material and shape at the cell containing
// pos. Occupied or out-of-bounds targets are refused.
func (b *Builder) PlaceBlock(pos mgl32.Vec3) (uint64, bool) {
	c := b.grid.Lattice.CoordAt(pos)
	mat := b.cfg.Materials[b.material]
	v := b.cfg.Variety.At(c.Q, c.Level, c.R)
	id, ok := b.grid.Insert(c, grid.Cell{
		Material: uint8(b.material),
		Shape:    uint8(b.shape),
		Color:    v.Tint(mat.Color),
	})
	if ok {
		b.placed++
	}
	return id, ok
}

// Sync drains the grid change log into the structural check queue and the
// merger.
func (b *Builder) Sync() {
	changes := b.grid.DrainChanges()
	if len(changes) == 0 {
		return
	}
	for _, c := range changes {
		b.recent.Add(c)
	}
	b.merger.Observe(changes)
}

// UpdateStructuralPhysics runs the support check over recently modified
// cells every PhysicsInterval seconds and returns the cells that should
// collapse. It does not mutate the grid.
func (b *Builder) UpdateStructuralPhysics(dt float32) []grid.Coord {
	b.Sync()
	b.physicsTimer += dt
	if b.physicsTimer < b.cfg.PhysicsInterval {
		return nil
	}
	b.physicsTimer = 0
	if len(b.recent) == 0 {
		return nil
	}

	var seeds []grid.Coord
	for _, c := range b.recent.Sorted() {
		if b.grid.Occupied(c) {
			seeds = append(seeds, c)
		}
		for _, n := range b.grid.Lattice.Neighbors(c) {
			if b.grid.Occupied(n) {
				seeds = append(seeds, n)
			}
		}
	}
	b.recent = make(grid.CoordSet)

	failed := grid.FindUnsupported(b.grid, seeds)
	if failed.Len() == 0 {
		return nil
	}
	return failed.Sorted()
}

// UpdateMerge rebuilds dirty render regions on the merge interval.
func (b *Builder) UpdateMerge(dt float32) bool {
	b.Sync()
	return b.merger.Update(dt)
}
