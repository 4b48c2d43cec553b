package battletok

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/building"
	"github.com/hungaromakker/battle-tok-sub003/engine/bvh"
	"github.com/hungaromakker/battle-tok-sub003/engine/destruction"
	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
	"github.com/hungaromakker/battle-tok-sub003/engine/meteor"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
	"github.com/hungaromakker/battle-tok-sub003/engine/render"
	"github.com/hungaromakker/battle-tok-sub003/engine/sdf"
)

var terrainDebrisColor = [4]float32{0.38, 0.31, 0.22, 1}

// Update phases, in execution order.
const (
	PhaseProjectiles = "projectiles"
	PhaseDestruction = "destruction"
	PhaseMeteors     = "meteors"
	PhaseStructure   = "structure"
	PhaseMerge       = "merge"
)

// Stats is a snapshot of scene counters.
type Stats struct {
	Frames        int
	Time          float32
	Cells         int
	Projectiles   int
	FallingPrisms int
	Debris        int
	Meteors       int
	Impacts       int
	Hits          int
	Destroyed     int
	Collapses     int
	Placed        int
	Regions       int
}

func (s Stats) String() string {
	return fmt.Sprintf("t=%.2fs frames=%d cells=%d projectiles=%d falling=%d debris=%d meteors=%d impacts=%d hits=%d destroyed=%d collapses=%d placed=%d regions=%d",
		s.Time, s.Frames, s.Cells, s.Projectiles, s.FallingPrisms, s.Debris, s.Meteors,
		s.Impacts, s.Hits, s.Destroyed, s.Collapses, s.Placed, s.Regions)
}

// Scene owns the simulation: the cell grid and everything that reads or
// mutates it. It knows nothing about the GPU; renderers read a Frame.
type Scene struct {
	cfg  Config
	log  Logger
	prof *Profiler // optional

	grid        *grid.Grid
	terrain     physics.HeightFunc
	builder     *building.Builder
	destruction *destruction.System
	meteors     *meteor.Spawner

	projectiles   []physics.Projectile
	entities      []sdf.Entity
	prismTemplate mesh.Mesh
	templateSize  mgl32.Vec3

	bvh      *bvh.Tree
	bvhBytes []byte
	regions  []*building.Region // leaf order of bvh

	time      float32
	frames    int
	hits      int
	collapses int
}

func NewScene(cfg Config, logger Logger) (*Scene, error) {
	if logger == nil {
		logger = NewNopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lattice, err := cfg.Grid.NewLattice()
	if err != nil {
		return nil, err
	}

	s := &Scene{cfg: cfg, log: logger}
	s.terrain = cfg.Terrain.Height

	s.grid = grid.New(lattice, cfg.Grid.Bounds)
	s.grid.Terrain = s.terrain
	s.grid.AnchorTolerance = cfg.Grid.AnchorTolerance

	if err := s.buildStructures(); err != nil {
		return nil, err
	}

	s.destruction = destruction.NewSystem(cfg.Destruction, rand.New(rand.NewSource(cfg.Seed)))
	s.destruction.Terrain = s.terrain
	s.destruction.Bounds = func(c grid.Coord, cell grid.Cell) (mgl32.Vec3, mgl32.Vec3) {
		return building.ShapeBounds(lattice, c, building.Shape(cell.Shape))
	}
	s.meteors = meteor.NewSpawner(cfg.Meteor, rand.New(rand.NewSource(cfg.Seed+1)))

	s.builder = building.NewBuilder(s.grid, cfg.Building)
	s.builder.Merger().Flush()
	s.rebuildBVH()

	bottom, top := lattice.LevelSpan(grid.Coord{})
	s.prismTemplate = mesh.UnitPrism(lattice.Footprint(grid.Coord{}), top-bottom, [4]float32{1, 1, 1, 1})
	lo, hi, _ := s.prismTemplate.Bounds()
	s.templateSize = hi.Sub(lo)

	s.log.Infof("scene ready: %s lattice, %d cells, %d sdf entities, %d regions",
		cfg.Grid.Lattice, s.grid.Len(), len(s.entities), len(s.regions))
	return s, nil
}

func (s *Scene) buildStructures() error {
	for _, st := range s.cfg.World.Structures {
		prim, err := st.Primitive()
		if err != nil {
			return err
		}
		mat := s.cfg.MaterialIndex(st.Material)
		color := s.cfg.Building.Materials[mat].Color
		if st.Render == "sdf" {
			s.entities = append(s.entities, sdf.NewEntity(prim, color))
			continue
		}
		filled := sdf.Stamp(s.grid, prim, grid.Cell{
			Material:   uint8(mat),
			Shape:      uint8(building.ShapePrism),
			Color:      color,
			Foundation: st.Foundation,
		})
		s.log.Debugf("structure %s: %d cells", st.Name, len(filled))
	}
	return nil
}

func (s *Scene) Config() Config                        { return s.cfg }
func (s *Scene) Grid() *grid.Grid                      { return s.grid }
func (s *Scene) Terrain() physics.HeightFunc           { return s.terrain }
func (s *Scene) Builder() *building.Builder            { return s.builder }
func (s *Scene) Destruction() *destruction.System      { return s.destruction }
func (s *Scene) Meteors() *meteor.Spawner              { return s.meteors }
func (s *Scene) Projectiles() []physics.Projectile     { return s.projectiles }
func (s *Scene) Entities() []sdf.Entity                { return s.entities }
func (s *Scene) Time() float32                         { return s.time }
func (s *Scene) SelectMaterial(i int) bool             { return s.builder.SelectMaterial(i) }
func (s *Scene) SelectShape(shape building.Shape) bool { return s.builder.SelectShape(shape) }

// SetProfiler enables per-phase timing of Update. nil disables it.
func (s *Scene) SetProfiler(p *Profiler) { s.prof = p }

// Update advances the world by dt. Phases run in a fixed order:
// projectiles and their hits, destruction, meteors, the structural
// backstop, then mesh merging.
func (s *Scene) Update(dt float32) {
	if dt <= 0 {
		return
	}
	s.time += dt
	s.frames++

	s.prof.Begin(PhaseProjectiles)
	s.updateProjectiles(dt)
	s.prof.End(PhaseProjectiles)

	s.prof.Begin(PhaseDestruction)
	s.destruction.Update(dt)
	s.prof.End(PhaseDestruction)

	s.prof.Begin(PhaseMeteors)
	s.updateMeteors(dt)
	s.prof.End(PhaseMeteors)

	s.prof.Begin(PhaseStructure)
	s.updateStructure(dt)
	s.prof.End(PhaseStructure)

	s.prof.Begin(PhaseMerge)
	if s.builder.UpdateMerge(dt) {
		s.rebuildBVH()
	}
	s.prof.End(PhaseMerge)
}

type projectileHit struct {
	coord    grid.Coord
	position mgl32.Vec3
}

// updateProjectiles moves every projectile and tests the swept segment
// against the grid as it stood at the start of the frame. Hits are applied
// only after every projectile has been tested.
func (s *Scene) updateProjectiles(dt float32) {
	var hits []projectileHit
	for i := range s.projectiles {
		p := &s.projectiles[i]
		prev := p.Position
		physics.Integrate(p, s.cfg.Physics, dt)

		seg := p.Position.Sub(prev)
		length := seg.Len()
		if length > 0 {
			dir := seg.Mul(1 / length)
			reach := length + p.Radius

			cellHit, onCell := s.grid.Raycast(prev, dir, reach)
			tGround, onGround := physics.RaycastHeight(s.terrain, prev, dir, reach, s.cfg.Building.TerrainStep)

			switch {
			case onCell && (!onGround || cellHit.Distance <= tGround):
				hits = append(hits, projectileHit{coord: cellHit.Coord, position: cellHit.Position})
				p.Active = false
			case onGround:
				pos := prev.Add(dir.Mul(tGround))
				s.destruction.Burst(pos, terrainDebrisColor, s.cfg.Projectile.TerrainDebris, s.cfg.Destruction.DebrisSpeed)
				p.Active = false
			}
		}
		if p.Expired() {
			p.Active = false
		}
	}
	s.projectiles = compactProjectiles(s.projectiles)

	for _, h := range hits {
		cell, ok := s.grid.Get(h.coord)
		if !ok {
			// An earlier hit this frame already brought it down.
			continue
		}
		removed := s.destruction.DestroyCell(s.grid, h.coord)
		s.destruction.Burst(h.position, cell.Color, s.cfg.Projectile.HitDebris, s.cfg.Destruction.DebrisSpeed)
		s.hits++
		s.log.Debugf("hit %v: %d cells removed", h.coord, len(removed))
	}
}

func compactProjectiles(ps []physics.Projectile) []physics.Projectile {
	n := 0
	for _, p := range ps {
		if p.Active {
			ps[n] = p
			n++
		}
	}
	clear(ps[n:])
	return ps[:n]
}

func (s *Scene) updateMeteors(dt float32) {
	impacts := s.meteors.UpdateTerrain(dt, s.terrain)
	for _, imp := range impacts {
		speed := s.cfg.Destruction.DebrisSpeed * (1 + imp.Size)
		s.destruction.Burst(imp.Position, imp.Color, imp.Debris, speed)

		radius := s.cfg.World.MeteorImpactRadius
		destroyed := 0
		if radius > 0 {
			for _, c := range s.grid.Coords() {
				if !s.grid.Occupied(c) {
					continue
				}
				if s.grid.Lattice.Center(c).Sub(imp.Position).Len() > radius*(1+imp.Size) {
					continue
				}
				destroyed += len(s.destruction.DestroyCell(s.grid, c))
			}
		}
		s.log.Debugf("meteor impact at (%.1f, %.1f, %.1f): %d cells destroyed",
			imp.Position.X(), imp.Position.Y(), imp.Position.Z(), destroyed)
	}
}

// updateStructure runs the periodic support check. Cascades triggered by a
// removal are handled immediately by DestroyCell; this only catches what
// those missed.
func (s *Scene) updateStructure(dt float32) {
	failed := s.builder.UpdateStructuralPhysics(dt)
	if len(failed) == 0 {
		return
	}
	removed := s.destruction.Collapse(s.grid, failed)
	s.collapses += len(removed)
	s.log.Infof("structural check: %d unsupported cells collapsed", len(removed))
}

func (s *Scene) rebuildBVH() {
	s.regions = s.builder.Regions()
	boxes := make([][2]mgl32.Vec3, len(s.regions))
	for i, r := range s.regions {
		boxes[i] = [2]mgl32.Vec3{r.Min, r.Max}
	}
	s.bvh = bvh.Build(boxes)
	s.bvhBytes = s.bvh.Bytes()
}

// Fire launches a projectile from origin along dir. A non-positive speed
// uses the configured muzzle speed. It reports false when dir is zero or
// the projectile cap is reached.
func (s *Scene) Fire(origin, dir mgl32.Vec3, speed float32) bool {
	if len(s.projectiles) >= s.cfg.Projectile.MaxActive || dir.Len() == 0 {
		return false
	}
	if speed <= 0 {
		speed = s.cfg.Projectile.Speed
	}
	pc := s.cfg.Projectile
	s.projectiles = append(s.projectiles, physics.Projectile{
		Position: origin,
		Velocity: dir.Normalize().Mul(speed),
		Mass:     pc.Mass,
		Drag:     pc.Drag,
		Radius:   pc.Radius,
		Active:   true,
		Lifetime: pc.Lifetime,
	})
	return true
}

// TryPlace resolves a placement along the ray and commits the selected
// block there.
func (s *Scene) TryPlace(origin, dir mgl32.Vec3) (grid.Coord, bool) {
	p, ok := s.builder.CalculatePlacement(origin, dir, s.terrain)
	if !ok {
		return grid.Coord{}, false
	}
	if _, ok := s.builder.PlaceBlock(p.Position); !ok {
		return grid.Coord{}, false
	}
	s.log.Debugf("placed %s at %v", s.builder.Shape(), p.Coord)
	return p.Coord, true
}

// Destroy removes c and everything that loses support with it.
func (s *Scene) Destroy(c grid.Coord) []grid.Coord {
	removed := s.destruction.DestroyCell(s.grid, c)
	if len(removed) > 1 {
		s.log.Debugf("destroy %v: cascade of %d", c, len(removed)-1)
	}
	return removed
}

// Pick returns the nearest occupied cell along the ray. Merged region
// bounds prune the search; the full grid march is used while regions are
// out of date.
func (s *Scene) Pick(origin, dir mgl32.Vec3, maxDist float32) (grid.HitInfo, bool) {
	s.builder.Sync()
	if s.builder.Merger().Pending() > 0 || s.bvh == nil {
		return s.grid.Raycast(origin, dir, maxDist)
	}

	best := grid.HitInfo{Distance: maxDist}
	found := false
	s.bvh.Traverse(origin, dir, maxDist, func(i int, tEnter float32) bool {
		if tEnter > best.Distance {
			return true
		}
		for _, c := range s.regions[i].Cells {
			t, n, ok := s.grid.Lattice.IntersectRay(c, origin, dir)
			if !ok || t > best.Distance || (found && t == best.Distance && !c.Less(best.Coord)) {
				continue
			}
			best = grid.HitInfo{Position: origin.Add(dir.Mul(t)), Normal: n, Coord: c, Distance: t}
			found = true
		}
		return true
	})
	return best, found
}

func (s *Scene) Stats() Stats {
	return Stats{
		Frames:        s.frames,
		Time:          s.time,
		Cells:         s.grid.Len(),
		Projectiles:   len(s.projectiles),
		FallingPrisms: len(s.destruction.Prisms()),
		Debris:        len(s.destruction.Debris()),
		Meteors:       len(s.meteors.Meteors()),
		Impacts:       s.meteors.ImpactCount(),
		Hits:          s.hits,
		Destroyed:     s.destruction.DestroyedCount(),
		Collapses:     s.collapses,
		Placed:        s.builder.PlacedCount(),
		Regions:       len(s.regions),
	}
}

// Frame gathers everything a renderer needs for one frame. The returned
// views share meshes with the scene and are valid until the next Update.
func (s *Scene) Frame(cam *render.Camera) *render.Frame {
	f := render.NewFrame(cam, s.time)
	f.MeteorColor = s.cfg.Meteor.Color
	f.PrismTemplate = &s.prismTemplate

	f.Regions = make([]render.RegionView, 0, len(s.regions))
	for _, r := range s.regions {
		f.Regions = append(f.Regions, render.RegionView{Mesh: &r.Mesh, Min: r.Min, Max: r.Max, Material: r.Material})
	}

	prisms := s.destruction.Prisms()
	f.Prisms = make([]render.Instance, 0, len(prisms))
	for _, p := range prisms {
		ts := s.templateSize
		scale := mgl32.Vec3{p.Size.X() / ts.X(), p.Size.Y() / ts.Y(), p.Size.Z() / ts.Z()}
		tr := mesh.Transform{Position: p.Center, Rotation: p.Rotation, Scale: scale}
		f.Prisms = append(f.Prisms, render.Instance{Model: tr.Matrix(), Color: p.Color})
	}

	debris := s.destruction.Debris()
	f.Particles = make([]render.Particle, 0, len(debris))
	for _, d := range debris {
		c := d.Color
		c[3] *= d.Opacity()
		f.Particles = append(f.Particles, render.Particle{Position: d.Position, Size: d.Size, Color: c})
	}

	meteors := s.meteors.Meteors()
	f.Meteors = make([]render.MeteorView, 0, len(meteors))
	for _, m := range meteors {
		f.Meteors = append(f.Meteors, render.MeteorView{Position: m.Position, Size: m.Size, Trail: m.Trail})
	}

	f.Projectiles = make([]render.Particle, 0, len(s.projectiles))
	for _, p := range s.projectiles {
		f.Projectiles = append(f.Projectiles, render.Particle{Position: p.Position, Size: p.Radius * 2, Color: s.cfg.Projectile.Color})
	}

	f.Entities = sdf.EntitiesBytes(s.entities)
	f.EntityCount = len(s.entities)
	f.BVH = s.bvhBytes
	return f
}
