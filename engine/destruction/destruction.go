package destruction

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

type Config struct {
	Gravity      mgl32.Vec3 `yaml:"gravity"`
	FallLifetime float32    `yaml:"fall_lifetime"` // seconds before a falling piece breaks up anyway
	ImpulseSpeed float32    `yaml:"impulse_speed"`
	SpinSpeed    float32    `yaml:"spin_speed"` // rad/s
	GroundY      float32    `yaml:"ground_y"`   // used when no terrain is set

	DebrisPerPrism int        `yaml:"debris_per_prism"`
	DebrisSpeed    float32    `yaml:"debris_speed"`
	DebrisSize     float32    `yaml:"debris_size"`
	DebrisLifetime [2]float32 `yaml:"debris_lifetime"` // seconds (min,max)
	DebrisDrag     float32    `yaml:"debris_drag"`     // per-second linear drag
	MaxDebris      int        `yaml:"max_debris"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:        mgl32.Vec3{0, -9.81, 0},
		FallLifetime:   8,
		ImpulseSpeed:   2.5,
		SpinSpeed:      2,
		DebrisPerPrism: 12,
		DebrisSpeed:    4,
		DebrisSize:     0.12,
		DebrisLifetime: [2]float32{0.8, 1.6},
		DebrisDrag:     0.8,
		MaxDebris:      4096,
	}
}

// FallingPrism is a cell that lost its place in the grid and is now under
// free fall.
type FallingPrism struct {
	Coord           grid.Coord // where it came from
	Center          mgl32.Vec3
	Velocity        mgl32.Vec3
	Rotation        mgl32.Quat
	AngularVelocity mgl32.Vec3
	Size            mgl32.Vec3 // extent of the cell's shape
	Shape           uint8
	Color           [4]float32
	Age             float32
}

// DebrisParticle lives until Lifetime reaches zero. 0 <= Lifetime <= MaxLifetime.
type DebrisParticle struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Color       [4]float32
	Size        float32
	Lifetime    float32
	MaxLifetime float32
}

// Opacity fades linearly with remaining life.
func (d DebrisParticle) Opacity() float32 {
	if d.MaxLifetime <= 0 {
		return 0
	}
	return d.Lifetime / d.MaxLifetime
}

// System owns every falling prism and debris particle.
type System struct {
	cfg     Config
	rng     *rand.Rand
	Terrain physics.HeightFunc // optional; GroundY otherwise
	// Bounds gives the box of what actually occupies a cell. Defaults to
	// the full lattice cell.
	Bounds func(c grid.Coord, cell grid.Cell) (mgl32.Vec3, mgl32.Vec3)

	prisms    []FallingPrism
	debris    []DebrisParticle
	destroyed int
}

func NewSystem(cfg Config, rng *rand.Rand) *System {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &System{cfg: cfg, rng: rng}
}

func (s *System) Prisms() []FallingPrism   { return s.prisms }
func (s *System) Debris() []DebrisParticle { return s.debris }

// DestroyedCount is the number of cells removed from the grid so far.
func (s *System) DestroyedCount() int { return s.destroyed }

func (s *System) groundAt(x, z float32) float32 {
	if s.Terrain != nil {
		return s.Terrain(x, z)
	}
	return s.cfg.GroundY
}

// DestroyCell removes c, turns it into a falling prism and drops everything
// that lost support because of it, all in one step. It returns the removed
// coordinates, c first. A vacant c is a no-op.
func (s *System) DestroyCell(g *grid.Grid, c grid.Coord) []grid.Coord {
	cell, ok := g.Remove(c)
	if !ok {
		return nil
	}
	origin := g.Lattice.Center(c)
	removed := []grid.Coord{c}
	s.spawnPrism(g, c, cell, s.randomImpulse())

	for _, cc := range grid.FindUnsupportedCascade(g, c).Sorted() {
		cascaded, ok := g.Remove(cc)
		if !ok {
			continue
		}
		s.spawnPrism(g, cc, cascaded, s.outwardImpulse(origin, g.Lattice.Center(cc)))
		removed = append(removed, cc)
	}
	s.destroyed += len(removed)
	return removed
}

// Collapse drops the given cells without further support checks. Used for
// failures found by the periodic structural check.
func (s *System) Collapse(g *grid.Grid, coords []grid.Coord) []grid.Coord {
	var removed []grid.Coord
	for _, c := range coords {
		cell, ok := g.Remove(c)
		if !ok {
			continue
		}
		s.spawnPrism(g, c, cell, mgl32.Vec3{0, -0.5, 0})
		removed = append(removed, c)
	}
	s.destroyed += len(removed)
	return removed
}

func (s *System) spawnPrism(g *grid.Grid, c grid.Coord, cell grid.Cell, impulse mgl32.Vec3) {
	var lo, hi mgl32.Vec3
	if s.Bounds != nil {
		lo, hi = s.Bounds(c, cell)
	} else {
		lo, hi = g.Lattice.Bounds(c)
	}
	spin := mgl32.Vec3{s.signed(), s.signed(), s.signed()}.Mul(s.cfg.SpinSpeed)
	s.prisms = append(s.prisms, FallingPrism{
		Coord:           c,
		Center:          lo.Add(hi).Mul(0.5),
		Velocity:        impulse,
		Rotation:        mgl32.QuatIdent(),
		AngularVelocity: spin,
		Size:            hi.Sub(lo),
		Shape:           cell.Shape,
		Color:           cell.Color,
	})
}

func (s *System) signed() float32 { return s.rng.Float32()*2 - 1 }

func (s *System) randomImpulse() mgl32.Vec3 {
	a := s.rng.Float64() * 2 * math.Pi
	v := s.cfg.ImpulseSpeed
	return mgl32.Vec3{float32(math.Cos(a)) * v, -0.25 * v, float32(math.Sin(a)) * v}
}

func (s *System) outwardImpulse(from, to mgl32.Vec3) mgl32.Vec3 {
	d := to.Sub(from)
	d[1] = 0
	if l := d.Len(); l > 1e-6 {
		d = d.Mul(1 / l)
	}
	v := s.cfg.ImpulseSpeed * 0.5
	return mgl32.Vec3{d.X() * v, -0.25 * v, d.Z() * v}
}

// Burst spawns up to count debris particles at pos, limited by MaxDebris.
func (s *System) Burst(pos mgl32.Vec3, color [4]float32, count int, speed float32) {
	if room := s.cfg.MaxDebris - len(s.debris); count > room {
		count = room
	}
	for i := 0; i < count; i++ {
		dir := mgl32.Vec3{s.signed(), s.rng.Float32(), s.signed()}
		if l := dir.Len(); l > 1e-6 {
			dir = dir.Mul(1 / l)
		} else {
			dir = mgl32.Vec3{0, 1, 0}
		}
		life := lerp(s.cfg.DebrisLifetime[0], s.cfg.DebrisLifetime[1], s.rng.Float32())
		if life <= 0 {
			continue
		}
		shade := 0.8 + 0.2*s.rng.Float32()
		c := color
		for k := 0; k < 3; k++ {
			c[k] *= shade
		}
		s.debris = append(s.debris, DebrisParticle{
			Position:    pos,
			Velocity:    dir.Mul(speed * (0.5 + 0.5*s.rng.Float32())),
			Color:       c,
			Size:        s.cfg.DebrisSize,
			Lifetime:    life,
			MaxLifetime: life,
		})
	}
}

// Update advances falling prisms and debris by dt.
func (s *System) Update(dt float32) {
	if dt <= 0 {
		return
	}
	s.updatePrisms(dt)
	s.updateDebris(dt)
}

func (s *System) updatePrisms(dt float32) {
	i := 0
	for i < len(s.prisms) {
		p := &s.prisms[i]
		physics.IntegrateGravity(&p.Center, &p.Velocity, s.cfg.Gravity, dt)
		p.Rotation = integrateRotation(p.Rotation, p.AngularVelocity, dt)
		p.Age += dt

		bottom := p.Center.Y() - p.Size.Y()*0.5
		ground := s.groundAt(p.Center.X(), p.Center.Z())
		landed := bottom <= ground
		expired := s.cfg.FallLifetime > 0 && p.Age >= s.cfg.FallLifetime
		if landed || expired {
			at := p.Center
			if landed {
				at[1] = ground + p.Size.Y()*0.5
			}
			s.Burst(at, p.Color, s.cfg.DebrisPerPrism, s.cfg.DebrisSpeed)
			s.removePrism(i)
			continue
		}
		i++
	}
}

func (s *System) removePrism(i int) {
	last := len(s.prisms) - 1
	s.prisms[i] = s.prisms[last]
	s.prisms = s.prisms[:last]
}

func (s *System) updateDebris(dt float32) {
	drag := float32(math.Max(0, float64(1.0-s.cfg.DebrisDrag*dt)))
	i := 0
	for i < len(s.debris) {
		d := &s.debris[i]
		d.Lifetime -= dt
		if d.Lifetime <= 0 {
			s.killAt(i)
			continue
		}
		d.Velocity = d.Velocity.Add(s.cfg.Gravity.Mul(dt)).Mul(drag)
		d.Position = d.Position.Add(d.Velocity.Mul(dt))
		if ground := s.groundAt(d.Position.X(), d.Position.Z()); d.Position.Y() < ground {
			d.Position[1] = ground
			d.Velocity = mgl32.Vec3{d.Velocity.X() * 0.5, 0, d.Velocity.Z() * 0.5}
		}
		i++
	}
}

// Swap-remove one particle
func (s *System) killAt(i int) {
	last := len(s.debris) - 1
	s.debris[i] = s.debris[last]
	s.debris = s.debris[:last]
}

func integrateRotation(q mgl32.Quat, omega mgl32.Vec3, dt float32) mgl32.Quat {
	if omega.Len() == 0 {
		return q
	}
	spin := mgl32.Quat{W: 0, V: omega}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
