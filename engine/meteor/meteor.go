package meteor

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
)

type Config struct {
	Enabled     bool       `yaml:"enabled"`
	IntervalMin float32    `yaml:"interval_min"` // seconds
	IntervalMax float32    `yaml:"interval_max"`
	Center      mgl32.Vec3 `yaml:"center"` // spawn area centre, Y is ignored
	SpawnRadius float32    `yaml:"spawn_radius"`
	SpawnHeight float32    `yaml:"spawn_height"`
	Speed       [2]float32 `yaml:"speed"` // min, max
	Size        [2]float32 `yaml:"size"`
	Gravity     mgl32.Vec3 `yaml:"gravity"`
	TrailLength int        `yaml:"trail_length"`
	DebrisCount int        `yaml:"debris_count"`
	MaxActive   int        `yaml:"max_active"`
	Color       [4]float32 `yaml:"color"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		IntervalMin: 3,
		IntervalMax: 8,
		SpawnRadius: 40,
		SpawnHeight: 120,
		Speed:       [2]float32{20, 35},
		Size:        [2]float32{0.6, 1.6},
		Gravity:     mgl32.Vec3{0, -9.81, 0},
		TrailLength: 24,
		DebrisCount: 40,
		MaxActive:   16,
		Color:       [4]float32{1, 0.45, 0.12, 1},
	}
}

type Meteor struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Size     float32
	Trail    []mgl32.Vec3 // oldest first, at most TrailLength entries
}

// Impact is emitted when a meteor reaches the ground.
type Impact struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Size     float32
	Debris   int // particles to spawn
	Color    [4]float32
}

// Spawner drops meteors on a randomized timer.
type Spawner struct {
	cfg     Config
	rng     *rand.Rand
	timer   float32
	next    float32
	meteors []Meteor
	impacts int
}

func NewSpawner(cfg Config, rng *rand.Rand) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Spawner{cfg: cfg, rng: rng}
	s.next = s.interval()
	return s
}

func (s *Spawner) Meteors() []Meteor { return s.meteors }

// ImpactCount is the number of meteors that have hit the ground so far.
func (s *Spawner) ImpactCount() int { return s.impacts }

// NextIn is the time left until the next spawn.
func (s *Spawner) NextIn() float32 { return s.next - s.timer }

func (s *Spawner) interval() float32 {
	lo, hi := s.cfg.IntervalMin, s.cfg.IntervalMax
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*s.rng.Float32()
}

func (s *Spawner) between(r [2]float32) float32 {
	return r[0] + (r[1]-r[0])*s.rng.Float32()
}

// Spawn adds a meteor directly, bypassing the timer.
func (s *Spawner) Spawn(pos, vel mgl32.Vec3, size float32) {
	if s.cfg.MaxActive > 0 && len(s.meteors) >= s.cfg.MaxActive {
		return
	}
	s.meteors = append(s.meteors, Meteor{Position: pos, Velocity: vel, Size: size})
}

func (s *Spawner) spawnRandom() {
	// uniform over the disc
	a := s.rng.Float64() * 2 * math.Pi
	r := s.cfg.SpawnRadius * float32(math.Sqrt(s.rng.Float64()))
	pos := mgl32.Vec3{
		s.cfg.Center.X() + r*float32(math.Cos(a)),
		s.cfg.Center.Y() + s.cfg.SpawnHeight,
		s.cfg.Center.Z() + r*float32(math.Sin(a)),
	}

	// mostly down, with some sideways drift
	dir := mgl32.Vec3{
		(s.rng.Float32()*2 - 1) * 0.35,
		-1,
		(s.rng.Float32()*2 - 1) * 0.35,
	}.Normalize()
	s.Spawn(pos, dir.Mul(s.between(s.cfg.Speed)), s.between(s.cfg.Size))
}

// Update advances the spawn timer and every meteor, returning the impacts
// of meteors that fell below groundY this step.
func (s *Spawner) Update(dt, groundY float32) []Impact {
	return s.UpdateTerrain(dt, physics.Flat(groundY))
}

// UpdateTerrain is Update against a height field.
func (s *Spawner) UpdateTerrain(dt float32, ground physics.HeightFunc) []Impact {
	if dt <= 0 {
		return nil
	}
	if s.cfg.Enabled {
		s.timer += dt
		for s.timer >= s.next {
			s.timer -= s.next
			s.next = s.interval()
			s.spawnRandom()
			if s.next <= 0 {
				break
			}
		}
	}

	var impacts []Impact
	i := 0
	for i < len(s.meteors) {
		m := &s.meteors[i]
		m.Trail = appendTrail(m.Trail, m.Position, s.cfg.TrailLength)
		physics.IntegrateGravity(&m.Position, &m.Velocity, s.cfg.Gravity, dt)

		if g := ground(m.Position.X(), m.Position.Z()); m.Position.Y() < g {
			at := m.Position
			at[1] = g
			impacts = append(impacts, Impact{
				Position: at,
				Velocity: m.Velocity,
				Size:     m.Size,
				Debris:   s.cfg.DebrisCount,
				Color:    s.cfg.Color,
			})
			s.impacts++
			last := len(s.meteors) - 1
			s.meteors[i] = s.meteors[last]
			s.meteors = s.meteors[:last]
			continue
		}
		i++
	}
	return impacts
}

func appendTrail(trail []mgl32.Vec3, p mgl32.Vec3, limit int) []mgl32.Vec3 {
	if limit <= 0 {
		return trail[:0]
	}
	if len(trail) >= limit {
		copy(trail, trail[len(trail)-limit+1:])
		trail = trail[:limit-1]
	}
	return append(trail, p)
}
