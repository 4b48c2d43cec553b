package battletok

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/hungaromakker/battle-tok-sub003/engine/building"
	"github.com/hungaromakker/battle-tok-sub003/engine/destruction"
	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/meteor"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
	"github.com/hungaromakker/battle-tok-sub003/engine/sdf"
	"github.com/hungaromakker/battle-tok-sub003/engine/variety"
)

//go:embed configs/battletok.yaml
var defaultYAML []byte

const configFile = "battletok.yaml"

// Config is the full set of tunables. Sections map one-to-one onto engine
// package configs.
type Config struct {
	Seed        int64                    `yaml:"seed"`
	Physics     physics.BallisticsConfig `yaml:"physics"`
	Projectile  ProjectileConfig         `yaml:"projectile"`
	Grid        GridConfig               `yaml:"grid"`
	Building    building.Config          `yaml:"building"`
	Destruction destruction.Config       `yaml:"destruction"`
	Meteor      meteor.Config            `yaml:"meteor"`
	Terrain     variety.Terrain          `yaml:"terrain"`
	World       WorldConfig              `yaml:"world"`
}

type ProjectileConfig struct {
	Speed         float32    `yaml:"speed"` // m/s
	Mass          float32    `yaml:"mass"`  // kg
	Drag          float32    `yaml:"drag"`
	Radius        float32    `yaml:"radius"`
	Lifetime      float32    `yaml:"lifetime"` // seconds, 0 = unlimited
	MaxActive     int        `yaml:"max_active"`
	TerrainDebris int        `yaml:"terrain_debris"` // particles per ground hit
	HitDebris     int        `yaml:"hit_debris"`     // particles per cell hit
	Color         [4]float32 `yaml:"color"`
}

type GridConfig struct {
	Lattice         string      `yaml:"lattice"` // "hex" or "cube"
	CellRadius      float32     `yaml:"cell_radius"`
	CellHeight      float32     `yaml:"cell_height"`
	CellSize        float32     `yaml:"cell_size"`
	BaseY           float32     `yaml:"base_y"`
	Bounds          grid.Bounds `yaml:"bounds"`
	AnchorTolerance float32     `yaml:"anchor_tolerance"`
}

type WorldConfig struct {
	MeteorImpactRadius float32           `yaml:"meteor_impact_radius"` // 0 disables cell damage
	Structures         []StructureConfig `yaml:"structures"`
}

// StructureConfig describes a primitive baked into the world at startup.
// Size is read per shape:
//
//	box       half extents
//	sphere    x = radius
//	cylinder  x = radius, y = half height
//	capsule   x = radius, y = half length of the vertical segment
//	torus     x = major, y = minor
type StructureConfig struct {
	Name       string     `yaml:"name"`
	Shape      string     `yaml:"shape"`
	Center     mgl32.Vec3 `yaml:"center"`
	Size       mgl32.Vec3 `yaml:"size"`
	Material   string     `yaml:"material"`
	Foundation bool       `yaml:"foundation"`
	Render     string     `yaml:"render"` // "grid" stamps cells, "sdf" is raymarched only
}

func (s StructureConfig) Primitive() (sdf.Primitive, error) {
	switch strings.ToLower(s.Shape) {
	case "box":
		return sdf.Box{Center: s.Center, Half: s.Size}, nil
	case "sphere":
		return sdf.Sphere{Center: s.Center, Radius: s.Size.X()}, nil
	case "cylinder":
		return sdf.Cylinder{Center: s.Center, Radius: s.Size.X(), HalfHeight: s.Size.Y()}, nil
	case "capsule":
		half := mgl32.Vec3{0, s.Size.Y(), 0}
		return sdf.Capsule{A: s.Center.Sub(half), B: s.Center.Add(half), Radius: s.Size.X()}, nil
	case "torus":
		return sdf.Torus{Center: s.Center, Major: s.Size.X(), Minor: s.Size.Y()}, nil
	}
	return nil, fmt.Errorf("structure %q: unknown shape %q", s.Name, s.Shape)
}

func DefaultConfig() Config {
	return Config{
		Seed:    1,
		Physics: physics.DefaultBallisticsConfig(),
		Projectile: ProjectileConfig{
			Speed:         60,
			Mass:          4,
			Drag:          0.47,
			Radius:        0.12,
			Lifetime:      10,
			MaxActive:     64,
			TerrainDebris: 8,
			HitDebris:     16,
			Color:         [4]float32{0.2, 0.2, 0.22, 1},
		},
		Grid: GridConfig{
			Lattice:    "hex",
			CellRadius: 0.5,
			CellHeight: 0.5,
			CellSize:   1,
			Bounds: grid.Bounds{
				Min: grid.Coord{Q: -64, R: -64, Level: 0},
				Max: grid.Coord{Q: 64, R: 64, Level: 64},
			},
			AnchorTolerance: grid.DefaultAnchorTolerance,
		},
		Building:    building.DefaultConfig(),
		Destruction: destruction.DefaultConfig(),
		Meteor:      meteor.DefaultConfig(),
		Terrain:     variety.Terrain{Seed: 7, Amplitude: 0, Frequency: 0.05, Octaves: 3},
	}
}

// NewLattice builds the cell lattice the grid section describes.
func (g GridConfig) NewLattice() (grid.Lattice, error) {
	switch strings.ToLower(g.Lattice) {
	case "", "hex":
		return grid.NewHexPrism(g.CellRadius, g.CellHeight, g.BaseY), nil
	case "cube":
		return grid.NewCube(g.CellSize, g.BaseY), nil
	}
	return nil, fmt.Errorf("grid: unknown lattice %q", g.Lattice)
}

// Validate repairs values that would stall or break the simulation and
// rejects values it cannot repair.
func (c *Config) Validate() error {
	def := DefaultConfig()

	if _, err := c.Grid.NewLattice(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Grid.CellRadius <= 0 {
		c.Grid.CellRadius = def.Grid.CellRadius
	}
	if c.Grid.CellHeight <= 0 {
		c.Grid.CellHeight = def.Grid.CellHeight
	}
	if c.Grid.CellSize <= 0 {
		c.Grid.CellSize = def.Grid.CellSize
	}
	if c.Grid.AnchorTolerance < 0 {
		c.Grid.AnchorTolerance = 0
	}
	b := &c.Grid.Bounds
	b.Min.Q, b.Max.Q = min(b.Min.Q, b.Max.Q), max(b.Min.Q, b.Max.Q)
	b.Min.R, b.Max.R = min(b.Min.R, b.Max.R), max(b.Min.R, b.Max.R)
	b.Min.Level, b.Max.Level = min(b.Min.Level, b.Max.Level), max(b.Min.Level, b.Max.Level)

	if c.Physics.AirDensity < 0 {
		c.Physics.AirDensity = 0
	}
	if c.Projectile.Speed <= 0 {
		c.Projectile.Speed = def.Projectile.Speed
	}
	if c.Projectile.Mass <= 0 {
		c.Projectile.Mass = def.Projectile.Mass
	}
	if c.Projectile.Radius <= 0 {
		c.Projectile.Radius = def.Projectile.Radius
	}
	if c.Projectile.MaxActive <= 0 {
		c.Projectile.MaxActive = def.Projectile.MaxActive
	}
	c.Projectile.TerrainDebris = max(c.Projectile.TerrainDebris, 0)
	c.Projectile.HitDebris = max(c.Projectile.HitDebris, 0)

	if c.Building.PhysicsInterval <= 0 {
		c.Building.PhysicsInterval = def.Building.PhysicsInterval
	}
	if c.Building.MergeInterval <= 0 {
		c.Building.MergeInterval = def.Building.MergeInterval
	}
	if c.Building.ChunkSize <= 0 {
		c.Building.ChunkSize = def.Building.ChunkSize
	}
	if c.Building.TerrainStep <= 0 {
		c.Building.TerrainStep = def.Building.TerrainStep
	}
	if c.Building.MaxPlaceDistance <= 0 {
		c.Building.MaxPlaceDistance = def.Building.MaxPlaceDistance
	}
	if len(c.Building.Materials) == 0 {
		c.Building.Materials = def.Building.Materials
	}

	lt := &c.Destruction.DebrisLifetime
	if lt[0] > lt[1] {
		lt[0], lt[1] = lt[1], lt[0]
	}
	if lt[1] <= 0 {
		*lt = def.Destruction.DebrisLifetime
	}
	if c.Destruction.MaxDebris < 0 {
		c.Destruction.MaxDebris = 0
	}

	m := &c.Meteor
	if m.IntervalMin > m.IntervalMax {
		m.IntervalMin, m.IntervalMax = m.IntervalMax, m.IntervalMin
	}
	if m.IntervalMax <= 0 {
		m.IntervalMin, m.IntervalMax = def.Meteor.IntervalMin, def.Meteor.IntervalMax
	}
	if m.Speed[0] > m.Speed[1] {
		m.Speed[0], m.Speed[1] = m.Speed[1], m.Speed[0]
	}
	if m.Size[0] > m.Size[1] {
		m.Size[0], m.Size[1] = m.Size[1], m.Size[0]
	}
	if m.TrailLength < 0 {
		m.TrailLength = 0
	}
	if c.World.MeteorImpactRadius < 0 {
		c.World.MeteorImpactRadius = 0
	}

	for _, s := range c.World.Structures {
		if _, err := s.Primitive(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		switch s.Render {
		case "", "grid", "sdf":
		default:
			return fmt.Errorf("config: structure %q: unknown render mode %q", s.Name, s.Render)
		}
	}
	return nil
}

// MaterialIndex resolves a material name, falling back to the first entry.
func (c *Config) MaterialIndex(name string) int {
	for i, m := range c.Building.Materials {
		if strings.EqualFold(m.Name, name) {
			return i
		}
	}
	return 0
}

// Load reads the configuration and reports where it came from.
// Search order: path -> ~/.battletok/battletok.yaml -> ./configs/battletok.yaml -> embedded default.
// Values missing from the file keep their DefaultConfig value.
func Load(path string) (Config, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: read %s: %w", path, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: parse %s: %w", path, err)
		}
		return cfg, path, nil
	}

	if p := userConfigPath(); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, p, nil
			}
		}
	}

	local := filepath.Join("configs", configFile)
	if data, err := os.ReadFile(local); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, local, nil
		}
	}

	if cfg, err := Parse(defaultYAML); err == nil {
		return cfg, "embedded", nil
	}
	return DefaultConfig(), "defaults", nil
}

// Parse overlays YAML onto DefaultConfig and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".battletok", configFile)
}
