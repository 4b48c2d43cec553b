package battletok

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/grid"
	"github.com/hungaromakker/battle-tok-sub003/engine/sdf"
)

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 42
grid:
  lattice: cube
meteor:
  interval_min: 2
`))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "cube", cfg.Grid.Lattice)
	assert.Equal(t, float32(2), cfg.Meteor.IntervalMin)
	assert.Equal(t, def.Meteor.IntervalMax, cfg.Meteor.IntervalMax)
	assert.Equal(t, def.Physics, cfg.Physics)
	assert.Equal(t, def.Building.Materials, cfg.Building.Materials)
}

func TestEmbeddedConfigParses(t *testing.T) {
	cfg, err := Parse(defaultYAML)
	require.NoError(t, err)
	assert.Equal(t, "hex", cfg.Grid.Lattice)
	assert.Equal(t, mgl32.Vec3{0, -9.81, 0}, cfg.Physics.Gravity)
	assert.Equal(t, grid.Coord{Q: 64, R: 64, Level: 64}, cfg.Grid.Bounds.Max)
	assert.NotEmpty(t, cfg.World.Structures)
	assert.Len(t, cfg.Building.Materials, 4)

	s, err := NewScene(cfg, NewNopLogger())
	require.NoError(t, err)
	assert.NotZero(t, s.Grid().Len())
	assert.NotEmpty(t, s.Entities())
}

func TestValidateRepairs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Building.PhysicsInterval = 0
	cfg.Building.ChunkSize = -3
	cfg.Building.Materials = nil
	cfg.Meteor.IntervalMin, cfg.Meteor.IntervalMax = 9, 4
	cfg.Meteor.Speed = [2]float32{30, 10}
	cfg.Destruction.DebrisLifetime = [2]float32{2, 1}
	cfg.Grid.Bounds = grid.Bounds{Min: grid.Coord{Q: 5, R: 5, Level: 5}, Max: grid.Coord{Q: -5, R: -5, Level: 0}}
	cfg.Projectile.MaxActive = 0
	cfg.Projectile.HitDebris = -2
	cfg.World.MeteorImpactRadius = -1

	require.NoError(t, cfg.Validate())

	def := DefaultConfig()
	assert.Equal(t, def.Building.PhysicsInterval, cfg.Building.PhysicsInterval)
	assert.Equal(t, def.Building.ChunkSize, cfg.Building.ChunkSize)
	assert.Equal(t, def.Building.Materials, cfg.Building.Materials)
	assert.Equal(t, float32(4), cfg.Meteor.IntervalMin)
	assert.Equal(t, float32(9), cfg.Meteor.IntervalMax)
	assert.Equal(t, [2]float32{10, 30}, cfg.Meteor.Speed)
	assert.Equal(t, [2]float32{1, 2}, cfg.Destruction.DebrisLifetime)
	assert.Equal(t, grid.Coord{Q: -5, R: -5, Level: 0}, cfg.Grid.Bounds.Min)
	assert.Equal(t, grid.Coord{Q: 5, R: 5, Level: 5}, cfg.Grid.Bounds.Max)
	assert.Equal(t, def.Projectile.MaxActive, cfg.Projectile.MaxActive)
	assert.Zero(t, cfg.Projectile.HitDebris)
	assert.Zero(t, cfg.World.MeteorImpactRadius)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"lattice", func(c *Config) { c.Grid.Lattice = "octagon" }},
		{"shape", func(c *Config) {
			c.World.Structures = []StructureConfig{{Name: "x", Shape: "cone"}}
		}},
		{"render", func(c *Config) {
			c.World.Structures = []StructureConfig{{Name: "x", Shape: "box", Render: "voxels"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestStructurePrimitive(t *testing.T) {
	tests := []struct {
		shape string
		want  sdf.Primitive
	}{
		{"box", sdf.Box{Center: mgl32.Vec3{1, 2, 3}, Half: mgl32.Vec3{1, 2, 0.5}}},
		{"Sphere", sdf.Sphere{Center: mgl32.Vec3{1, 2, 3}, Radius: 1}},
		{"cylinder", sdf.Cylinder{Center: mgl32.Vec3{1, 2, 3}, Radius: 1, HalfHeight: 2}},
		{"capsule", sdf.Capsule{A: mgl32.Vec3{1, 0, 3}, B: mgl32.Vec3{1, 4, 3}, Radius: 1}},
		{"torus", sdf.Torus{Center: mgl32.Vec3{1, 2, 3}, Major: 1, Minor: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			s := StructureConfig{Shape: tt.shape, Center: mgl32.Vec3{1, 2, 3}, Size: mgl32.Vec3{1, 2, 0.5}}
			got, err := s.Primitive()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaterialIndex(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.MaterialIndex("Wood"))
	assert.Equal(t, 0, cfg.MaterialIndex("unobtainium"))
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 9\nprojectile:\n  speed: 12\n"), 0o644))

	cfg, source, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, float32(12), cfg.Projectile.Speed)
}

func TestLoadExplicitPathErrors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("grid: [unclosed"), 0o644))
	_, _, err = Load(bad)
	assert.Error(t, err)
}

func TestLoadFallsBack(t *testing.T) {
	_, source, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, source)
}
