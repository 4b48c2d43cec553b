package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/asset"
	"github.com/hungaromakker/battle-tok-sub003/engine/physics"
	"github.com/hungaromakker/battle-tok-sub003/engine/sdf"
)

const vaseRecipe = `{
  "name": "vase",
  "category": "decor",
  "tags": ["clay"],
  "outline": {"points": [[0.2, 0], [0.5, 0.3], [0.3, 1], [0.35, 1.2]]},
  "extrude": {"method": "lathe", "segments": 16},
  "variety": {"seed": 3, "color_jitter": 0.1}
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadRecipeKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vase.json", vaseRecipe)
	r, err := loadRecipe(path)
	require.NoError(t, err)

	def := sdf.DefaultExtrudeParams()
	assert.Equal(t, sdf.MethodLathe, r.Extrude.Method)
	assert.Equal(t, 16, r.Extrude.Segments)
	assert.Equal(t, def.Sweep, r.Extrude.Sweep)
	assert.Equal(t, def.Color, r.Extrude.Color)
	assert.Len(t, r.Outline.Points, 4)
	assert.Equal(t, uint32(3), r.Variety.Seed)
}

func TestLoadRecipeNamesFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crate.json", `{"outline": {"points": [[0,0],[1,0],[1,1],[0,1]]}}`)
	r, err := loadRecipe(path)
	require.NoError(t, err)
	assert.Equal(t, "crate", r.Name)
	assert.Equal(t, "props", r.Category)
}

func TestBakeRecipeRejectsDegenerateOutline(t *testing.T) {
	_, err := bakeRecipe(Recipe{Name: "line", Outline: sdf.Outline{Points: []mgl32.Vec2{{0, 0}, {1, 1}}}, Extrude: sdf.DefaultExtrudeParams()})
	assert.ErrorIs(t, err, sdf.ErrDegenerateOutline)
}

func TestBakeAndInspect(t *testing.T) {
	dir := t.TempDir()
	recipe := writeFile(t, dir, "vase.json", vaseRecipe)
	out := filepath.Join(dir, "vase.btasset")
	db := filepath.Join(dir, "assets.db")

	_, err := execute(t, "bake", recipe, "--out", out, "--catalog", db)
	require.NoError(t, err)

	a, err := asset.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "vase", a.Metadata.Name)
	assert.Equal(t, "lathe", a.Metadata.Method)
	assert.NotEmpty(t, a.Mesh.Indices)

	text, err := execute(t, "inspect", out)
	require.NoError(t, err)
	assert.Contains(t, text, "vase")
	assert.Contains(t, text, "decor")
	assert.Contains(t, text, "clay")

	text, err = execute(t, "library", "decor", "--catalog", db)
	require.NoError(t, err)
	assert.Contains(t, text, "vase")
}

func TestInspectRejectsGarbage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "junk.btasset", "definitely not an asset file at all")
	_, err := execute(t, "inspect", path)
	assert.ErrorIs(t, err, asset.ErrInvalidMagic)
}

func TestSimulateRuns(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "sim.yaml", `
grid:
  lattice: cube
meteor:
  enabled: false
world:
  structures:
    - { name: block, shape: box, center: [6, 1, 0.5], size: [1, 1, 0.5] }
`)
	text, err := execute(t, "simulate", "--config", cfg, "--frames", "120", "--fire", "0.5", "--report", "0")
	require.NoError(t, err)
	assert.Contains(t, text, "frames=120")
}

func TestAimHitsTarget(t *testing.T) {
	from := mgl32.Vec3{0, 2, 0}
	target := mgl32.Vec3{20, 1, 5}
	const speed = 40
	dir := aim(from, target, speed, -9.81)
	assert.InDelta(t, 1, dir.Len(), 1e-4)

	p := physics.Projectile{Position: from, Velocity: dir.Mul(speed), Mass: 1, Radius: 0.1, Active: true}
	cfg := physics.BallisticsConfig{Gravity: mgl32.Vec3{0, -9.81, 0}}
	horizontal := mgl32.Vec2{target.X(), target.Z()}.Len()
	for i := 0; i < 10000; i++ {
		physics.Integrate(&p, cfg, 1.0/1000)
		if (mgl32.Vec2{p.Position.X(), p.Position.Z()}).Len() >= horizontal {
			break
		}
	}
	assert.InDelta(t, target.Y(), p.Position.Y(), 0.1)
}
