package render

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

type stubPass struct {
	name     string
	priority int
}

func (p stubPass) Name() string  { return p.name }
func (p stubPass) Priority() int { return p.priority }

func names(ps []stubPass) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.name
	}
	return out
}

func TestRegistryOrdersByPriority(t *testing.T) {
	var r Registry[stubPass]
	require.NoError(t, r.Register(stubPass{"particles", 20}))
	require.NoError(t, r.Register(stubPass{"sdf", 0}))
	require.NoError(t, r.Register(stubPass{"mesh", 10}))
	require.NoError(t, r.Register(stubPass{"overlay", 20}))

	assert.Equal(t, []string{"sdf", "mesh", "particles", "overlay"}, names(r.Passes()))

	assert.Error(t, r.Register(stubPass{"mesh", 5}))
	assert.Equal(t, 4, r.Len())

	assert.True(t, r.Remove("mesh"))
	assert.False(t, r.Remove("mesh"))
	assert.Equal(t, []string{"sdf", "particles", "overlay"}, names(r.Passes()))
}

func TestFrustumCulling(t *testing.T) {
	// Camera at origin looking down -Z, 90 deg FOV, near 1, far 100
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	planes := ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name     string
		aabbMin  mgl32.Vec3
		aabbMax  mgl32.Vec3
		expected bool
	}{
		{"Inside (center)", mgl32.Vec3{-1, -1, -10}, mgl32.Vec3{1, 1, -5}, true},
		{"Outside (Left)", mgl32.Vec3{-20, -1, -10}, mgl32.Vec3{-15, 1, -5}, false},
		{"Outside (Right)", mgl32.Vec3{15, -1, -10}, mgl32.Vec3{20, 1, -5}, false},
		{"Outside (Behind/Near)", mgl32.Vec3{-1, -1, 2}, mgl32.Vec3{1, 1, 5}, false},
		{"Outside (Far)", mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}, false},
		{"Intersecting (Left Plane)", mgl32.Vec3{-15, -1, -10}, mgl32.Vec3{-5, 1, -5}, true},
		{"Encompassing (Huge box)", mgl32.Vec3{-1000, -1000, -1000}, mgl32.Vec3{1000, 1000, 1000}, true},
	}

	for _, tc := range tests {
		if got := AABBInFrustum(tc.aabbMin, tc.aabbMax, planes); got != tc.expected {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestCameraBasis(t *testing.T) {
	c := NewCamera()
	c.Yaw, c.Pitch = 0, 0
	fwd, right, up := c.Forward(), c.Right(), c.Up()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, fwd[:], 1e-6)
	assert.InDeltaSlice(t, []float32{1, 0, 0}, right[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, up[:], 1e-6)

	c.Look(10000, -10000)
	assert.Less(t, c.Pitch, float32(math.Pi/2))
	f := c.Forward()
	assert.InDelta(t, 1, f.Len(), 1e-5)
	assert.InDelta(t, 0, f.Dot(c.Right()), 1e-5)
}

func TestCameraMove(t *testing.T) {
	c := NewCamera()
	c.Yaw, c.Pitch = 0, 0
	c.Position = mgl32.Vec3{}
	c.Speed = 2

	c.Move(1, 0, 0, 0.5)
	assert.InDeltaSlice(t, []float32{0, 0, -1}, c.Position[:], 1e-6)
	c.Move(0, 1, 1, 0.5)
	assert.InDeltaSlice(t, []float32{1, 1, -1}, c.Position[:], 1e-6)
}

func TestScreenRayCenterIsForward(t *testing.T) {
	c := NewCamera()
	origin, dir := c.ScreenRay(640, 360, 1280, 720)
	assert.Equal(t, c.Position, origin)
	fwd := c.Forward()
	assert.InDelta(t, 1, dir.Dot(fwd), 1e-4)

	_, left := c.ScreenRay(0, 360, 1280, 720)
	assert.Less(t, left.Dot(c.Right()), float32(0))
}

func TestVisibleRegions(t *testing.T) {
	c := NewCamera()
	c.Position = mgl32.Vec3{}
	c.Yaw, c.Pitch = 0, 0
	f := NewFrame(c, 0)
	var m mesh.Mesh
	f.Regions = []RegionView{
		{Mesh: &m, Min: mgl32.Vec3{-1, -1, -10}, Max: mgl32.Vec3{1, 1, -8}},
		{Mesh: &m, Min: mgl32.Vec3{-1, -1, 8}, Max: mgl32.Vec3{1, 1, 10}},
	}
	vis := f.VisibleRegions()
	require.Len(t, vis, 1)
	assert.Equal(t, float32(-10), vis[0].Min.Z())
}

func TestBillboards(t *testing.T) {
	f := NewFrame(nil, 0)
	f.Particles = []Particle{{Size: 1}}
	f.Projectiles = []Particle{{Size: 0.2}}
	f.Meteors = []MeteorView{{Size: 2, Trail: []mgl32.Vec3{{0, 3, 0}, {0, 2, 0}}}}

	b := f.Billboards()
	require.Len(t, b, 5)
	assert.Equal(t, float32(2), b[2].Size)
	assert.Less(t, b[3].Color[3], b[4].Color[3], "older trail fades")
}

func TestPacking(t *testing.T) {
	inst := []Instance{{Model: mgl32.Translate3D(1, 2, 3), Color: [4]float32{0.1, 0.2, 0.3, 0.4}}}
	buf := InstanceBytes(inst)
	require.Len(t, buf, InstanceSize)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[13*4:])))
	assert.Equal(t, float32(0.4), math.Float32frombits(binary.LittleEndian.Uint32(buf[76:])))

	pb := ParticleBytes([]Particle{{Position: mgl32.Vec3{4, 5, 6}, Size: 7, Color: [4]float32{1, 0, 0, 1}}})
	require.Len(t, pb, ParticleSize)
	assert.Equal(t, float32(7), math.Float32frombits(binary.LittleEndian.Uint32(pb[12:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(pb[16:])))

	f := NewFrame(NewCamera(), 1.5)
	f.EntityCount = 9
	cb := f.CameraBytes()
	require.Len(t, cb, CameraDataSize)
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(cb[176:])))
	assert.Equal(t, uint32(9), binary.LittleEndian.Uint32(cb[180:]))
}
