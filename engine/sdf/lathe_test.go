package sdf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaseProfile() []mgl32.Vec2 {
	return []mgl32.Vec2{{0.5, 0}, {0.8, 0.5}, {0.6, 1.2}, {0.7, 1.6}}
}

func TestLatheFullSweepCloses(t *testing.T) {
	profile := vaseProfile()
	m := Lathe(profile, 16, 360, grey)
	require.NoError(t, m.Validate())

	cols := len(profile)
	rings := len(m.Vertices) / cols
	require.Equal(t, 17, rings)

	last := (rings - 1) * cols
	for i := 0; i < cols; i++ {
		a, b := m.Vertices[i].Pos(), m.Vertices[last+i].Pos()
		assert.InDelta(t, 0.0, a.Sub(b).Len(), 1e-5)
	}
}

func TestLathePartialSweepLeavesSeam(t *testing.T) {
	profile := vaseProfile()
	m := Lathe(profile, 12, 180, grey)

	cols := len(profile)
	last := len(m.Vertices) - cols
	for i := 0; i < cols; i++ {
		a, b := m.Vertices[i].Pos(), m.Vertices[last+i].Pos()
		assert.Greater(t, a.Sub(b).Len(), float32(0.5))
	}
}

func TestLatheClampsSegments(t *testing.T) {
	profile := vaseProfile()
	few := Lathe(profile, 2, 360, grey)
	assert.Len(t, few.Vertices, (MinLatheSegments+1)*len(profile))

	many := Lathe(profile, 500, 360, grey)
	assert.Len(t, many.Vertices, (MaxLatheSegments+1)*len(profile))

	none := Lathe(profile, 8, 0, grey)
	assert.True(t, none.Empty())
}

func TestLatheNormalsOutward(t *testing.T) {
	m := Lathe([]mgl32.Vec2{{1, 0}, {1, 2}}, 24, 360, grey)
	for _, v := range m.Vertices {
		radial := mgl32.Vec3{v.Position[0], 0, v.Position[2]}.Normalize()
		assert.InDelta(t, 1.0, mgl32.Vec3(v.Normal).Dot(radial), 1e-4)
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Pos()
		b := m.Vertices[m.Indices[i+1]].Pos()
		c := m.Vertices[m.Indices[i+2]].Pos()
		n := b.Sub(a).Cross(c.Sub(a))
		mid := a.Add(b).Add(c).Mul(1.0 / 3.0)
		assert.Greater(t, n.Dot(mgl32.Vec3{mid.X(), 0, mid.Z()}), float32(0))
	}
}

func TestLatheSharpProfileUsesFaceNormals(t *testing.T) {
	// A flat disc on top of a wall: the corner is 90 degrees.
	m := Lathe([]mgl32.Vec2{{1, 0}, {1, 1}, {0, 1}}, 8, 360, grey)
	require.NoError(t, m.Validate())
	for _, v := range m.Vertices {
		l := mgl32.Vec3(v.Normal).Len()
		if l > 0 {
			assert.InDelta(t, 1.0, l, 1e-4)
		}
	}
}

func TestLatheReversedProfile(t *testing.T) {
	down := []mgl32.Vec2{{1, 2}, {1, 0}}
	m := Lathe(down, 8, 360, grey)
	n := mgl32.Vec3(m.Vertices[0].Normal)
	p := m.Vertices[0].Pos()
	assert.Greater(t, n.Dot(mgl32.Vec3{p.X(), 0, p.Z()}), float32(0))
}
