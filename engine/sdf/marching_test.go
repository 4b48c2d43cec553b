package sdf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

var grey = [4]float32{0.5, 0.5, 0.5, 1}

func TestTablesAgree(t *testing.T) {
	for config := 0; config < 256; config++ {
		var used uint16
		row := triTable[config]
		n := 0
		for n < len(row) && row[n] >= 0 {
			used |= 1 << row[n]
			n++
		}
		if n%3 != 0 {
			t.Fatalf("config %d: %d indices", config, n)
		}
		if used != edgeTable[config] {
			t.Fatalf("config %d: triangles use %012b, crossings %012b", config, used, edgeTable[config])
		}
	}
	assert.Zero(t, edgeTable[0])
	assert.Zero(t, edgeTable[255])
}

// requireClosed checks that every directed edge is matched by exactly one
// opposite edge, which holds for a closed, consistently wound surface.
func requireClosed(t *testing.T, m mesh.Mesh) {
	t.Helper()
	type edge struct{ a, b uint32 }
	count := make(map[edge]int)
	for i := 0; i < len(m.Indices); i += 3 {
		tri := m.Indices[i : i+3]
		for k := 0; k < 3; k++ {
			count[edge{tri[k], tri[(k+1)%3]}]++
		}
	}
	for e, n := range count {
		require.Equal(t, 1, n, "edge %v repeated", e)
		require.Equal(t, 1, count[edge{e.b, e.a}], "edge %v has no twin", e)
	}
}

func TestMarchingCubesSphere(t *testing.T) {
	s := Sphere{Radius: 1}
	lo := mgl32.Vec3{-1.5, -1.5, -1.5}
	hi := mgl32.Vec3{1.5, 1.5, 1.5}
	m := MarchingCubes(FromPrimitive(s), lo, hi, 16, grey)

	require.NoError(t, m.Validate())
	require.NotZero(t, m.TriangleCount())
	requireClosed(t, m)

	cell := float32(3.0 / 16.0)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1.0, v.Pos().Len(), float64(cell))
	}

	// Outward winding: every triangle faces away from the centre.
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Pos()
		b := m.Vertices[m.Indices[i+1]].Pos()
		c := m.Vertices[m.Indices[i+2]].Pos()
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
		if n.Dot(centroid) < 0 {
			t.Fatalf("triangle %d faces inward", i/3)
		}
	}
}

func TestMarchingCubesCSG(t *testing.T) {
	f := Subtract(
		FromPrimitive(Box{Half: mgl32.Vec3{1, 1, 1}}),
		FromPrimitive(Cylinder{Radius: 0.5, HalfHeight: 2}),
	)
	m := MarchingCubes(f, mgl32.Vec3{-1.3, -1.3, -1.3}, mgl32.Vec3{1.3, 1.3, 1.3}, 20, grey)
	require.NoError(t, m.Validate())
	requireClosed(t, m)
}

func TestMarchingCubesEmpty(t *testing.T) {
	far := Sphere{Center: mgl32.Vec3{10, 10, 10}, Radius: 1}
	m := MarchingCubes(FromPrimitive(far), mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 8, grey)
	assert.True(t, m.Empty())

	m = MarchingCubes(FromPrimitive(far), mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 0, grey)
	assert.True(t, m.Empty())
}
