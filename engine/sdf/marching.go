package sdf

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

// MarchingCubes samples f on a uniform lattice spanning [lo, hi] and
// extracts the zero level set. resolution is the number of cells along the
// longest axis; the other axes use the same cell size. Vertices on shared
// lattice edges are welded.
func MarchingCubes(f Field, lo, hi mgl32.Vec3, resolution int, color [4]float32) mesh.Mesh {
	var out mesh.Mesh
	size := hi.Sub(lo)
	longest := max(size.X(), max(size.Y(), size.Z()))
	if resolution < 1 || longest <= 0 {
		return out
	}
	cell := longest / float32(resolution)

	var n [3]int
	for a := 0; a < 3; a++ {
		n[a] = max(1, int(size[a]/cell+0.5))
	}
	px, py, pz := n[0]+1, n[1]+1, n[2]+1

	pointIndex := func(i, j, k int) int { return (k*py+j)*px + i }
	position := func(i, j, k int) mgl32.Vec3 {
		return lo.Add(mgl32.Vec3{float32(i) * cell, float32(j) * cell, float32(k) * cell})
	}

	values := make([]float32, px*py*pz)
	for k := 0; k < pz; k++ {
		for j := 0; j < py; j++ {
			for i := 0; i < px; i++ {
				values[pointIndex(i, j, k)] = f(position(i, j, k))
			}
		}
	}

	// Welded vertices keyed by the lattice edge they sit on.
	weld := make(map[int]uint32)
	edgeVertex := func(i, j, k, e int) uint32 {
		c0, c1 := edgeCorners[e][0], edgeCorners[e][1]
		o0, o1 := cornerOffsets[c0], cornerOffsets[c1]
		a := [3]int{i + o0[0], j + o0[1], k + o0[2]}
		b := [3]int{i + o1[0], j + o1[1], k + o1[2]}
		if pointIndex(b[0], b[1], b[2]) < pointIndex(a[0], a[1], a[2]) {
			a, b = b, a
		}
		axis := 0
		for ax := 0; ax < 3; ax++ {
			if a[ax] != b[ax] {
				axis = ax
			}
		}
		key := pointIndex(a[0], a[1], a[2])*3 + axis
		if idx, ok := weld[key]; ok {
			return idx
		}

		va := values[pointIndex(a[0], a[1], a[2])]
		vb := values[pointIndex(b[0], b[1], b[2])]
		t := float32(0.5)
		if d := va - vb; d != 0 {
			t = clamp(va/d, 0, 1)
		}
		pa, pb := position(a[0], a[1], a[2]), position(b[0], b[1], b[2])
		p := pa.Add(pb.Sub(pa).Mul(t))

		normal := Gradient(f, p, cell*0.5)
		if l := normal.Len(); l > 1e-12 {
			normal = normal.Mul(1 / l)
		} else {
			normal = mgl32.Vec3{0, 1, 0}
		}
		idx := out.AddVertex(mesh.Vertex{Position: p, Normal: normal, Color: color})
		weld[key] = idx
		return idx
	}

	for k := 0; k < n[2]; k++ {
		for j := 0; j < n[1]; j++ {
			for i := 0; i < n[0]; i++ {
				config := 0
				for c, o := range cornerOffsets {
					if values[pointIndex(i+o[0], j+o[1], k+o[2])] < 0 {
						config |= 1 << c
					}
				}
				if edgeTable[config] == 0 {
					continue
				}
				row := &triTable[config]
				for t := 0; t < len(row) && row[t] >= 0; t += 3 {
					out.AddTriangle(
						edgeVertex(i, j, k, int(row[t])),
						edgeVertex(i, j, k, int(row[t+1])),
						edgeVertex(i, j, k, int(row[t+2])),
					)
				}
			}
		}
	}
	return out
}
