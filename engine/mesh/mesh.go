package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexSize is the packed size of a Vertex in bytes.
const VertexSize = 40

var ErrIndexOutOfRange = errors.New("mesh: index out of range")

// Vertex layout matches the WGSL vertex input:
// position vec3<f32> (12), normal vec3<f32> (12), color vec4<f32> (16).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

func (v Vertex) Pos() mgl32.Vec3 { return mgl32.Vec3(v.Position) }

// Mesh is an indexed triangle list. Triangles wind counter-clockwise when
// seen from the side their normal points to.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) AddVertex(v Vertex) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// AddFace fan-triangulates a planar convex polygon with a flat normal.
// Corner order is corrected so the winding agrees with normal.
func (m *Mesh) AddFace(corners []mgl32.Vec3, normal mgl32.Vec3, color [4]float32) {
	if len(corners) < 3 {
		return
	}
	flip := triNormal(corners[0], corners[1], corners[2]).Dot(normal) < 0

	base := uint32(len(m.Vertices))
	for _, c := range corners {
		m.AddVertex(Vertex{Position: c, Normal: normal, Color: color})
	}
	for i := 1; i+1 < len(corners); i++ {
		b, c := base+uint32(i), base+uint32(i+1)
		if flip {
			b, c = c, b
		}
		m.AddTriangle(base, b, c)
	}
}

// Append copies o into m, rebasing its indices.
func (m *Mesh) Append(o Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d is not a multiple of 3", len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: indices[%d]=%d, %d vertices", ErrIndexOutOfRange, i, idx, n)
		}
	}
	return nil
}

// RecomputeNormals replaces vertex normals with the area-weighted sum of
// incident face normals.
func (m *Mesh) RecomputeNormals() {
	acc := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		// Unnormalized cross product: length is twice the triangle area.
		n := triNormal(m.Vertices[a].Pos(), m.Vertices[b].Pos(), m.Vertices[c].Pos())
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range m.Vertices {
		if l := acc[i].Len(); l > 1e-12 {
			m.Vertices[i].Normal = acc[i].Mul(1 / l)
		}
	}
}

// Bounds returns the AABB of all vertices. ok is false for an empty mesh.
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3, bool) {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	lo := m.Vertices[0].Pos()
	hi := lo
	for _, v := range m.Vertices[1:] {
		p := v.Pos()
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi, true
}

// Transformed returns a copy with positions and normals moved by mat.
func (m *Mesh) Transformed(mat mgl32.Mat4) Mesh {
	normalMat := mat.Mat3().Inv().Transpose()
	out := Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  append([]uint32(nil), m.Indices...),
	}
	for i, v := range m.Vertices {
		p := mgl32.TransformCoordinate(v.Pos(), mat)
		n := normalMat.Mul3x1(mgl32.Vec3(v.Normal))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		out.Vertices[i] = Vertex{Position: p, Normal: n, Color: v.Color}
	}
	return out
}

// PutVertex writes v little-endian into buf[0:VertexSize].
func PutVertex(buf []byte, v Vertex) {
	off := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
		off += 4
	}
	for _, f := range v.Position {
		put(f)
	}
	for _, f := range v.Normal {
		put(f)
	}
	for _, f := range v.Color {
		put(f)
	}
}

// ReadVertex is the inverse of PutVertex.
func ReadVertex(buf []byte) Vertex {
	var v Vertex
	off := 0
	get := func() float32 {
		f := math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
		return f
	}
	for i := range v.Position {
		v.Position[i] = get()
	}
	for i := range v.Normal {
		v.Normal[i] = get()
	}
	for i := range v.Color {
		v.Color[i] = get()
	}
	return v
}

// VertexBytes packs the vertex buffer for upload.
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexSize)
	for i, v := range m.Vertices {
		PutVertex(buf[i*VertexSize:], v)
	}
	return buf
}

// IndexBytes packs the index buffer as little-endian u32.
func (m *Mesh) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func triNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}
