package mesh

import "github.com/go-gl/mathgl/mgl32"

// Transform places an instance of a template mesh: scaled about the
// template origin, rotated, then moved to Position.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform is an unrotated, unscaled placement at pos.
func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix is the model matrix of the placement.
func (t Transform) Matrix() mgl32.Mat4 {
	m := t.Rotation.Mat4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] *= t.Scale[col]
		}
	}
	m[12], m[13], m[14] = t.Position.X(), t.Position.Y(), t.Position.Z()
	return m
}

// Inverse maps world space back into template space. Scale components
// must be non-zero.
func (t Transform) Inverse() mgl32.Mat4 {
	inv := t.Rotation.Conjugate().Mat4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			inv[col*4+row] /= t.Scale[row]
		}
	}
	p := inv.Mul4x1(t.Position.Vec4(0)).Vec3()
	inv[12], inv[13], inv[14] = -p.X(), -p.Y(), -p.Z()
	return inv
}
