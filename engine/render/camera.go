package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a Y-up fly camera.
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32 // radians, 0 looks down -Z
	Pitch       float32
	FovY        float32 // degrees
	Near, Far   float32
	Aspect      float32
	Speed       float32
	Sensitivity float32
}

func NewCamera() *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 8, 24},
		Pitch:       -0.3,
		FovY:        60,
		Near:        0.1,
		Far:         1000,
		Aspect:      16.0 / 9.0,
		Speed:       12,
		Sensitivity: 0.003,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	cp := math.Cos(float64(c.Pitch))
	return mgl32.Vec3{
		float32(cp * math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		float32(-cp * math.Cos(float64(c.Yaw))),
	}
}

func (c *Camera) Right() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Yaw))),
		0,
		float32(math.Sin(float64(c.Yaw))),
	}
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Look applies a mouse delta in pixels.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	const limit = math.Pi/2 - 0.01
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Move translates along forward, right and world up, scaled by Speed*dt.
func (c *Camera) Move(forward, right, up, dt float32) {
	step := c.Speed * dt
	c.Position = c.Position.
		Add(c.Forward().Mul(forward * step)).
		Add(c.Right().Mul(right * step)).
		Add(mgl32.Vec3{0, up * step, 0})
}

func (c *Camera) View() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProj() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// ScreenRay returns a world-space ray through pixel (x, y) of a w*h
// viewport.
func (c *Camera) ScreenRay(x, y, w, h float32) (mgl32.Vec3, mgl32.Vec3) {
	if w <= 0 || h <= 0 {
		return c.Position, c.Forward()
	}
	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h
	inv := c.ViewProj().Inv()
	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, inv)
	return c.Position, far.Sub(near).Normalize()
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0.
func ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	w := row(3)
	planes[0] = w.Add(row(0))
	planes[1] = w.Sub(row(0))
	planes[2] = w.Add(row(1))
	planes[3] = w.Sub(row(1))
	planes[4] = w.Add(row(2)) // OpenGL-style -1..1
	planes[5] = w.Sub(row(2))

	for i := range planes {
		length := mgl32.Vec3{planes[i][0], planes[i][1], planes[i][2]}.Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// AABBInFrustum reports whether the box touches the frustum. It tests the
// box corner furthest along each plane normal.
func AABBInFrustum(lo, hi mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, p := range planes {
		v := lo
		if p[0] >= 0 {
			v[0] = hi[0]
		}
		if p[1] >= 0 {
			v[1] = hi[1]
		}
		if p[2] >= 0 {
			v[2] = hi[2]
		}
		if p[0]*v[0]+p[1]*v[1]+p[2]*v[2]+p[3] < 0 {
			return false
		}
	}
	return true
}
