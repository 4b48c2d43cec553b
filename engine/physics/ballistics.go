package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// HeightFunc is the terrain oracle: ground height at world (x, z).
type HeightFunc func(x, z float32) float32

// Flat returns a HeightFunc with constant ground height.
func Flat(y float32) HeightFunc {
	return func(x, z float32) float32 { return y }
}

type Projectile struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Mass     float32
	Drag     float32 // drag coefficient Cd
	Radius   float32
	Active   bool

	Age      float32
	Lifetime float32 // seconds, 0 = unlimited
}

// Expired reports whether the projectile outlived its lifetime.
func (p *Projectile) Expired() bool {
	return p.Lifetime > 0 && p.Age >= p.Lifetime
}

// CrossSection is the frontal area used by the drag equation.
func (p *Projectile) CrossSection() float32 {
	return float32(math.Pi) * p.Radius * p.Radius
}

type BallisticsConfig struct {
	Gravity    mgl32.Vec3 `yaml:"gravity"`
	AirDensity float32    `yaml:"air_density"`
}

func DefaultBallisticsConfig() BallisticsConfig {
	return BallisticsConfig{
		Gravity:    mgl32.Vec3{0, -9.81, 0},
		AirDensity: 1.225,
	}
}

// Integrate advances p by dt with semi-implicit Euler under gravity and
// quadratic drag. Velocity is updated before position. Inactive projectiles
// and non-positive dt are no-ops.
func Integrate(p *Projectile, cfg BallisticsConfig, dt float32) {
	if p == nil || !p.Active || dt <= 0 {
		return
	}

	vel := p.Velocity
	speed := vel.Len()
	if speed > 0 && p.Mass > 0 && cfg.AirDensity > 0 && p.Drag > 0 {
		force := 0.5 * cfg.AirDensity * p.Drag * p.CrossSection() * speed * speed
		dv := force / p.Mass * dt
		// Drag can stop the body but never reverse it.
		if dv > speed {
			dv = speed
		}
		vel = vel.Sub(vel.Mul(dv / speed))
	}
	vel = vel.Add(cfg.Gravity.Mul(dt))

	if isBad(vel) {
		p.Velocity = mgl32.Vec3{}
		return
	}

	p.Velocity = vel
	p.Position = p.Position.Add(vel.Mul(dt))
	p.Age += dt
}

// IntegrateGravity is the drag-free variant used by falling prisms and meteors.
func IntegrateGravity(pos, vel *mgl32.Vec3, gravity mgl32.Vec3, dt float32) {
	if dt <= 0 {
		return
	}
	*vel = vel.Add(gravity.Mul(dt))
	*pos = pos.Add(vel.Mul(dt))
}

func isBad(v mgl32.Vec3) bool {
	l := float64(v.Len())
	return math.IsNaN(l) || math.IsInf(l, 0)
}
