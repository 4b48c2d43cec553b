package sdf

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hungaromakker/battle-tok-sub003/engine/mesh"
)

type Method string

const (
	MethodPump   Method = "pump"
	MethodLinear Method = "linear"
	MethodLathe  Method = "lathe"
)

// Profile shapes the thickness of a pumped outline from rim to centre.
type Profile string

const (
	ProfileRound   Profile = "round"
	ProfileFlat    Profile = "flat"
	ProfilePointed Profile = "pointed"
)

var (
	ErrDegenerateOutline = errors.New("sdf: outline needs at least 3 points and non-zero area")
	ErrUnknownMethod     = errors.New("sdf: unknown extrusion method")
)

// minTaperScale is the smallest cross-section scale evaluated before the
// linear field reports "outside".
const minTaperScale = 1e-4

type ExtrudeParams struct {
	Method     Method     `json:"method" yaml:"method"`
	Depth      float32    `json:"depth" yaml:"depth"`
	Taper      float32    `json:"taper" yaml:"taper"`
	Thickness  float32    `json:"thickness" yaml:"thickness"`
	Profile    Profile    `json:"profile" yaml:"profile"`
	Resolution int        `json:"resolution" yaml:"resolution"`
	Segments   int        `json:"segments" yaml:"segments"`
	Sweep      float32    `json:"sweep" yaml:"sweep"`
	Color      [4]float32 `json:"color" yaml:"color"`
}

func DefaultExtrudeParams() ExtrudeParams {
	return ExtrudeParams{
		Method:     MethodPump,
		Depth:      1,
		Thickness:  0.5,
		Profile:    ProfileRound,
		Resolution: 48,
		Segments:   24,
		Sweep:      360,
		Color:      [4]float32{0.8, 0.8, 0.8, 1},
	}
}

func profileAt(profile Profile, t float32) float32 {
	t = clamp(t, 0, 1)
	switch profile {
	case ProfileFlat:
		return clamp(t*4, 0, 1)
	case ProfilePointed:
		return t
	default:
		// quarter circle
		return sqrt32(t * (2 - t))
	}
}

// PumpField inflates a 2D distance field into a volume symmetric about
// z = 0. radius is the deepest inside distance of d2; half-thickness at a
// point follows profile over its normalised depth.
func PumpField(d2 Dist2D, radius, thickness float32, profile Profile) Field {
	return func(p mgl32.Vec3) float32 {
		d := d2(mgl32.Vec2{p.X(), p.Y()})
		var t float32
		if radius > 0 {
			t = -d / radius
		}
		half := thickness * profileAt(profile, t)
		return max(d, abs32(p.Z())-half)
	}
}

// LinearField extrudes d2 from z = 0 to z = depth. The cross-section scales
// by 1 - taper*t about center, t being the normalised height.
func LinearField(d2 Dist2D, center mgl32.Vec2, depth, taper float32) Field {
	return func(p mgl32.Vec3) float32 {
		slab := max(-p.Z(), p.Z()-depth)
		var t float32
		if depth > 0 {
			t = clamp(p.Z()/depth, 0, 1)
		}
		scale := 1 - taper*t
		if scale <= minTaperScale {
			return max(slab, minTaperScale)
		}
		q := mgl32.Vec2{p.X(), p.Y()}.Sub(center).Mul(1 / scale).Add(center)
		return max(d2(q)*scale, slab)
	}
}

// Extrude turns an outline into a mesh with the selected method.
func Extrude(o Outline, params ExtrudeParams) (mesh.Mesh, error) {
	if !o.Valid() {
		return mesh.Mesh{}, ErrDegenerateOutline
	}
	lo, hi := o.Bounds()
	size := hi.Sub(lo)
	if size.X() <= 0 || size.Y() <= 0 {
		return mesh.Mesh{}, ErrDegenerateOutline
	}
	res := params.Resolution
	if res < 4 {
		res = 4
	}

	switch params.Method {
	case MethodPump:
		field := o.Sample(res * 2)
		depth := field.Depth()
		half := params.Thickness
		pad := max(size.X(), size.Y()) * 0.05
		bmin := mgl32.Vec3{lo.X() - pad, lo.Y() - pad, -half - pad}
		bmax := mgl32.Vec3{hi.X() + pad, hi.Y() + pad, half + pad}
		f := PumpField(field.At, depth, params.Thickness, params.Profile)
		return MarchingCubes(f, bmin, bmax, res, params.Color), nil

	case MethodLinear:
		field := o.Sample(res * 2)
		pad := max(size.X(), size.Y()) * 0.05
		bmin := mgl32.Vec3{lo.X() - pad, lo.Y() - pad, -pad}
		bmax := mgl32.Vec3{hi.X() + pad, hi.Y() + pad, params.Depth + pad}
		f := LinearField(field.At, o.Centroid(), params.Depth, params.Taper)
		return MarchingCubes(f, bmin, bmax, res, params.Color), nil

	case MethodLathe:
		return Lathe(o.Points, params.Segments, params.Sweep, params.Color), nil
	}
	return mesh.Mesh{}, fmt.Errorf("%w: %q", ErrUnknownMethod, params.Method)
}
