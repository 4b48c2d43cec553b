package variety

import "math"

// Params controls per-instance jitter. It is persisted with baked assets.
type Params struct {
	Seed           uint32  `json:"seed" yaml:"seed"`
	ScaleJitter    float32 `json:"scale_jitter" yaml:"scale_jitter"`
	RotationJitter float32 `json:"rotation_jitter" yaml:"rotation_jitter"` // radians
	ColorJitter    float32 `json:"color_jitter" yaml:"color_jitter"`
}

type Variation struct {
	Scale      float32
	Rotation   float32
	ColorShift [3]float32
}

// At derives the variation for a cell position. The same position and
// seed always produce the same variation.
func (p Params) At(x, y, z int32) Variation {
	rng := NewXorShift32(HashPosition(x, y, z) ^ p.Seed)
	v := Variation{
		Scale:    1 + p.ScaleJitter*rng.Signed(),
		Rotation: p.RotationJitter * rng.Signed(),
	}
	for i := range v.ColorShift {
		v.ColorShift[i] = p.ColorJitter * rng.Signed()
	}
	return v
}

// Tint applies the colour shift, clamping channels to [0, 1].
func (v Variation) Tint(c [4]float32) [4]float32 {
	for i := 0; i < 3; i++ {
		c[i] = clamp01(c[i] + v.ColorShift[i])
	}
	return c
}

// ValueNoise2D is smooth lattice noise in [0, 1).
func ValueNoise2D(seed uint32, x, z float32) float32 {
	x0 := float32(math.Floor(float64(x)))
	z0 := float32(math.Floor(float64(z)))
	tx := smooth(x - x0)
	tz := smooth(z - z0)
	ix, iz := int32(x0), int32(z0)

	v00 := lattice(seed, ix, iz)
	v10 := lattice(seed, ix+1, iz)
	v01 := lattice(seed, ix, iz+1)
	v11 := lattice(seed, ix+1, iz+1)

	a := v00 + (v10-v00)*tx
	b := v01 + (v11-v01)*tx
	return a + (b-a)*tz
}

func lattice(seed uint32, x, z int32) float32 {
	return float32((HashPosition(x, 0, z)^seed)>>8) / float32(1<<24)
}

func smooth(t float32) float32 { return t * t * (3 - 2*t) }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Terrain is a fractal value-noise height field.
type Terrain struct {
	Seed      uint32  `yaml:"seed"`
	Base      float32 `yaml:"base"`
	Amplitude float32 `yaml:"amplitude"`
	Frequency float32 `yaml:"frequency"`
	Octaves   int     `yaml:"octaves"`
}

// Height samples the field at world (x, z).
func (t Terrain) Height(x, z float32) float32 {
	if t.Amplitude == 0 || t.Octaves <= 0 {
		return t.Base
	}
	var sum, norm float32
	amp, freq := float32(1), t.Frequency
	for o := 0; o < t.Octaves; o++ {
		sum += amp * ValueNoise2D(t.Seed+uint32(o)*0x68E31DA4, x*freq, z*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return t.Base + t.Amplitude*(sum/norm)
}
