package variety

// XorShift32 is Marsaglia's 32-bit xorshift generator (13, 17, 5).
type XorShift32 struct {
	state uint32
}

// zeroSeed replaces a zero seed, which would lock the generator at zero.
const zeroSeed = 0x9E3779B9

func NewXorShift32(seed uint32) *XorShift32 {
	if seed == 0 {
		seed = zeroSeed
	}
	return &XorShift32{state: seed}
}

func (r *XorShift32) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float returns a value in [0, 1) from the top 24 bits.
func (r *XorShift32) Float() float32 {
	return float32(r.Next()>>8) / float32(1<<24)
}

// Range returns a value in [lo, hi).
func (r *XorShift32) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*r.Float()
}

// Signed returns a value in [-1, 1).
func (r *XorShift32) Signed() float32 {
	return r.Float()*2 - 1
}

// HashPosition mixes integer coordinates into a well-distributed 32-bit
// value. Identical inputs always hash identically.
func HashPosition(x, y, z int32) uint32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(z)*83492791
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}
