package opc

import "math"

// SDP is a deterministic numerical integrator of a canonical two-segment
// pendulum, used as a source of chaotic (but fully reproducible, given a
// fixed seed) pseudo-randomness. float64 stands in for the reference's
// 80-bit long double; the integration is otherwise a direct port.
type SDP struct {
	length1, length2 float64
	mass1, mass2     float64
	tension1, tension2 float64
	radius           float64
	seqSize          float64
	velocity1, velocity2 float64

	backupTension1, backupTension2 float64
	backupVelocity1, backupVelocity2 float64
}

const (
	sdpGravity = 9.8
	sdpStep    = 0.002
)

// NewSDP seeds the pendulum from a 64-bit seed, per spec.md's SDP_Seed
// floor (enforced by the caller, CommonState's constructor).
func NewSDP(seed uint64) *SDP {
	s := &SDP{}
	s.Seed(seed)
	return s
}

func seedBits(seed uint64) [64]int8 {
	var bits [64]int8
	for i := 0; i < 64; i++ {
		bitPos := uint(63 - i)
		bits[i] = int8((seed >> bitPos) & 1)
	}
	return bits
}

// Seed reconstructs the ten physical parameters from the seed's binary
// representation, distributing bits across parameter slots with decreasing
// powers of two, then warms up the integrator for round(radius*64) steps.
func (s *SDP) Seed(seed uint64) {
	bits := seedBits(seed)

	quarter := len(bits) / 4
	q := [4][]int8{
		bits[0:quarter],
		bits[quarter : 2*quarter],
		bits[2*quarter : 3*quarter],
		bits[3*quarter : 4*quarter],
	}

	var paramBase [7][]int8
	paramBase[0] = xorSlice(q[0], q[1])
	paramBase[1] = xorSlice(q[0], q[2])
	paramBase[2] = xorSlice(q[0], q[3])
	paramBase[3] = xorSlice(q[1], q[2])
	paramBase[4] = xorSlice(q[1], q[3])
	paramBase[5] = xorSlice(q[2], q[3])
	paramBase[6] = q[0]

	*s = SDP{}

	system := [8]*float64{&s.length1, &s.length2, &s.mass1, &s.mass2, &s.tension1, &s.tension2, nil, nil}
	for i := 0; i < 64; i++ {
		for j := 0; j < 6; j++ {
			if paramBase[j][i%quarter] == 1 {
				*system[j] += math.Pow(2, float64(0-i))
			}
		}
		if paramBase[6][i%quarter] == 1 {
			s.radius += math.Pow(2, float64(4-i))
		}
	}

	s.seqSize = float64(len(bits))

	s.runSystem(true, uint64(math.Round(s.radius*s.seqSize)))
}

func xorSlice(a, b []int8) []int8 {
	out := make([]int8, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func (s *SDP) runSystem(isInitializeMode bool, steps uint64) {
	for c := uint64(0); c < steps; c++ {
		denominator := 2*s.mass1 + s.mass2 - s.mass2*math.Cos(2*s.tension1-2*s.tension2)

		alpha1 := -sdpGravity*(2*s.mass1+s.mass2)*math.Sin(s.tension1) -
			s.mass2*sdpGravity*math.Sin(s.tension1-2*s.tension2) -
			2*math.Sin(s.tension1-s.tension2)*s.mass2*
				(s.velocity2*s.velocity2*s.length2+s.velocity1*s.velocity1*s.length1*math.Cos(s.tension1-s.tension2))
		alpha1 /= s.length1 * denominator

		alpha2 := 2 * math.Sin(s.tension1-s.tension2) *
			(s.velocity1*s.velocity1*s.length1*(s.mass1+s.mass2) +
				sdpGravity*(s.mass1+s.mass2)*math.Cos(s.tension1) +
				s.velocity2*s.velocity2*s.length2*s.mass2*math.Cos(s.tension1-s.tension2))
		alpha2 /= s.length2 * denominator

		s.velocity1 += sdpStep * alpha1
		s.velocity2 += sdpStep * alpha2
		s.tension1 += sdpStep * s.velocity1
		s.tension2 += sdpStep * s.velocity2
	}

	if isInitializeMode {
		s.backupTension1, s.backupTension2 = s.tension1, s.tension2
		s.backupVelocity1, s.backupVelocity2 = s.velocity1, s.velocity2
	}
}

func concatBits(a, b int32) int64 {
	x := uint64(uint32(a))
	if a < 0 {
		x = uint64(int64(a))
	}
	y := uint64(uint32(b))
	if b < 0 {
		y = uint64(int64(b))
	}
	x = (x | (x << 16)) & 0x0000FFFF0000FFFF
	x = (x | (x << 8)) & 0x00FF00FF00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F0F0F0F0F
	x = (x | (x << 2)) & 0x3333333333333333
	x = (x | (x << 1)) & 0x5555555555555555
	y = (y | (y << 16)) & 0x0000FFFF0000FFFF
	y = (y | (y << 8)) & 0x00FF00FF00FF00FF
	y = (y | (y << 4)) & 0x0F0F0F0F0F0F0F0F
	y = (y | (y << 2)) & 0x3333333333333333
	y = (y | (y << 1)) & 0x5555555555555555
	return int64((y << 1) | x)
}

// generate runs one integration step and folds the two angle-derived
// scalars into an interleaved 64-bit value.
func (s *SDP) generate() int64 {
	s.runSystem(false, 1)

	a := s.length1*math.Sin(s.tension1) + s.length2*math.Sin(s.tension2)
	b := -s.length1*math.Sin(s.tension1) - s.length2*math.Sin(s.tension2)

	left := int64(math.Floor(math.Mod(a*1000, 1.0) * 4294967296))
	right := int64(math.Floor(math.Mod(b*1000, 1.0) * 4294967296))

	return concatBits(int32(left), int32(right))
}

// Next returns one raw 64-bit output (equivalent to the reference's
// operator()(0, UINT64_MAX) call, which degenerates to a zero modulus and
// passes the generated value through unchanged).
func (s *SDP) Next() uint64 {
	return uint64(s.generate())
}

// Range returns one output uniformly folded into [min, max].
func (s *SDP) Range(min, max uint64) uint64 {
	modulus := int64(max) - int64(min) + 1
	v := s.generate()
	if modulus != 0 {
		v %= modulus
		if v < 0 {
			v += modulus
		}
	}
	return uint64(int64(min) + v)
}

// Reset restores the four integration variables (both angles and both
// angular velocities) to the values snapshotted at the end of Seed's warm-up.
func (s *SDP) Reset() {
	s.tension1, s.tension2 = s.backupTension1, s.backupTension2
	s.velocity1, s.velocity2 = s.backupVelocity1, s.backupVelocity2
}
