package systems

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerateCollision reports a pair with coincident centers. The collision
// normal is undefined, so the pair is skipped for the tick.
var ErrDegenerateCollision = errors.New("degenerate collision: coincident centers")

// ElasticResponse returns the post-collision velocities of two circles with
// centers s1, s2, velocities u1, u2 and masses m1, m2:
//
//	v1 = u1 − 2·m2/(m1+m2) · ⟨u1−u2, s1−s2⟩/‖s1−s2‖² · (s1−s2)
//	v2 = u2 − 2·m1/(m1+m2) · ⟨u2−u1, s2−s1⟩/‖s2−s1‖² · (s2−s1)
//
// With massDefect set, the second denominator is (m1+m1). That variant does not
// conserve momentum for unequal masses.
func ElasticResponse(s1, s2, u1, u2 r2.Vec, m1, m2 float64, massDefect bool) (v1, v2 r2.Vec, err error) {
	d := r2.Sub(s1, s2)
	distSq := r2.Norm2(d)
	if distSq == 0 {
		return u1, u2, ErrDegenerateCollision
	}
	du := r2.Sub(u1, u2)

	k1 := 2 * m2 / (m1 + m2) * r2.Dot(du, d) / distSq
	den2 := m1 + m2
	if massDefect {
		den2 = m1 + m1
	}
	// ⟨u2−u1, s2−s1⟩ equals ⟨u1−u2, s1−s2⟩.
	k2 := 2 * m1 / den2 * r2.Dot(du, d) / distSq

	v1 = r2.Sub(u1, r2.Scale(k1, d))
	v2 = r2.Sub(u2, r2.Scale(k2, r2.Scale(-1, d)))
	return v1, v2, nil
}

// Approaching reports whether two circles are moving towards each other.
func Approaching(s1, s2, u1, u2 r2.Vec) bool {
	return r2.Dot(r2.Sub(u1, u2), r2.Sub(s2, s1)) > 0
}

// KineticEnergy returns ½·m·‖v‖².
func KineticEnergy(m float64, v r2.Vec) float64 {
	return 0.5 * m * r2.Norm2(v)
}

func vec(x, y float32) r2.Vec {
	return r2.Vec{X: float64(x), Y: float64(y)}
}
