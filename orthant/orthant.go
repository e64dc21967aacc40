// Package orthant indexes the eight axis-aligned octants of 3-space.
package orthant

// Orthant is an index in [0, 8). Bit i encodes the sign of axis i: 0 means
// positive/aligned, 1 means negative.
type Orthant uint8

// Axes is the number of spatial axes this package's bit layout assumes.
const Axes = 3

// New returns the zero Orthant (all axes aligned).
func New() Orthant { return 0 }

// FromIndex wraps a [0, 8) integer as an Orthant.
func FromIndex(i int) Orthant { return Orthant(i) }

// Index returns the integer index in [0, 8) for this Orthant.
func (o Orthant) Index() int { return int(o) }

// Aligned reports whether axis i is on the positive/aligned side.
func (o Orthant) Aligned(axis int) bool {
	return o&(1<<uint(axis)) == 0
}

// WithAxis returns the Orthant with axis i's sign set according to aligned.
func (o Orthant) WithAxis(axis int, aligned bool) Orthant {
	bit := Orthant(1 << uint(axis))
	if aligned {
		return o &^ bit
	}
	return o | bit
}

// Invert flips the sign of every axis.
func (o Orthant) Invert() Orthant {
	return o ^ ((1 << Axes) - 1)
}
