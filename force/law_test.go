package force

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cpt-codes/gravity/vector"
)

func TestNewtonianMagnitude(t *testing.T) {
	law := Newtonian{G: 1}
	src := Source{Mass: 1, Position: vector.Vector3{1, 0, 0}}

	var acc vector.Vector3
	law.AddAcceleration(src, vector.Zero, &acc)

	// Subject sits at distance 1 from a unit mass source: |a| == G*m/r^2 == 1,
	// pointing toward the source (+x).
	assert.InDelta(t, 1.0, acc.Norm(), 1e-12)
	assert.InDelta(t, 1.0, acc[0], 1e-12)
}

func TestNewtonianSkipsZeroDistance(t *testing.T) {
	law := Newtonian{G: 1}
	src := Source{Mass: 1, Position: vector.Zero}

	acc := vector.Zero
	law.AddAcceleration(src, vector.Zero, &acc)
	assert.Equal(t, vector.Zero, acc)
}

func TestPlummerStaysFiniteAtZero(t *testing.T) {
	law := Plummer{G: 1, Epsilon: 0.1}
	src := Source{Mass: 1, Position: vector.Zero}

	var acc vector.Vector3
	law.AddAcceleration(src, vector.Zero, &acc)

	assert.False(t, math.IsInf(acc.Norm(), 0))
	assert.False(t, math.IsNaN(acc.Norm()))
}

func TestPlummerConvergesToNewtonianFarAway(t *testing.T) {
	newton := Newtonian{G: 1}
	plummer := Plummer{G: 1, Epsilon: 1e-6}
	src := Source{Mass: 1, Position: vector.Zero}
	subject := vector.Vector3{100, 0, 0}

	var a, b vector.Vector3
	newton.AddAcceleration(src, subject, &a)
	plummer.AddAcceleration(src, subject, &b)

	assert.InDelta(t, 0, a.Sub(b).Norm(), 1e-9)
}
