package barneshut

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpt-codes/gravity/body"
	"github.com/cpt-codes/gravity/box"
	"github.com/cpt-codes/gravity/force"
	"github.com/cpt-codes/gravity/octree"
	"github.com/cpt-codes/gravity/vector"
)

func newTestTree(t *testing.T) *octree.Octree {
	bounds, err := box.New(vector.Zero, vector.Vector3{10, 10, 10})
	require.NoError(t, err)
	tree, err := octree.New(bounds, 1.25, 1.0, 8, 10, 10)
	require.NoError(t, err)
	return tree
}

func TestAccelerationZeroWithoutTreeOrField(t *testing.T) {
	a := New()
	p, err := body.New(1, vector.Zero, vector.Vector3{0.1, 0.1, 0.1})
	require.NoError(t, err)

	assert.Equal(t, vector.Zero, a.Acceleration(p))

	a.SetTree(newTestTree(t))
	assert.Equal(t, vector.Zero, a.Acceleration(p))
}

func TestAccelerationNilParticle(t *testing.T) {
	a := New()
	assert.Equal(t, vector.Zero, a.Acceleration(nil))
}

func TestIdentitySkip(t *testing.T) {
	tree := newTestTree(t)
	p, err := body.New(1, vector.Zero, vector.Vector3{0.1, 0.1, 0.1})
	require.NoError(t, err)
	require.True(t, tree.Insert(p))

	a := New()
	a.SetTree(tree)
	a.SetField(force.Newtonian{G: 1})
	require.NoError(t, a.SetThreshold(1.5))

	assert.Equal(t, vector.Zero, a.Acceleration(p))
}

func directSum(particles []*body.Particle, query *body.Particle, law force.Law) vector.Vector3 {
	var acc vector.Vector3
	for _, p := range particles {
		if p == query {
			continue
		}
		law.AddAcceleration(force.Source{Mass: p.Mass, Position: p.Position()}, query.Position(), &acc)
	}
	return acc
}

func TestExactThresholdMatchesDirectSummation(t *testing.T) {
	tree := newTestTree(t)
	law := force.Newtonian{G: 1}

	rng := rand.New(rand.NewSource(42))
	particles := make([]*body.Particle, 0, 100)
	for i := 0; i < 100; i++ {
		pos := vector.Vector3{
			rng.Float64()*10 - 5,
			rng.Float64()*10 - 5,
			rng.Float64()*10 - 5,
		}
		p, err := body.New(1, pos, vector.Vector3{1e-3, 1e-3, 1e-3})
		require.NoError(t, err)
		require.True(t, tree.Insert(p))
		particles = append(particles, p)
	}

	a := New()
	a.SetTree(tree)
	a.SetField(law)
	require.NoError(t, a.SetThreshold(0))

	for _, p := range particles {
		exact := a.Acceleration(p)
		want := directSum(particles, p, law)
		assert.InDelta(t, 0, exact.Sub(want).Norm(), 1e-9)
	}
}

func TestApproximateThresholdIsClose(t *testing.T) {
	tree := newTestTree(t)
	law := force.Newtonian{G: 1}

	rng := rand.New(rand.NewSource(7))
	particles := make([]*body.Particle, 0, 100)
	for i := 0; i < 100; i++ {
		pos := vector.Vector3{
			rng.Float64()*10 - 5,
			rng.Float64()*10 - 5,
			rng.Float64()*10 - 5,
		}
		p, err := body.New(1, pos, vector.Vector3{1e-3, 1e-3, 1e-3})
		require.NoError(t, err)
		require.True(t, tree.Insert(p))
		particles = append(particles, p)
	}

	a := New()
	a.SetTree(tree)
	a.SetField(law)

	require.NoError(t, a.SetThreshold(0))
	exact := make([]vector.Vector3, len(particles))
	for i, p := range particles {
		exact[i] = a.Acceleration(p)
	}

	require.NoError(t, a.SetThreshold(1.0))
	for i, p := range particles {
		approx := a.Acceleration(p)
		if exact[i].Norm() == 0 {
			continue
		}
		rel := approx.Sub(exact[i]).Norm() / exact[i].Norm()
		assert.Less(t, rel, 1e-2, "particle %d relative error %g", i, rel)
	}
}

func TestSetThresholdRejectsNegative(t *testing.T) {
	a := New()
	err := a.SetThreshold(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSetTreeClearsCache(t *testing.T) {
	a := New()
	a.SetField(force.Newtonian{G: 1})
	tree1 := newTestTree(t)
	p, err := body.New(1, vector.Zero, vector.Vector3{0.1, 0.1, 0.1})
	require.NoError(t, err)
	require.True(t, tree1.Insert(p))

	a.SetTree(tree1)
	a.Acceleration(p) // populate cache

	tree2 := newTestTree(t)
	a.SetTree(tree2)
	// Stale cache keyed on tree1's nodes must not leak into tree2's results.
	assert.Equal(t, vector.Zero, a.Acceleration(p))
}

func TestForceIsMassScaledAcceleration(t *testing.T) {
	tree := newTestTree(t)
	a := New()
	a.SetField(force.Newtonian{G: 1})

	p1, err := body.New(2, vector.Vector3{-1, 0, 0}, vector.Vector3{0.01, 0.01, 0.01})
	require.NoError(t, err)
	p2, err := body.New(3, vector.Vector3{1, 0, 0}, vector.Vector3{0.01, 0.01, 0.01})
	require.NoError(t, err)
	require.True(t, tree.Insert(p1))
	require.True(t, tree.Insert(p2))

	a.SetTree(tree)
	require.NoError(t, a.SetThreshold(0))

	acc := a.Acceleration(p1)
	force := a.Force(p1)
	assert.InDelta(t, 0, force.Sub(acc.Scale(p1.Mass)).Norm(), 1e-12)
	assert.False(t, math.IsNaN(force.Norm()))
}
