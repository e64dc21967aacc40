// Package force defines the pairwise gravitational force-law contract the
// Barnes-Hut algorithm invokes, plus the two canonical laws: Newtonian and
// Plummer-softened gravity.
package force

import (
	"math"

	"github.com/cpt-codes/gravity/vector"
)

// Source is anything that can act on a subject via a Law: a real particle
// or a synthetic point mass collapsed from a subtree.
type Source struct {
	Mass     float64
	Position vector.Vector3
}

// Law adds the acceleration that source exerts on subject (at
// subjectPosition) into acc.
type Law interface {
	AddAcceleration(source Source, subjectPosition vector.Vector3, acc *vector.Vector3)
}

// Newtonian implements unsoftened Newtonian gravity: a = -G*m*r/|r|^3.
type Newtonian struct {
	G float64
}

// AddAcceleration implements Law.
func (n Newtonian) AddAcceleration(source Source, subjectPosition vector.Vector3, acc *vector.Vector3) {
	r := subjectPosition.Sub(source.Position)
	dist := r.Norm()
	if dist == 0 {
		return
	}
	*acc = acc.Sub(r.Scale(n.G * source.Mass / (dist * dist * dist)))
}

// Plummer implements Plummer-softened gravity:
// a = -G*m*r/(|r|^2 + eps^2)^(3/2), which stays finite as r -> 0.
type Plummer struct {
	G       float64
	Epsilon float64
}

// AddAcceleration implements Law.
func (p Plummer) AddAcceleration(source Source, subjectPosition vector.Vector3, acc *vector.Vector3) {
	r := subjectPosition.Sub(source.Position)
	denom := math.Pow(r.SquaredNorm()+p.Epsilon*p.Epsilon, 1.5)
	if denom == 0 {
		return
	}
	*acc = acc.Sub(r.Scale(p.G * source.Mass / denom))
}
