// Package body defines the particle handle the octree and Barnes-Hut
// algorithm operate on.
package body

import (
	"fmt"

	"github.com/cpt-codes/gravity/box"
	"github.com/cpt-codes/gravity/vector"
)

// Particle is a massive body with a position/radius (via Bounds),
// velocity and accumulated acceleration. Particles are referenced by
// pointer; the tree never copies particle data, and identity comparisons
// throughout the library compare these pointers, not the fields.
type Particle struct {
	Mass         float64
	Bounds       box.BoundingBox
	Velocity     vector.Vector3
	Acceleration vector.Vector3
}

// New constructs a Particle at the given centre with the given radius
// (extents) and mass. It returns an error if mass is not strictly positive
// or the radius is not a valid BoundingBox extent.
func New(mass float64, centre, radius vector.Vector3) (*Particle, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("body: mass = %g, must be > 0", mass)
	}
	bounds, err := box.New(centre, radius)
	if err != nil {
		return nil, err
	}
	return &Particle{Mass: mass, Bounds: bounds}, nil
}

// Position returns the particle's centre.
func (p *Particle) Position() vector.Vector3 { return p.Bounds.Centre() }

// Radius returns the particle's bounding radius (extents).
func (p *Particle) Radius() vector.Vector3 { return p.Bounds.Extents() }

// SetPosition moves the particle in place, preserving its radius. Callers
// mutate particles between Octree.Update calls this way; the tree only
// re-settles them once Update is next called.
func (p *Particle) SetPosition(centre vector.Vector3) {
	b, err := box.New(centre, p.Bounds.Extents())
	if err == nil {
		p.Bounds = b
	}
}

// Same reports whether p and other are the same particle by identity, not
// by value. The library never compares particles structurally.
func Same(p, other *Particle) bool {
	return p == other
}
