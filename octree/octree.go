package octree

import (
	"fmt"

	"github.com/cpt-codes/gravity/body"
	"github.com/cpt-codes/gravity/box"
	"github.com/cpt-codes/gravity/pool"
)

// ErrInvalidArgument is returned by New when given an invalid parameter.
var ErrInvalidArgument = fmt.Errorf("octree: invalid argument")

// Octree owns the root Node and enforces the looseness/min-width/capacity/
// growth-limit parameters across insert, remove and update.
type Octree struct {
	root *Node

	looseness   float64
	minWidth    float64
	capacity    int
	growthLimit int
	shrinkLimit int

	resized int // positive: net growths; negative: net shrinks
}

// New constructs an Octree rooted at bounds with the given parameters.
// looseness must be >= 1, minWidth >= 0, capacity >= 1, growthLimit >= 0
// and shrinkLimit >= 0; any violation returns ErrInvalidArgument.
func New(bounds box.BoundingBox, looseness, minWidth float64, capacity, growthLimit, shrinkLimit int) (*Octree, error) {
	switch {
	case looseness < 1:
		return nil, fmt.Errorf("%w: looseness = %g, must be >= 1", ErrInvalidArgument, looseness)
	case minWidth < 0:
		return nil, fmt.Errorf("%w: minWidth = %g, must be >= 0", ErrInvalidArgument, minWidth)
	case capacity < 1:
		return nil, fmt.Errorf("%w: capacity = %d, must be >= 1", ErrInvalidArgument, capacity)
	case growthLimit < 0:
		return nil, fmt.Errorf("%w: growthLimit = %d, must be >= 0", ErrInvalidArgument, growthLimit)
	case shrinkLimit < 0:
		return nil, fmt.Errorf("%w: shrinkLimit = %d, must be >= 0", ErrInvalidArgument, shrinkLimit)
	}

	return &Octree{
		root:        NewNode(bounds),
		looseness:   looseness,
		minWidth:    minWidth,
		capacity:    capacity,
		growthLimit: growthLimit,
		shrinkLimit: shrinkLimit,
	}, nil
}

// Root returns the tree's root node.
func (t *Octree) Root() *Node { return t.root }

// Looseness returns the configured looseness factor L.
func (t *Octree) Looseness() float64 { return t.looseness }

// Resized returns the net number of root-level grows (positive) or shrinks
// (negative) relative to the tree's original bounds.
func (t *Octree) Resized() int { return t.resized }

// Insert attempts to place particle in the tree, growing the root toward
// the particle (up to growthLimit times) if it doesn't fit. If it still
// doesn't fit, Insert tries to shrink the root back toward its prior
// topology and returns false. Shrink only ever collapses a branch with a
// single populated child, so a root that grew without ever branching (the
// common case when the rejected particle is far outside the original
// bounds) stays at its grown size; resized is only decremented for shrinks
// that actually happen. This matches Node.Grow/Node.Shrink in the original
// implementation, which has the same limitation.
func (t *Octree) Insert(particle *body.Particle) bool {
	if particle == nil {
		return false
	}

	if t.root.Insert(particle, t.looseness, t.minWidth, t.capacity) {
		return true
	}

	grown := 0
	for t.resized < t.growthLimit {
		t.root.Grow(particle.Position(), t.looseness, t.minWidth, t.capacity)
		t.resized++
		grown++

		if t.root.Insert(particle, t.looseness, t.minWidth, t.capacity) {
			return true
		}
	}

	for i := 0; i < grown && t.resized > -t.shrinkLimit; i++ {
		if !t.root.Shrink() {
			break
		}
		t.resized--
	}

	return false
}

// Remove erases particle from the tree by identity, opportunistically
// shrinking the root afterward.
func (t *Octree) Remove(particle *body.Particle) bool {
	if particle == nil {
		return false
	}

	if !t.root.Remove(particle, t.capacity) {
		return false
	}

	for t.resized > -t.shrinkLimit && t.root.Shrink() {
		t.resized--
	}

	return true
}

// Update re-settles particles whose loose containment has broken, trying
// to grow the root and re-insert any that overflowed the whole tree.
// Whatever still doesn't fit after that is returned to the caller.
func (t *Octree) Update(tp *pool.ThreadPool) []*body.Particle {
	overflow := t.root.Update(t.looseness, t.minWidth, t.capacity, tp)

	var stillOverflowing []*body.Particle
	for _, p := range overflow {
		if !t.Insert(p) {
			stillOverflowing = append(stillOverflowing, p)
		}
	}
	return stillOverflowing
}

// IsColliding reports whether bounds overlaps any particle in the tree.
func (t *Octree) IsColliding(bounds box.BoundingBox) bool {
	return t.root.IsColliding(bounds, t.looseness)
}

// Colliding returns every particle whose bounds overlaps bounds.
func (t *Octree) Colliding(bounds box.BoundingBox) []*body.Particle {
	return t.root.Colliding(bounds, t.looseness, nil)
}

// Particles returns every particle currently held in the tree.
func (t *Octree) Particles() []*body.Particle {
	return t.root.AllParticles(nil)
}

// Empty reports whether the tree holds no particles.
func (t *Octree) Empty() bool { return t.root.IsEmpty() }
