// Package octree implements the dynamic loose octree: Node, the recursive
// tree node, and Octree, the façade that owns the root and its parameters.
package octree

import (
	"github.com/cpt-codes/gravity/body"
	"github.com/cpt-codes/gravity/box"
	"github.com/cpt-codes/gravity/orthant"
	"github.com/cpt-codes/gravity/pool"
	"github.com/cpt-codes/gravity/vector"
)

// Node is a recursive loose octree node. It is either a leaf (children is
// the zero array) or a branch with exactly 8 children.
type Node struct {
	bounds    box.BoundingBox
	particles []*body.Particle
	children  [8]*Node
}

// NewNode returns a leaf Node with the given bounds.
func NewNode(bounds box.BoundingBox) *Node {
	return &Node{bounds: bounds}
}

// Bounds returns the node's (tight, undilated) bounding box.
func (n *Node) Bounds() box.BoundingBox { return n.bounds }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.children[0] == nil }

// Particles returns the particles held directly at this node. Callers must
// not mutate the returned slice.
func (n *Node) Particles() []*body.Particle { return n.particles }

// Child returns the k'th child, or nil if this node is a leaf.
func (n *Node) Child(k int) *Node { return n.children[k] }

func atOrBelowMinWidth(extents box.BoundingBox, minWidth float64) bool {
	return extents.Extents().AnyLessEqual(minWidth / 2)
}

// Insert attempts to accept particle somewhere in this subtree, branching
// this node if necessary. Returns whether it was accepted.
func (n *Node) Insert(particle *body.Particle, looseness, minWidth float64, capacity int) bool {
	if particle == nil || !n.bounds.Contains(particle.Bounds, looseness) {
		return false
	}

	if n.IsLeaf() {
		if len(n.particles) < capacity || atOrBelowMinWidth(n.bounds, minWidth) {
			n.particles = append(n.particles, particle)
			return true
		}
		n.branch(looseness, minWidth, capacity)
	}

	idx := n.bounds.OrthantOf(particle.Position()).Index()
	if n.children[idx].Insert(particle, looseness, minWidth, capacity) {
		return true
	}

	n.particles = append(n.particles, particle)
	return true
}

// branch allocates 8 child leaves and redistributes this node's particles
// into their nearest child, in list order; stragglers that the nearest
// child does not accept remain here.
func (n *Node) branch(looseness, minWidth float64, capacity int) {
	for k := 0; k < 8; k++ {
		n.children[k] = NewNode(n.bounds.ShrinkTo(orthant.FromIndex(k)))
	}

	kept := n.particles[:0:0]
	for _, p := range n.particles {
		idx := n.bounds.OrthantOf(p.Position()).Index()
		if n.children[idx].Insert(p, looseness, minWidth, capacity) {
			continue
		}
		kept = append(kept, p)
	}
	n.particles = kept
}

// Remove erases particle from this node or any descendant by identity.
// Merges the nearest ancestor that becomes eligible on success.
func (n *Node) Remove(particle *body.Particle, capacity int) bool {
	for i, p := range n.particles {
		if body.Same(p, particle) {
			n.particles = append(n.particles[:i], n.particles[i+1:]...)
			return true
		}
	}

	if n.IsLeaf() {
		return false
	}

	idx := n.bounds.OrthantOf(particle.Position()).Index()
	if !n.children[idx].Remove(particle, capacity) {
		return false
	}

	if n.shouldMerge(capacity) {
		n.merge()
	}
	return true
}

// totalParticles recursively sums every particle held anywhere beneath n,
// including n itself.
func (n *Node) totalParticles() int {
	total := len(n.particles)
	if !n.IsLeaf() {
		for _, c := range n.children {
			total += c.totalParticles()
		}
	}
	return total
}

func (n *Node) shouldMerge(capacity int) bool {
	return !n.IsLeaf() && n.totalParticles() <= capacity
}

// merge splices every child's direct particles into this node and discards
// the children. Legal only when shouldMerge holds, which guarantees every
// descendant beyond the immediate children is already empty.
func (n *Node) merge() {
	for _, c := range n.children {
		n.particles = append(n.particles, c.particles...)
	}
	n.children = [8]*Node{}
}

// IsEmpty reports whether no particle exists anywhere in this subtree.
func (n *Node) IsEmpty() bool {
	if len(n.particles) > 0 {
		return false
	}
	if n.IsLeaf() {
		return true
	}
	for _, c := range n.children {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Shrink promotes a single populated child to be this node's new state,
// when this node is a branch with no direct particles and exactly one non-empty child
// subtree. Returns whether the shrink happened.
func (n *Node) Shrink() bool {
	if n.IsLeaf() || len(n.particles) > 0 {
		return false
	}

	var only *Node
	count := 0
	for _, c := range n.children {
		if !c.IsEmpty() {
			count++
			only = c
		}
	}
	if count != 1 {
		return false
	}

	n.bounds = only.bounds
	n.particles = only.particles
	n.children = only.children
	return true
}

// Grow expands this node's bounds by one octree level toward point, so that
// the node's previous state becomes exactly one octant of the new bounds.
func (n *Node) Grow(point vector.Vector3, looseness, minWidth float64, capacity int) {
	o := n.bounds.OrthantOf(point).Invert()
	newBounds := n.bounds.ExpandFrom(o)

	if n.IsLeaf() {
		n.bounds = newBounds
		return
	}

	oldBounds, oldParticles, oldChildren := n.bounds, n.particles, n.children

	var newChildren [8]*Node
	for k := 0; k < 8; k++ {
		newChildren[k] = NewNode(newBounds.ShrinkTo(orthant.FromIndex(k)))
	}
	newChildren[o.Index()] = &Node{bounds: oldBounds, particles: oldParticles, children: oldChildren}

	n.bounds = newBounds
	n.particles = nil
	n.children = newChildren
}

// Update re-settles particles whose loose containment has broken since the
// last update. Each node tries to re-home particles its children could not
// place anywhere in their own subtrees (tight fit only, to avoid a particle
// ping-ponging between siblings); particles it cannot place itself, plus
// any it evicted from its own direct list, bubble up to be tried by the
// parent. If tp is non-nil and this node is a branch, the 8 disjoint child
// subtrees are updated concurrently before this node's own (serial)
// re-homing pass.
func (n *Node) Update(looseness, minWidth float64, capacity int, tp *pool.ThreadPool) []*body.Particle {
	var fromChildren []*body.Particle

	if !n.IsLeaf() {
		results := make([][]*body.Particle, 8)
		if tp != nil {
			_ = tp.ForEach(8, func(i int) error {
				results[i] = n.children[i].Update(looseness, minWidth, capacity, nil)
				return nil
			})
		} else {
			for i, c := range n.children {
				results[i] = c.Update(looseness, minWidth, capacity, nil)
			}
		}
		for _, r := range results {
			fromChildren = append(fromChildren, r...)
		}
	}

	kept := n.particles[:0:0]
	var ownEvicted []*body.Particle
	for _, p := range n.particles {
		if p == nil || !n.bounds.Contains(p.Bounds, looseness) {
			ownEvicted = append(ownEvicted, p)
		} else {
			kept = append(kept, p)
		}
	}
	n.particles = kept

	var stillEvicted []*body.Particle
	for _, p := range fromChildren {
		if !n.Insert(p, 1.0, minWidth, capacity) {
			stillEvicted = append(stillEvicted, p)
		}
	}

	if n.shouldMerge(capacity) {
		n.merge()
	}

	return append(stillEvicted, ownEvicted...)
}

// IsColliding reports whether bounds overlaps any particle's bounds
// anywhere in this subtree.
func (n *Node) IsColliding(bounds box.BoundingBox, looseness float64) bool {
	if !n.bounds.Intersects(bounds, looseness) {
		return false
	}
	for _, p := range n.particles {
		if p.Bounds.Intersects(bounds, 1.0) {
			return true
		}
	}
	if !n.IsLeaf() {
		for _, c := range n.children {
			if c.IsColliding(bounds, looseness) {
				return true
			}
		}
	}
	return false
}

// Colliding appends every particle in this subtree whose bounds overlaps
// bounds to out, returning the extended slice.
func (n *Node) Colliding(bounds box.BoundingBox, looseness float64, out []*body.Particle) []*body.Particle {
	if !n.bounds.Intersects(bounds, looseness) {
		return out
	}
	for _, p := range n.particles {
		if p.Bounds.Intersects(bounds, 1.0) {
			out = append(out, p)
		}
	}
	if !n.IsLeaf() {
		for _, c := range n.children {
			out = c.Colliding(bounds, looseness, out)
		}
	}
	return out
}

// AllParticles appends every particle anywhere in this subtree to out.
func (n *Node) AllParticles(out []*body.Particle) []*body.Particle {
	out = append(out, n.particles...)
	if !n.IsLeaf() {
		for _, c := range n.children {
			out = c.AllParticles(out)
		}
	}
	return out
}
