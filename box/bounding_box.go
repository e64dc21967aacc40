// Package box implements axis-aligned bounding boxes used by the loose
// octree and its collision/containment queries.
package box

import (
	"fmt"

	"github.com/cpt-codes/gravity/orthant"
	"github.com/cpt-codes/gravity/vector"
)

// BoundingBox is an axis-aligned box described by a centre and half-width
// extents. Extents must be strictly positive on every axis.
type BoundingBox struct {
	centre  vector.Vector3
	extents vector.Vector3
}

// New constructs a BoundingBox at centre with the given extents (half
// widths). It returns an error if any extent is not strictly positive.
func New(centre, extents vector.Vector3) (BoundingBox, error) {
	for i := 0; i < 3; i++ {
		if extents[i] <= 0 {
			return BoundingBox{}, fmt.Errorf("box: extents[%d] = %g, must be > 0", i, extents[i])
		}
	}
	return BoundingBox{centre: centre, extents: extents}, nil
}

// Centre returns the box's centre.
func (b BoundingBox) Centre() vector.Vector3 { return b.centre }

// Extents returns the box's half-widths.
func (b BoundingBox) Extents() vector.Vector3 { return b.extents }

func looseExtents(extents vector.Vector3, looseness float64) vector.Vector3 {
	if looseness <= 1 {
		return extents
	}
	return extents.Scale(looseness)
}

// Intersects reports whether this box, dilated by looseness, overlaps other
// on every axis.
func (b BoundingBox) Intersects(other BoundingBox, looseness float64) bool {
	e := looseExtents(b.extents, looseness)
	for i := 0; i < 3; i++ {
		if b.centre[i]+e[i] < other.centre[i]-other.extents[i] ||
			b.centre[i]-e[i] > other.centre[i]+other.extents[i] {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether point lies within this box, dilated by
// looseness, inclusive of the boundary.
func (b BoundingBox) ContainsPoint(point vector.Vector3, looseness float64) bool {
	e := looseExtents(b.extents, looseness)
	for i := 0; i < 3; i++ {
		if point[i] < b.centre[i]-e[i] || point[i] > b.centre[i]+e[i] {
			return false
		}
	}
	return true
}

// Contains reports whether other is wholly inside this box, dilated by
// looseness.
func (b BoundingBox) Contains(other BoundingBox, looseness float64) bool {
	e := looseExtents(b.extents, looseness)
	for i := 0; i < 3; i++ {
		if other.centre[i]-other.extents[i] < b.centre[i]-e[i] ||
			other.centre[i]+other.extents[i] > b.centre[i]+e[i] {
			return false
		}
	}
	return true
}

// OrthantOf returns the Orthant of this box that bounds point. An axis is
// aligned iff point[axis] >= centre[axis]; boundary points belong to the
// positive side.
func (b BoundingBox) OrthantOf(point vector.Vector3) orthant.Orthant {
	o := orthant.New()
	for axis := 0; axis < 3; axis++ {
		o = o.WithAxis(axis, point[axis] >= b.centre[axis])
	}
	return o
}

// ShrinkTo returns the octant sub-box of this box identified by o: extents
// are halved and the centre is offset by +/- half-extents per o's sign.
func (b BoundingBox) ShrinkTo(o orthant.Orthant) BoundingBox {
	halfExtents := b.extents.Scale(0.5)
	centre := b.centre
	for axis := 0; axis < 3; axis++ {
		if o.Aligned(axis) {
			centre[axis] += halfExtents[axis]
		} else {
			centre[axis] -= halfExtents[axis]
		}
	}
	return BoundingBox{centre: centre, extents: halfExtents}
}

// ExpandFrom is the inverse of ShrinkTo: it returns the super-box that
// contains this box as the given orthant. Extents double, and the centre
// moves opposite to o's sign bits.
func (b BoundingBox) ExpandFrom(o orthant.Orthant) BoundingBox {
	extents := b.extents.Scale(2)
	centre := b.centre
	for axis := 0; axis < 3; axis++ {
		if o.Aligned(axis) {
			centre[axis] -= b.extents[axis]
		} else {
			centre[axis] += b.extents[axis]
		}
	}
	return BoundingBox{centre: centre, extents: extents}
}
