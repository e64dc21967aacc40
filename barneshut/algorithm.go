// Package barneshut ties the octree, the mass calculator and a pluggable
// force law together into the multipole-accepting acceleration traversal.
package barneshut

import (
	"fmt"
	"log"
	"sync"

	"github.com/cpt-codes/gravity/body"
	"github.com/cpt-codes/gravity/force"
	"github.com/cpt-codes/gravity/mass"
	"github.com/cpt-codes/gravity/octree"
	"github.com/cpt-codes/gravity/pool"
	"github.com/cpt-codes/gravity/vector"
)

// ErrInvalidArgument is returned by SetThreshold when given a negative
// threshold.
var ErrInvalidArgument = fmt.Errorf("barneshut: invalid argument")

// Algorithm orchestrates an Octree, a force.Law and an internal mass
// Calculator to compute Barnes-Hut-approximated gravitational
// accelerations. All public methods are safe for concurrent use: reads
// (Acceleration, Force, Threshold) take a shared lock, mutations
// (SetThreshold, SetTree, SetField, Update) take it exclusively.
type Algorithm struct {
	mu sync.RWMutex

	tree      *octree.Octree
	field     force.Law
	threshold float64
	calc      *mass.Calculator

	logger *log.Logger
}

// New returns an Algorithm with no tree or field set and threshold 1.0.
// Acceleration returns the zero vector until both are set.
func New() *Algorithm {
	return &Algorithm{threshold: 1.0, calc: mass.New()}
}

// SetLogger installs a logger for coarse diagnostics (tree swaps, cache
// clears). A nil logger discards output.
func (a *Algorithm) SetLogger(logger *log.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = logger
}

func (a *Algorithm) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// SetTree installs tree as the algorithm's octree, clearing the mass
// cache since old node identities may be recycled or dangling.
func (a *Algorithm) SetTree(tree *octree.Octree) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tree = tree
	a.calc.ClearCache()
	a.logf("barneshut: tree replaced, mass cache cleared")
}

// Tree returns the currently installed octree, or nil if unset.
func (a *Algorithm) Tree() *octree.Octree {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tree
}

// SetField installs field as the algorithm's force law.
func (a *Algorithm) SetField(field force.Law) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.field = field
}

// Threshold returns the current opening-angle threshold theta.
func (a *Algorithm) Threshold() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.threshold
}

// SetThreshold sets theta. theta == 0 forces exact direct summation;
// negative values are rejected with ErrInvalidArgument.
func (a *Algorithm) SetThreshold(theta float64) error {
	if theta < 0 {
		return fmt.Errorf("%w: threshold = %g, must be >= 0", ErrInvalidArgument, theta)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.threshold = theta
	return nil
}

// Update re-settles the installed tree's particles (via Octree.Update) and
// clears the mass cache, since the tree's structure may have changed.
func (a *Algorithm) Update(tp *pool.ThreadPool) []*body.Particle {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tree == nil {
		return nil
	}
	overflow := a.tree.Update(tp)
	a.calc.ClearCache()
	if len(overflow) > 0 {
		a.logf("barneshut: %d particle(s) dropped after exhausting growth limit", len(overflow))
	}
	return overflow
}

// Acceleration returns the Barnes-Hut-approximated acceleration on query
// due to every other particle in the tree. Returns the zero vector if the
// tree or field is unset, or if query is nil.
func (a *Algorithm) Acceleration(query *body.Particle) vector.Vector3 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if query == nil || a.tree == nil || a.field == nil {
		return vector.Zero
	}

	var acc vector.Vector3
	a.accumulate(a.tree.Root(), query, &acc)
	return acc
}

// Force is an alias for Acceleration scaled by query's mass, i.e. the net
// force rather than the acceleration.
func (a *Algorithm) Force(query *body.Particle) vector.Vector3 {
	if query == nil {
		return vector.Zero
	}
	return a.Acceleration(query).Scale(query.Mass)
}

// accumulate walks node, accepting it as a single multipole when it's far
// enough from query, otherwise summing its direct particles and recursing
// into its children. Must be called with a.mu held (for read).
func (a *Algorithm) accumulate(node *octree.Node, query *body.Particle, acc *vector.Vector3) {
	bounds := node.Bounds()
	dist := query.Position().Sub(bounds.Centre()).Norm()

	if bounds.Extents().AnyLessThan(a.threshold * dist) {
		pm := a.calc.Calculate(node)
		if pm.Mass == 0 {
			return
		}
		a.field.AddAcceleration(force.Source{Mass: pm.Mass, Position: pm.Displacement}, query.Position(), acc)
		return
	}

	for _, p := range node.Particles() {
		if body.Same(p, query) {
			continue
		}
		a.field.AddAcceleration(force.Source{Mass: p.Mass, Position: p.Position()}, query.Position(), acc)
	}

	if !node.IsLeaf() {
		for k := 0; k < 8; k++ {
			a.accumulate(node.Child(k), query, acc)
		}
	}
}
