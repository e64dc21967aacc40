// Package mass implements the concurrent, memoising centre-of-mass
// calculator the Barnes-Hut traversal consults for each subtree.
package mass

import (
	"sync"

	"github.com/cpt-codes/gravity/octree"
	"github.com/cpt-codes/gravity/vector"
)

// PointMass is a subtree collapsed to a single point: its total mass and
// the mass-weighted centroid of everything beneath it.
type PointMass struct {
	Mass         float64
	Displacement vector.Vector3
}

type entry struct {
	mu     sync.Mutex
	cond   *sync.Cond
	cached bool
	result PointMass
}

func newEntry() *entry {
	e := &entry{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Calculator is a thread-safe memoising cache of PointMass results keyed by
// Node identity (the *octree.Node pointer, not structural equality). At
// most one goroutine ever runs the recursive computation for a given node;
// every other caller, whether already cached or racing to fill the same
// entry, waits for that computation and returns a copy of its result.
type Calculator struct {
	mu      sync.RWMutex
	entries map[*octree.Node]*entry
}

// New returns an empty Calculator.
func New() *Calculator {
	return &Calculator{entries: make(map[*octree.Node]*entry)}
}

// Calculate returns the total mass and centre of mass of node's subtree,
// computing and caching it if necessary.
func (c *Calculator) Calculate(node *octree.Node) PointMass {
	e, won := c.entryFor(node)
	if won {
		e.mu.Lock()
		result := c.compute(node)
		e.result = result
		e.cached = true
		e.mu.Unlock()
		e.cond.Broadcast()
		return result
	}

	e.mu.Lock()
	for !e.cached {
		e.cond.Wait()
	}
	result := e.result
	e.mu.Unlock()
	return result
}

// entryFor looks up or creates the cache entry for node. won is true for
// the single caller that created a fresh entry and is therefore
// responsible for computing it.
func (c *Calculator) entryFor(node *octree.Node) (e *entry, won bool) {
	c.mu.RLock()
	e, ok := c.entries[node]
	c.mu.RUnlock()
	if ok {
		return e, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok = c.entries[node]; ok {
		return e, false
	}
	e = newEntry()
	c.entries[node] = e
	return e, true
}

// compute recursively combines node's direct particles and its children's
// cached PointMass results. Must only be called by the entry's winner.
func (c *Calculator) compute(node *octree.Node) PointMass {
	var mass float64
	var weighted vector.Vector3

	for _, p := range node.Particles() {
		mass += p.Mass
		weighted = weighted.Add(p.Position().Scale(p.Mass))
	}

	if !node.IsLeaf() {
		for k := 0; k < 8; k++ {
			child := c.Calculate(node.Child(k))
			mass += child.Mass
			weighted = weighted.Add(child.Displacement.Scale(child.Mass))
		}
	}

	if mass == 0 {
		return PointMass{}
	}
	return PointMass{Mass: mass, Displacement: weighted.Div(mass)}
}

// ClearCache drops every cached entry.
func (c *Calculator) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[*octree.Node]*entry)
}

// ClearNode drops the one entry keyed by node's identity, leaving its
// descendants' cached entries (if any) untouched.
func (c *Calculator) ClearNode(node *octree.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, node)
}
