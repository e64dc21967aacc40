// Command gravitydemo loads a particle catalogue and reports the
// Barnes-Hut-approximated gravitational acceleration on each particle.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/phil-mansfield/table"

	"github.com/cpt-codes/gravity/barneshut"
	"github.com/cpt-codes/gravity/body"
	"github.com/cpt-codes/gravity/box"
	"github.com/cpt-codes/gravity/force"
	"github.com/cpt-codes/gravity/octree"
	"github.com/cpt-codes/gravity/pool"
	"github.com/cpt-codes/gravity/vector"
)

func main() {
	var (
		catalogue string
		theta     float64
		g         float64
		looseness float64
		minWidth  float64
		capacity  int
		threads   int
	)

	flag.StringVar(&catalogue, "catalogue", "", "Path to a whitespace-delimited table of id, mass, x, y, z columns.")
	flag.Float64Var(&theta, "theta", 0.5, "Barnes-Hut opening-angle threshold.")
	flag.Float64Var(&g, "G", 1.0, "Gravitational constant used by the Newtonian force law.")
	flag.Float64Var(&looseness, "looseness", 1.25, "Octree looseness factor.")
	flag.Float64Var(&minWidth, "min-width", 0, "Octree minimum node width before capacity stops being enforced.")
	flag.IntVar(&capacity, "capacity", 8, "Maximum particles per leaf before it branches.")
	flag.IntVar(&threads, "threads", 0, "Worker count for the thread pool; 0 uses the number of logical CPUs.")

	flag.Parse()

	if catalogue == "" {
		log.Fatal("gravitydemo: -catalogue is required")
	}

	particles, err := loadCatalogue(catalogue)
	if err != nil {
		log.Fatalf("gravitydemo: %v", err)
	}

	tree, err := buildTree(particles, looseness, minWidth, capacity)
	if err != nil {
		log.Fatalf("gravitydemo: %v", err)
	}

	tp, err := newPool(threads)
	if err != nil {
		log.Fatalf("gravitydemo: %v", err)
	}
	defer tp.Close()

	algo := barneshut.New()
	algo.SetLogger(log.New(os.Stderr, "gravitydemo: ", log.LstdFlags))
	algo.SetTree(tree)
	algo.SetField(force.Newtonian{G: g})
	if err := algo.SetThreshold(theta); err != nil {
		log.Fatalf("gravitydemo: %v", err)
	}

	if overflow := algo.Update(tp); len(overflow) > 0 {
		log.Printf("gravitydemo: %d particle(s) fell outside the tree's growth limit", len(overflow))
	}

	accelerations := make([]vector.Vector3, len(particles))
	_ = tp.ForEach(len(particles), func(i int) error {
		accelerations[i] = algo.Acceleration(particles[i])
		return nil
	})

	for i, p := range particles {
		a := accelerations[i]
		fmt.Printf("%d\t%.6g\t%.6g\t%.6g\t%.6g\n", i, p.Position()[0], p.Position()[1], p.Position()[2], a.Norm())
	}
}

// loadCatalogue reads id, mass, x, y, z columns from file and constructs a
// Particle for every row. Rows are given a small fixed radius since the
// catalogue format carries no size information.
func loadCatalogue(file string) ([]*body.Particle, error) {
	const (
		massCol = 1
		xCol    = 2
		yCol    = 3
		zCol    = 4
		radius  = 1e-3
	)

	cols, err := table.ReadTable(file, []int{massCol, xCol, yCol, zCol}, nil)
	if err != nil {
		return nil, fmt.Errorf("reading catalogue: %w", err)
	}
	if len(cols) != 4 {
		return nil, fmt.Errorf("reading catalogue: expected 4 columns, got %d", len(cols))
	}

	masses, xs, ys, zs := cols[0], cols[1], cols[2], cols[3]
	particles := make([]*body.Particle, len(masses))
	for i := range masses {
		centre := vector.Vector3{xs[i], ys[i], zs[i]}
		p, err := body.New(masses[i], centre, vector.Vector3{radius, radius, radius})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		particles[i] = p
	}
	return particles, nil
}

// buildTree computes a bounding box enclosing every particle and inserts
// them all into a fresh Octree.
func buildTree(particles []*body.Particle, looseness, minWidth float64, capacity int) (*octree.Octree, error) {
	if len(particles) == 0 {
		return nil, fmt.Errorf("building tree: no particles to insert")
	}

	min, max := particles[0].Position(), particles[0].Position()
	for _, p := range particles {
		pos := p.Position()
		for axis := 0; axis < 3; axis++ {
			if pos[axis] < min[axis] {
				min[axis] = pos[axis]
			}
			if pos[axis] > max[axis] {
				max[axis] = pos[axis]
			}
		}
	}

	centre := min.Add(max).Scale(0.5)
	extents := max.Sub(min).Scale(0.5 * looseness)
	for axis := 0; axis < 3; axis++ {
		if extents[axis] <= 0 {
			extents[axis] = 1
		}
	}

	bounds, err := box.New(centre, extents)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}

	tree, err := octree.New(bounds, looseness, minWidth, capacity, 8, 8)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}

	for i, p := range particles {
		if !tree.Insert(p) {
			return nil, fmt.Errorf("building tree: particle %d did not fit within the growth limit", i)
		}
	}
	return tree, nil
}

func newPool(threads int) (*pool.ThreadPool, error) {
	if threads <= 0 {
		return pool.NewDefault()
	}
	return pool.New(threads)
}
