/*package wingworks simulates a two dimensional rarefied gas flowing past an
airfoil and measures the force the gas exerts on it.

Each World.Step resolves particle-particle collisions with a uniform grid,
particle-foil collisions with the separating axis theorem, advances every
particle by one unit of time, and then recycles particles that have left
the world. The force on the foil is smoothed over a sliding window of
steps.
*/
package wingworks

import (
	"fmt"
	"log"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/wingworks/geom"
)

const (
	// densityFactor is the number of particles per particle diameter
	// squared of free area.
	densityFactor = 3.0
	// minFreeFraction is the smallest fraction of the world which may be
	// left over after removing the foil's bounding box.
	minFreeFraction = 0.05
)

// WorldConfig describes a World. Foil, Width, and Height are required.
type WorldConfig struct {
	Foil          *AirFoil
	Width, Height float64

	// Speeds are in world units per step and should be well below one
	// particle diameter.
	MaxParticleSpeed float64
	WindSpeed        float64

	// Window is the number of steps forces are averaged over. Defaults to
	// DefaultWindow.
	Window int
	// Workers is the number of goroutines each step is split across.
	// Defaults to three per CPU.
	Workers int
	// Seed seeds the random placement of particles.
	Seed uint64
	// IDs issues particle IDs. Defaults to a package wide source.
	IDs *IDSource
	Log bool
}

// World is a box of gas particles with one airfoil inside it.
type World struct {
	foil          *AirFoil
	width, height float64

	air      []*Particle
	cells    *WorldCells
	recycler *Recycler
	collider *AirFoilCollision

	netForce   *SlidingWindowVector
	edgeForces []*SlidingWindowVector

	steps int
	log   bool

	workers    int
	workspaces []workspace
}

// workspace is the scratch space owned by a single worker.
type workspace struct {
	net      geom.Vec
	edges    []geom.Vec
	momentum []float64
	visit    func(i, j int)
}

// NewWorld fills a world with particles and returns it.
func NewWorld(config WorldConfig) (*World, error) {
	if err := config.check(); err != nil {
		return nil, err
	}

	freeArea := config.Width*config.Height - config.Foil.Shape.BBoxArea()
	if freeArea <= 0 || freeArea < minFreeFraction*config.Width*config.Height {
		return nil, fmt.Errorf(
			"The foil's bounding box leaves a free area of %g in a "+
				"%g x %g world.", freeArea, config.Width, config.Height,
		)
	}

	diameter := 2 * ParticleRadius
	count := int(densityFactor * freeArea / (diameter * diameter))
	if count < 1 {
		return nil, fmt.Errorf(
			"A %g x %g world is too small to hold any particles.",
			config.Width, config.Height,
		)
	}

	w := &World{
		foil: config.Foil, width: config.Width, height: config.Height,
		log: config.Log,
	}

	ids := config.IDs
	if ids == nil {
		ids = defaultIDs
	}
	w.air = make([]*Particle, count)
	for i := range w.air {
		w.air[i] = NewParticleFrom(ids, geom.Vec{}, geom.Vec{})
	}

	w.recycler = NewRecycler(
		w.width, w.height, w.foil,
		config.MaxParticleSpeed, config.WindSpeed, config.Seed,
	)
	w.recycler.Randomize(w.air)
	w.collider = NewAirFoilCollision(w.foil)
	w.cells = NewWorldCells(w.width, w.height, diameter)

	window := config.Window
	if window <= 0 {
		window = DefaultWindow
	}
	w.netForce = NewSlidingWindowVector(window)
	w.edgeForces = make([]*SlidingWindowVector, len(w.foil.Shape.Edges))
	for i := range w.edgeForces {
		w.edgeForces[i] = NewSlidingWindowVector(window)
	}

	w.workers = config.Workers
	if w.workers <= 0 {
		w.workers = 3 * runtime.NumCPU()
	}
	w.workspaces = make([]workspace, w.workers)
	for i := range w.workspaces {
		w.workspaces[i].edges = make([]geom.Vec, len(w.edgeForces))
	}
	w.initVisitors()

	if w.log {
		log.Printf(
			"Particles: %d. Grid: %d x %d. Number of workers: %d",
			count, w.cells.NumH(), w.cells.NumV(), w.workers,
		)
	}

	return w, nil
}

func (config *WorldConfig) check() error {
	switch {
	case config.Foil == nil:
		return fmt.Errorf("No airfoil was given.")
	case config.Width <= 0 || config.Height <= 0:
		return fmt.Errorf(
			"World dimensions must be positive, but are %g x %g.",
			config.Width, config.Height,
		)
	case config.MaxParticleSpeed < 0:
		return fmt.Errorf(
			"MaxParticleSpeed must be non-negative, but is %g.",
			config.MaxParticleSpeed,
		)
	case config.WindSpeed < 0:
		return fmt.Errorf(
			"WindSpeed must be non-negative, but is %g.", config.WindSpeed,
		)
	}
	return nil
}

func (w *World) initVisitors() {
	for id := range w.workspaces {
		w.workspaces[id].visit = func(i, j int) {
			p, q := w.air[i], w.air[j]
			if p.IsColliding(q) {
				p.Collide(q)
			}
		}
	}
}

// Log turns progress logging on or off.
func (w *World) Log(flag bool) { w.log = flag }

// Step advances the world by one unit of time.
func (w *World) Step() {
	w.cells.Update(w.air)
	w.parallel(w.chanCollideParticles)
	w.collideWithFoil()
	w.parallel(w.chanIntegrate)
	recycled := w.recycler.Recycle(w.air)
	w.steps++

	if w.log {
		log.Printf("Step %d: recycled %d particles", w.steps, recycled)
	}
}

// parallel runs f on every worker and waits for all of them to finish.
func (w *World) parallel(f func(id int, out chan<- int)) {
	out := make(chan int, w.workers)
	for id := 0; id < w.workers-1; id++ {
		go f(id, out)
	}
	f(w.workers-1, out)

	for i := 0; i < w.workers; i++ {
		<-out
	}
}

// chunk returns the part of [0, n) that worker id is responsible for.
func (w *World) chunk(id, n int) (lo, hi int) {
	return id * n / w.workers, (id + 1) * n / w.workers
}

func (w *World) chanCollideParticles(id int, out chan<- int) {
	visit := w.workspaces[id].visit
	yLo, yHi := w.chunk(id, w.cells.NumV())
	for y := yLo; y < yHi; y++ {
		for x := 0; x < w.cells.NumH(); x++ {
			w.cells.VisitPairs(x, y, visit)
		}
	}
	out <- id
}

// collideWithFoil bounces particles off the foil and records the forces
// they exert on it.
func (w *World) collideWithFoil() {
	w.parallel(w.chanCollideFoil)

	// Merge in worker order so that sums don't depend on scheduling.
	net := geom.Vec{}
	edges := make([]geom.Vec, len(w.edgeForces))
	for id := range w.workspaces {
		ws := &w.workspaces[id]
		net = net.Add(ws.net)
		for j := range edges {
			edges[j] = edges[j].Add(ws.edges[j])
		}
	}

	w.netForce.Add(net)
	for j := range edges {
		w.edgeForces[j].Add(edges[j])
	}
}

func (w *World) chanCollideFoil(id int, out chan<- int) {
	ws := &w.workspaces[id]
	ws.net = geom.Vec{}
	for j := range ws.edges {
		ws.edges[j] = geom.Vec{}
	}

	lo, hi := w.chunk(id, len(w.air))
	for _, p := range w.air[lo:hi] {
		edge, force, ok := w.collider.Collide(p)
		if !ok {
			continue
		}
		ws.net = ws.net.Add(force)
		if edge >= 0 {
			ws.edges[edge] = ws.edges[edge].Add(force)
		}
	}
	out <- id
}

func (w *World) chanIntegrate(id int, out chan<- int) {
	lo, hi := w.chunk(id, len(w.air))
	for _, p := range w.air[lo:hi] {
		p.Step()
	}
	out <- id
}

// Particles returns the world's particles. Callers must not modify them.
func (w *World) Particles() []*Particle { return w.air }

// Steps returns the number of times Step has been called.
func (w *World) Steps() int { return w.steps }

// Workers returns the number of goroutines used by each step.
func (w *World) Workers() int { return w.workers }

// Width returns the world's extent along x.
func (w *World) Width() float64 { return w.width }

// Height returns the world's extent along y.
func (w *World) Height() float64 { return w.height }

// Positions returns a copy of every particle's position.
func (w *World) Positions() []geom.Vec {
	out := make([]geom.Vec, len(w.air))
	for i, p := range w.air {
		out[i] = p.S
	}
	return out
}

// Radius returns the radius shared by all particles.
func (w *World) Radius() float64 { return ParticleRadius }

// FoilShape returns the foil's outline.
func (w *World) FoilShape() *geom.Polygon { return w.foil.Shape }

// ForceOnFoil returns the net force on the foil, averaged over recent steps.
func (w *World) ForceOnFoil() geom.Vec { return w.netForce.Value() }

// FoilEdgeForces returns the average force on each edge of the foil. Forces
// from collisions with the foil's corners are not included.
func (w *World) FoilEdgeForces() []geom.Vec {
	out := make([]geom.Vec, len(w.edgeForces))
	for i, sw := range w.edgeForces {
		out[i] = sw.Value()
	}
	return out
}

// NetMomentum returns the sum of the magnitudes of every particle's
// momentum.
func (w *World) NetMomentum() float64 {
	ws := &w.workspaces[0]
	if cap(ws.momentum) < len(w.air) {
		ws.momentum = make([]float64, len(w.air))
	}
	ws.momentum = ws.momentum[:len(w.air)]
	for i, p := range w.air {
		ws.momentum[i] = p.Momentum()
	}
	return floats.Sum(ws.momentum)
}

// Snapshot is a copy of the parts of a World's state that are of interest
// to something drawing it.
type Snapshot struct {
	Step        int
	Radius      float64
	Positions   []geom.Vec
	Foil        []geom.Vec
	Force       geom.Vec
	EdgeForces  []geom.Vec
	NetMomentum float64
}

// Snapshot copies the world's current state.
func (w *World) Snapshot() *Snapshot {
	return &Snapshot{
		Step:        w.steps,
		Radius:      w.Radius(),
		Positions:   w.Positions(),
		Foil:        append([]geom.Vec{}, w.foil.Shape.Vertices...),
		Force:       w.ForceOnFoil(),
		EdgeForces:  w.FoilEdgeForces(),
		NetMomentum: w.NetMomentum(),
	}
}
