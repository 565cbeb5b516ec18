package wingworks

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/phil-mansfield/wingworks/geom"
)

// Recycler puts particles which have left the world back into it. The
// world behaves like a wind tunnel: the top and bottom are walls, and
// particles leaving through the sides are replaced by fresh particles drawn
// from the ambient wind.
//
// A Recycler is not safe for concurrent use.
type Recycler struct {
	Width, Height    float64
	Foil             *AirFoil
	MaxParticleSpeed float64
	WindSpeed        float64

	x, y, dir distuv.Uniform
	speed     distuv.Normal
}

// NewRecycler returns a Recycler whose random draws come from seed.
func NewRecycler(
	width, height float64, foil *AirFoil,
	maxParticleSpeed, windSpeed float64, seed uint64,
) *Recycler {
	src := rand.NewSource(seed)
	// Three sigma spans the full range of thermal speeds.
	sigma := maxParticleSpeed / 3
	return &Recycler{
		Width: width, Height: height, Foil: foil,
		MaxParticleSpeed: maxParticleSpeed, WindSpeed: windSpeed,

		x:     distuv.Uniform{Min: 0, Max: width, Src: src},
		y:     distuv.Uniform{Min: 0, Max: height, Src: src},
		dir:   distuv.Uniform{Min: -1, Max: 1, Src: src},
		speed: distuv.Normal{Mu: 0, Sigma: sigma, Src: src},
	}
}

// Randomize gives every particle in ps a random position outside the foil
// and a random velocity.
func (r *Recycler) Randomize(ps []*Particle) {
	for _, p := range ps {
		p.Reset(r.randomPosition(), r.randomVelocity())
	}
}

// Recycle re-injects every particle of ps that is outside the world and
// returns how many there were. Particles which crossed the top or bottom
// bounce off it: their vertical velocity flips and they stay put until
// they drift back in. All others are replaced with a random particle.
func (r *Recycler) Recycle(ps []*Particle) int {
	n := 0
	for _, p := range ps {
		if !r.IsOutOfWorld(p.S) {
			continue
		}
		n++

		if p.S.Y < 0 || p.S.Y > r.Height {
			p.Reset(p.S, geom.Vec{X: p.V.X, Y: -p.V.Y})
			continue
		}
		p.Reset(r.randomPosition(), r.randomVelocity())
	}
	return n
}

// IsOutOfWorld returns true if s lies outside the world's bounds.
func (r *Recycler) IsOutOfWorld(s geom.Vec) bool {
	return s.X < 0 || s.Y < 0 || s.X > r.Width || s.Y > r.Height
}

func (r *Recycler) randomPosition() geom.Vec {
	for {
		s := geom.Vec{X: r.x.Rand(), Y: r.y.Rand()}
		if !r.Foil.Shape.Contains(s) {
			return s
		}
	}
}

// randomVelocity returns the wind velocity plus a thermal velocity with a
// uniformly random direction and a Gaussian speed.
func (r *Recycler) randomVelocity() geom.Vec {
	wind := geom.Vec{X: r.WindSpeed}
	if r.MaxParticleSpeed <= 0 {
		return wind
	}

	dir := geom.Vec{X: r.dir.Rand(), Y: r.dir.Rand()}.Unit()
	mag := r.speed.Rand()
	mag = math.Max(-r.MaxParticleSpeed, math.Min(r.MaxParticleSpeed, mag))
	return wind.Add(dir.Scale(mag))
}
