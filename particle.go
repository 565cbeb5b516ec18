package wingworks

import (
	"sync"
	"sync/atomic"

	"github.com/phil-mansfield/wingworks/geom"
)

const (
	// All particles share the same size and mass.
	ParticleRadius = 0.125
	ParticleMass   = 1.0

	// Coefficient of restitution. 1 is perfectly elastic.
	restitution = 1.0
)

// IDSource issues strictly increasing particle IDs. It is safe to call Next
// from multiple goroutines.
type IDSource struct {
	last atomic.Int64
}

// Next returns an ID larger than any previously returned by ids.
func (ids *IDSource) Next() int64 { return ids.last.Add(1) }

// defaultIDs backs NewParticle.
var defaultIDs = &IDSource{}

// Particle is a single gas molecule. S and V are its position and velocity.
//
// Particles are shared between the workers of a World step. Pairwise
// mutation goes through Collide, which locks both participants in ID
// order.
type Particle struct {
	ID   int64
	S, V geom.Vec

	mu sync.Mutex
}

// NewParticle creates a particle with an ID from the package's default
// IDSource.
func NewParticle(s, v geom.Vec) *Particle {
	return NewParticleFrom(defaultIDs, s, v)
}

// NewParticleFrom creates a particle with an ID issued by ids.
func NewParticleFrom(ids *IDSource, s, v geom.Vec) *Particle {
	return &Particle{ID: ids.Next(), S: s, V: v}
}

// Reset moves p to s and gives it velocity v.
func (p *Particle) Reset(s, v geom.Vec) {
	p.S, p.V = s, v
}

// Momentum returns the magnitude of p's momentum.
func (p *Particle) Momentum() float64 { return ParticleMass * p.V.Mag() }

// IsColliding returns true if p and q overlap or touch.
func (p *Particle) IsColliding(q *Particle) bool {
	d := 2 * ParticleRadius
	return p.S.DistSqr(q.S) <= d*d
}

// Collide applies equal and opposite elastic impulses to p and q along the
// line joining their centers. Colliding a particle with itself does
// nothing.
func (p *Particle) Collide(q *Particle) {
	if p == q {
		return
	}

	first, second := p, q
	if q.ID < p.ID {
		first, second = q, p
	}
	first.mu.Lock()
	second.mu.Lock()

	n := p.S.Sub(q.S).Unit()
	j := p.impulse(q, n)
	p.V = p.V.Add(n.Scale(j / ParticleMass))
	q.V = q.V.Sub(n.Scale(j / ParticleMass))

	second.mu.Unlock()
	first.mu.Unlock()
}

// impulse returns the magnitude of the impulse p receives along n.
func (p *Particle) impulse(q *Particle, n geom.Vec) float64 {
	vr := p.V.Sub(q.V)
	numer := -(1 + restitution) * vr.Dot(n)
	denom := 1/ParticleMass + 1/ParticleMass
	return numer / denom
}

// Step advances p by one unit of time.
func (p *Particle) Step() {
	p.S = p.S.Add(p.V)
}

// ProjectedExtrema returns the interval p covers when projected onto axis.
// A zero axis projects p onto a single point.
func (p *Particle) ProjectedExtrema(axis geom.Vec) (lo, hi float64) {
	if axis.MagSqr() <= 0 {
		return 0, 0
	}
	c := p.S.Dot(axis)
	return c - ParticleRadius, c + ParticleRadius
}
