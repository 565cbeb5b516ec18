package wingworks

import (
	"fmt"

	"github.com/phil-mansfield/wingworks/geom"
)

// AirFoil is a rigid obstacle. It never rotates and is treated as
// infinitely massive by collisions, so V is constant.
type AirFoil struct {
	Shape *geom.Polygon
	// S is the foil's anchor, the minimum corner of its bounding box.
	S geom.Vec
	V geom.Vec
	// Mass is nominal. Collisions ignore it.
	Mass float64
}

const defaultFoilMass = 1e3

// NewAirFoil returns a foil with the given outline moving at velocity v.
func NewAirFoil(shape *geom.Polygon, v geom.Vec) *AirFoil {
	bb := shape.BBox()
	return &AirFoil{
		Shape: shape, V: v, Mass: defaultFoilMass,
		S: geom.Vec{X: bb.Min.X, Y: bb.Min.Y},
	}
}

// NewNACA2412 returns a stationary NACA 2412 foil with its leading edge
// region anchored at (left, bottom). alpha is the angle of attack in
// radians.
func NewNACA2412(left, bottom, width, alpha float64) (*AirFoil, error) {
	if width <= 0 {
		return nil, fmt.Errorf("Foil width must be positive, but is %g.", width)
	}
	shape, err := geom.NewPolygon(geom.NACA2412(left, bottom, width, alpha))
	if err != nil {
		return nil, fmt.Errorf("Could not build NACA 2412 outline: %w", err)
	}
	return NewAirFoil(shape, geom.Vec{}), nil
}

// AirFoilCollision resolves collisions between particles and a foil.
type AirFoilCollision struct {
	foilV geom.Vec
	sat   *SATPolyCollision
}

// NewAirFoilCollision returns a resolver for foil.
func NewAirFoilCollision(foil *AirFoil) *AirFoilCollision {
	return &AirFoilCollision{foil.V, NewSATPolyCollision(foil.Shape)}
}

// minPushSqr is the squared length below which a push-out is not treated as
// a real collision.
const minPushSqr = 1e-6

// Collide moves p out of the foil and reflects its velocity about the
// collision normal. It returns the index of the edge that was hit (-1 for
// corners) and the force p exerted on the foil. ok is false if p is not
// touching the foil.
//
// Contact times are not resolved: p is simply moved to the foil's surface.
func (ac *AirFoilCollision) Collide(p *Particle) (edge int, force geom.Vec, ok bool) {
	edge, push, _, ok := ac.sat.CollisionNormal(p)
	if !ok {
		return -1, geom.Vec{}, false
	}
	if push.MagSqr() <= minPushSqr {
		return edge, geom.Vec{}, true
	}

	p.S = p.S.Add(push)
	n := push.Unit()

	vrDotN := ac.foilV.Sub(p.V).Dot(n)
	if vrDotN < 0 {
		// Already moving away.
		return edge, geom.Vec{}, true
	}

	dv := n.Scale((1 + restitution) * vrDotN)
	p.V = p.V.Add(dv)
	return edge, dv.Scale(-ParticleMass), true
}
