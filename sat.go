package wingworks

import (
	"math"

	"github.com/phil-mansfield/wingworks/geom"
)

// SATPolyCollision tests particles against a convex polygon using the
// separating axis theorem. The candidate axes are the polygon's edge normals
// and the axis running from the polygon's nearest vertex to the particle.
//
// See https://www.metanetsoftware.com/technique/tutorialA.html
type SATPolyCollision struct {
	Poly *geom.Polygon
}

// NewSATPolyCollision returns a collision test against poly.
func NewSATPolyCollision(poly *geom.Polygon) *SATPolyCollision {
	return &SATPolyCollision{poly}
}

// OverlapAlongAxis returns the signed distance the particle needs to move
// along axis so that its projection no longer overlaps the polygon's. The
// sign is positive if the shortest way out is towards +axis. ok is false if
// the two projections are already separated.
func (sat *SATPolyCollision) OverlapAlongAxis(
	p *Particle, axis geom.Vec,
) (dist float64, ok bool) {
	polyMin, polyMax := sat.Poly.ProjectedExtrema(axis)
	pMin, pMax := p.ProjectedExtrema(axis)

	// How far the particle must move towards -axis and +axis, respectively.
	down := pMax - polyMin
	up := polyMax - pMin

	if up <= down {
		if up <= 0 {
			return 0, false
		}
		return up, true
	}
	if down <= 0 {
		return 0, false
	}
	return -down, true
}

// CollisionNormal finds the smallest displacement which moves p out of the
// polygon. edge is the index of the edge whose normal was used, or -1 if
// the push-out came from the nearest vertex. overlap is the length of
// pushOut. ok is false if p does not collide with the polygon.
//
// Both an edge candidate and a vertex candidate are required for a
// collision to be reported.
func (sat *SATPolyCollision) CollisionNormal(
	p *Particle,
) (edge int, pushOut geom.Vec, overlap float64, ok bool) {
	edgeIdx, edgeDist, ok := sat.edgeCandidate(p)
	if !ok {
		return -1, geom.Vec{}, 0, false
	}
	vertAxis, vertDist, ok := sat.vertexCandidate(p)
	if !ok {
		return -1, geom.Vec{}, 0, false
	}

	if math.Abs(edgeDist) < math.Abs(vertDist) {
		n := sat.Poly.EdgeNormals[edgeIdx]
		return edgeIdx, n.Scale(edgeDist), math.Abs(edgeDist), true
	}
	return -1, vertAxis.Scale(vertDist), math.Abs(vertDist), true
}

// edgeCandidate returns the edge whose normal has the smallest overlap.
// Any separating edge normal means there is no collision at all.
func (sat *SATPolyCollision) edgeCandidate(
	p *Particle,
) (edge int, dist float64, ok bool) {
	edge = -1
	for i, n := range sat.Poly.EdgeNormals {
		d, overlaps := sat.OverlapAlongAxis(p, n)
		if !overlaps {
			return -1, 0, false
		}
		if edge < 0 || math.Abs(d) < math.Abs(dist) {
			edge, dist = i, d
		}
	}
	return edge, dist, edge >= 0
}

func (sat *SATPolyCollision) vertexCandidate(
	p *Particle,
) (axis geom.Vec, dist float64, ok bool) {
	v := sat.Poly.NearestVertex(p.S)
	axis = p.S.Sub(v).Unit()
	dist, ok = sat.OverlapAlongAxis(p, axis)
	return axis, dist, ok
}
