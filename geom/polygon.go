package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a directed edge running from P0 to Pf.
type Segment struct {
	P0, Pf Vec
}

// Vec returns the displacement from the start of s to its end.
func (s *Segment) Vec() Vec { return s.Pf.Sub(s.P0) }

// CrossesUpward returns true if s crosses the horizontal line at y while
// moving upwards. Upward edges include their starting point and exclude
// their final point.
func (s *Segment) CrossesUpward(y float64) bool {
	return s.P0.Y <= y && s.Pf.Y > y
}

// CrossesDownward returns true if s crosses the horizontal line at y while
// moving downwards. Downward edges exclude their starting point and include
// their final point.
func (s *Segment) CrossesDownward(y float64) bool {
	return s.P0.Y > y && s.Pf.Y <= y
}

// XIntersect returns the x coordinate at which the line through s meets the
// horizontal line at y. It must only be called on non-horizontal segments.
func (s *Segment) XIntersect(y float64) float64 {
	t := (y - s.P0.Y) / (s.Pf.Y - s.P0.Y)
	return s.P0.X + t*(s.Pf.X-s.P0.X)
}

// Polygon is a closed loop of vertices with a consistent winding. The edge
// from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices    []Vec
	Edges       []Segment
	EdgeNormals []Vec // Outward unit normals, one per edge.

	bbox r2.Box
}

// NewPolygon creates a polygon from an ordered vertex loop. Either winding
// is accepted; EdgeNormals always point away from the interior.
func NewPolygon(vertices []Vec) (*Polygon, error) {
	n := len(vertices)
	if n < 3 {
		return nil, fmt.Errorf(
			"A polygon needs at least 3 vertices, but %d were given.", n,
		)
	}

	p := &Polygon{
		Vertices:    append([]Vec{}, vertices...),
		Edges:       make([]Segment, n),
		EdgeNormals: make([]Vec, n),
	}

	area2 := 0.0
	for i := range p.Vertices {
		v0, vf := p.Vertices[i], p.Vertices[(i+1)%n]
		p.Edges[i] = Segment{v0, vf}
		area2 += r2.Cross(v0.r2v(), vf.r2v())
	}
	if area2 == 0 {
		return nil, fmt.Errorf("Polygon vertices enclose no area.")
	}

	// Counterclockwise loops have positive signed area, and their left hand
	// normals point inwards.
	flip := area2 > 0
	for i := range p.Edges {
		nv := p.Edges[i].Vec().Normal().Unit()
		if flip {
			nv = nv.Scale(-1)
		}
		p.EdgeNormals[i] = nv
	}

	p.bbox = r2.Box{Min: p.Vertices[0].r2v(), Max: p.Vertices[0].r2v()}
	for _, v := range p.Vertices[1:] {
		p.bbox.Min.X = math.Min(p.bbox.Min.X, v.X)
		p.bbox.Min.Y = math.Min(p.bbox.Min.Y, v.Y)
		p.bbox.Max.X = math.Max(p.bbox.Max.X, v.X)
		p.bbox.Max.Y = math.Max(p.bbox.Max.Y, v.Y)
	}

	return p, nil
}

// BBox returns the axis aligned bounding box of p.
func (p *Polygon) BBox() r2.Box { return p.bbox }

// BBoxArea returns the area of p's bounding box.
func (p *Polygon) BBoxArea() float64 {
	size := p.bbox.Size()
	return size.X * size.Y
}

// Contains returns true if pt lies inside p. Points on the boundary are
// classified by the crossing number rules of Sunday's "Inclusion of a Point
// in a Polygon": upward edges include their start point, downward edges
// include their end point, horizontal edges are ignored, and a crossing only
// counts if it lies strictly to the right of pt. The result for any given
// point is deterministic.
func (p *Polygon) Contains(pt Vec) bool {
	if pt.X < p.bbox.Min.X || pt.X > p.bbox.Max.X ||
		pt.Y < p.bbox.Min.Y || pt.Y > p.bbox.Max.Y {
		return false
	}

	crossings := 0
	for i := range p.Edges {
		e := &p.Edges[i]
		if e.CrossesUpward(pt.Y) || e.CrossesDownward(pt.Y) {
			if pt.X < e.XIntersect(pt.Y) {
				crossings++
			}
		}
	}
	return crossings%2 == 1
}

// NearestVertex returns the vertex of p closest to pt. Ties go to the vertex
// which comes first.
func (p *Polygon) NearestVertex(pt Vec) Vec {
	best, bestDist := p.Vertices[0], p.Vertices[0].DistSqr(pt)
	for _, v := range p.Vertices[1:] {
		if d := v.DistSqr(pt); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// ProjectedExtrema returns the smallest and largest projections of p's
// vertices onto axis.
func (p *Polygon) ProjectedExtrema(axis Vec) (lo, hi float64) {
	lo = p.Vertices[0].Dot(axis)
	hi = lo
	for _, v := range p.Vertices[1:] {
		d := v.Dot(axis)
		if d < lo {
			lo = d
		} else if d > hi {
			hi = d
		}
	}
	return lo, hi
}
