/*package geom contains the two dimensional geometry used by wingworks:
vectors, convex polygons, airfoil outlines, and grid indexing.

Vector arithmetic is delegated to gonum's spatial/r2 package. Vec and r2.Vec
share an underlying type, so conversions between the two are free.
*/
package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a two dimensional vector. Vecs are values: every operation returns
// a new Vec.
type Vec struct {
	X, Y float64
}

func (v Vec) r2v() r2.Vec { return r2.Vec(v) }

// Add returns v + u.
func (v Vec) Add(u Vec) Vec { return Vec(r2.Add(v.r2v(), u.r2v())) }

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec { return Vec(r2.Sub(v.r2v(), u.r2v())) }

// Scale returns s*v.
func (v Vec) Scale(s float64) Vec { return Vec(r2.Scale(s, v.r2v())) }

// Dot returns the dot product of v and u.
func (v Vec) Dot(u Vec) float64 { return r2.Dot(v.r2v(), u.r2v()) }

// MagSqr returns |v|^2.
func (v Vec) MagSqr() float64 { return r2.Norm2(v.r2v()) }

// Mag returns |v|.
func (v Vec) Mag() float64 { return r2.Norm(v.r2v()) }

// DistSqr returns |v - u|^2.
func (v Vec) DistSqr(u Vec) float64 { return v.Sub(u).MagSqr() }

// Unit returns the unit vector parallel to v. Unlike r2.Unit, the zero
// vector maps to the zero vector instead of NaNs.
func (v Vec) Unit() Vec {
	if v.MagSqr() <= 0 {
		return Vec{}
	}
	return Vec(r2.Unit(v.r2v()))
}

// Normal returns v rotated a quarter turn counterclockwise. For a polygon
// with clockwise winding, the normals of its edges point outwards.
func (v Vec) Normal() Vec { return Vec{-v.Y, v.X} }

// Rotate returns v rotated by alpha radians around the point p.
func (v Vec) Rotate(alpha float64, p Vec) Vec {
	return Vec(r2.Rotate(v.r2v(), alpha, p.r2v()))
}
