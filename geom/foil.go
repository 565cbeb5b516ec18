package geom

// naca2412 is the outline of a NACA 2412 airfoil with unit chord, leading
// edge at the origin, running along the upper surface to the trailing edge
// and back along the lower surface. Some points near the trailing edge were
// removed so that the outline is convex. See
// http://airfoiltools.com/airfoil/naca4digit
var naca2412 = [][2]float64{
	{0.0000, 0.0000},
	{0.0092, 0.0188},
	{0.0403, 0.0373},
	{0.0920, 0.0543},
	{0.1622, 0.0679},
	{0.2478, 0.0766},
	{0.3447, 0.0792},
	{0.4480, 0.0758},
	{0.5531, 0.0681},
	{0.6557, 0.0573},
	{0.7512, 0.0448},
	{0.8356, 0.0318},
	{0.9053, 0.0198},
	{1.0001, 0.0013},
	{0.9037, -0.0080},
	{0.8335, -0.0128},
	{0.7488, -0.0184},
	{0.6534, -0.0245},
	{0.5514, -0.0306},
	{0.4474, -0.0360},
	{0.3463, -0.0399},
	{0.2522, -0.0422},
	{0.1686, -0.0417},
	{0.0990, -0.0375},
	{0.0462, -0.0292},
	{0.0126, -0.0166},
}

// NACA2412 returns the vertices of a NACA 2412 airfoil with the given chord
// width, placed as described by PlaceOutline.
func NACA2412(left, bottom, width, alpha float64) []Vec {
	vs := make([]Vec, len(naca2412))
	for i, c := range naca2412 {
		vs[i] = Vec{c[0], c[1]}
	}
	return PlaceOutline(vs, left, bottom, width, alpha)
}

// PlaceOutline normalizes an outline so that its minimum x and y are zero
// and its x extent is one, rotates it clockwise by the angle of attack alpha
// (radians) around that origin, then scales it by width and translates it by
// (left, bottom). vs is not modified.
func PlaceOutline(vs []Vec, left, bottom, width, alpha float64) []Vec {
	xMin, xMax, yMin := vs[0].X, vs[0].X, vs[0].Y
	for _, v := range vs[1:] {
		if v.X < xMin {
			xMin = v.X
		}
		if v.X > xMax {
			xMax = v.X
		}
		if v.Y < yMin {
			yMin = v.Y
		}
	}
	mag := xMax - xMin

	out := make([]Vec, len(vs))
	for i, v := range vs {
		u := Vec{(v.X - xMin) / mag, (v.Y - yMin) / mag}
		u = u.Rotate(-alpha, Vec{})
		out[i] = Vec{u.X*width + left, u.Y*width + bottom}
	}
	return out
}
