package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 2D grid of cells.
type Grid struct {
	Width        [2]int
	Length, Area int
}

// NewGrid returns a new Grid instance.
func NewGrid(width [2]int) *Grid {
	g := &Grid{}
	g.Init(width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(width [2]int) {
	g.Width = width
	g.Length = width[0]
	g.Area = width[0] * width[1]
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y int) int {
	return x + y*g.Length
}

// IdxCheck returns an index and true if the given coordinate are valid and
// false otherwise.
func (g *Grid) IdxCheck(x, y int) (idx int, ok bool) {
	if !g.BoundsCheck(x, y) {
		return -1, false
	}

	return g.Idx(x, y), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y int) bool {
	return 0 <= x && 0 <= y && x < g.Width[0] && y < g.Width[1]
}

// Coords returns the x, y coordinates of a cell from its grid index.
func (g *Grid) Coords(idx int) (x, y int) {
	return idx % g.Length, idx / g.Length
}

// Clamp returns the coordinates of the cell nearest to (x, y).
func (g *Grid) Clamp(x, y int) (int, int) {
	return clamp(x, g.Width[0]), clamp(y, g.Width[1])
}

func clamp(x, width int) int {
	if x < 0 {
		return 0
	} else if x >= width {
		return width - 1
	}
	return x
}
