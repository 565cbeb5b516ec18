package wingworks

import (
	"math"

	"github.com/phil-mansfield/wingworks/geom"
)

// WorldCells bins particles into a uniform grid of square cells so that
// only particles in neighboring cells need to be tested against each other.
// With a cell width of one particle diameter, every colliding pair sits in
// the same cell or in two adjacent ones.
//
// Particle indices are stored sorted by cell and then by index, so that the
// members of each cell form a contiguous range of Entry indices.
type WorldCells struct {
	Width, Height, CellWidth float64
	grid                     *geom.Grid

	entries    []int // Particle indices, sorted by cell.
	cellOf     []int // Cell index of each particle.
	start, end []int // Entry range of each cell, -1 if empty.
	counts     []int
}

// Cells visited from a cell when pairing it against its neighbors: east,
// north, northeast, and northwest. Together with pairs inside a single cell
// these reach every pair of adjacent cells exactly once.
var forwardCells = [][2]int{{1, 0}, {0, 1}, {1, 1}, {-1, 1}}

// NewWorldCells returns a grid covering a width x height world. Call Update
// before querying it.
func NewWorldCells(width, height, cellWidth float64) *WorldCells {
	numH := int(math.Ceil(width / cellWidth))
	numV := int(math.Ceil(height / cellWidth))
	if numH < 1 {
		numH = 1
	}
	if numV < 1 {
		numV = 1
	}

	wc := &WorldCells{
		Width: width, Height: height, CellWidth: cellWidth,
		grid: geom.NewGrid([2]int{numH, numV}),
	}
	wc.start = make([]int, wc.grid.Area)
	wc.end = make([]int, wc.grid.Area)
	wc.counts = make([]int, wc.grid.Area)
	return wc
}

// NumH returns the number of cells along the x axis.
func (wc *WorldCells) NumH() int { return wc.grid.Width[0] }

// NumV returns the number of cells along the y axis.
func (wc *WorldCells) NumV() int { return wc.grid.Width[1] }

// Update rebins ps. Positions outside the world are clamped onto its
// boundary first.
func (wc *WorldCells) Update(ps []*Particle) {
	if cap(wc.entries) < len(ps) {
		wc.entries = make([]int, len(ps))
		wc.cellOf = make([]int, len(ps))
	}
	wc.entries, wc.cellOf = wc.entries[:len(ps)], wc.cellOf[:len(ps)]

	for i := range wc.counts {
		wc.counts[i] = 0
	}
	for i, p := range ps {
		c := wc.CellIndex(p.S)
		wc.cellOf[i] = c
		wc.counts[c]++
	}

	// Counting sort. Filling in particle order keeps each cell's members
	// sorted by index.
	next := 0
	for c, n := range wc.counts {
		if n == 0 {
			wc.start[c], wc.end[c] = -1, -1
			continue
		}
		wc.start[c], wc.end[c] = next, next
		next += n
	}
	for i, c := range wc.cellOf {
		wc.entries[wc.end[c]] = i
		wc.end[c]++
	}
}

// CellIndex returns the index of the cell containing s, clamping s into the
// world.
func (wc *WorldCells) CellIndex(s geom.Vec) int {
	x := math.Max(0, math.Min(wc.Width, s.X))
	y := math.Max(0, math.Min(wc.Height, s.Y))
	ix, iy := wc.grid.Clamp(int(x/wc.CellWidth), int(y/wc.CellWidth))
	return wc.grid.Idx(ix, iy)
}

// CellRange returns the range of Entry indices belonging to cell (x, y), or
// (-1, -1) if the cell is empty.
func (wc *WorldCells) CellRange(x, y int) (start, end int) {
	idx := wc.grid.Idx(x, y)
	return wc.start[idx], wc.end[idx]
}

// Entry returns the particle index at sorted position i.
func (wc *WorldCells) Entry(i int) int { return wc.entries[i] }

// VisitPairs calls visit(i, j) for every pair of particle indices where i
// is in cell (x, y) and j is either later in the same cell or in one of
// the cell's forward neighbors. Visiting every cell this way reaches each
// pair of particles in the same or adjacent cells exactly once.
func (wc *WorldCells) VisitPairs(x, y int, visit func(i, j int)) {
	start, end := wc.CellRange(x, y)
	if start < 0 {
		return
	}

	for a := start; a < end; a++ {
		i := wc.entries[a]
		for b := a + 1; b < end; b++ {
			visit(i, wc.entries[b])
		}

		for _, off := range forwardCells {
			nStart, nEnd := wc.neighborRange(x+off[0], y+off[1])
			for b := nStart; b < nEnd; b++ {
				visit(i, wc.entries[b])
			}
		}
	}
}

func (wc *WorldCells) neighborRange(x, y int) (start, end int) {
	idx, ok := wc.grid.IdxCheck(x, y)
	if !ok || wc.start[idx] < 0 {
		return 0, 0
	}
	return wc.start[idx], wc.end[idx]
}
