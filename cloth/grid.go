package cloth

// Grid provides an interface for reasoning over a flat, row-major slice of
// particles as if it were a 2D grid.
type Grid struct {
	Rows, Cols int
}

// NewGrid returns a new Grid instance.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols}
}

// Len returns the number of particles on the grid.
func (g Grid) Len() int {
	return g.Rows * g.Cols
}

// Idx returns the flat index corresponding to a set of coordinates.
func (g Grid) Idx(row, col int) int {
	return row*g.Cols + col
}

// IdxCheck returns an index and true if the given coordinates are valid and
// false otherwise.
func (g Grid) IdxCheck(row, col int) (idx int, ok bool) {
	if !g.BoundsCheck(row, col) {
		return -1, false
	}
	return g.Idx(row, col), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g Grid) BoundsCheck(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.Rows && col < g.Cols
}

// Coords returns the row and column of a particle from its flat index.
func (g Grid) Coords(idx int) (row, col int) {
	return idx / g.Cols, idx % g.Cols
}

// Edge is a distance constraint between two particles.
type Edge struct {
	I0, I1  int
	RestLen float32
}

// SharesEndpoint returns true if the two edges have a particle in common.
func (e *Edge) SharesEndpoint(o *Edge) bool {
	return e.I0 == o.I0 || e.I0 == o.I1 || e.I1 == o.I0 || e.I1 == o.I1
}

// Edges enumerates the constraint edges of the grid. Every cell whose
// upper-left corner is (row, col) contributes its top and left edges to
// structural and both of its diagonals to diagonal. The last column
// contributes its vertical edges and the last row its horizontal edges.
//
// Rest lengths are left at zero.
func (g Grid) Edges() (structural, diagonal []Edge) {
	for row := 0; row < g.Rows-1; row++ {
		for col := 0; col < g.Cols-1; col++ {
			i00, i01 := g.Idx(row, col), g.Idx(row, col+1)
			i10, i11 := g.Idx(row+1, col), g.Idx(row+1, col+1)

			structural = append(structural,
				Edge{I0: i00, I1: i01}, Edge{I0: i00, I1: i10})
			diagonal = append(diagonal,
				Edge{I0: i00, I1: i11}, Edge{I0: i01, I1: i10})
		}
	}

	if g.Rows > 0 && g.Cols > 0 {
		for row := 0; row < g.Rows-1; row++ {
			col := g.Cols - 1
			structural = append(structural,
				Edge{I0: g.Idx(row, col), I1: g.Idx(row+1, col)})
		}
		for col := 0; col < g.Cols-1; col++ {
			row := g.Rows - 1
			structural = append(structural,
				Edge{I0: g.Idx(row, col), I1: g.Idx(row, col+1)})
		}
	}

	return structural, diagonal
}
