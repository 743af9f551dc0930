package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyGrid  = errors.New("grid has no cells")
	ErrRaggedGrid = errors.New("grid rows differ in length")
)

// Cell is a single map tile. Zero is traversable, any other value is a wall
// whose value selects texture value-1.
type Cell uint8

// Grid is a read-only, rectangular, row-major tile map.
type Grid struct {
	cells [][]Cell
	rows  int
	cols  int
}

// NewGrid validates that rows is non-empty and rectangular. The rows are
// copied so later changes by the caller do not leak into a frame.
func NewGrid(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	cols := len(rows[0])
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), cols, ErrRaggedGrid)
		}
		cells[i] = append([]Cell(nil), row...)
	}

	return &Grid{cells: cells, rows: len(rows), cols: cols}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) indexes a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). Indexing outside the grid means a
// geometry invariant was broken upstream and panics.
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("grid index (%d, %d) outside %dx%d map", row, col, g.rows, g.cols))
	}
	return g.cells[row][col]
}

// Walkable reports whether (row, col) is inside the grid and empty.
func (g *Grid) Walkable(row, col int) bool {
	return g.InBounds(row, col) && g.cells[row][col] == 0
}

// Contains reports whether the continuous point (x, y) lies in
// [0, cols-1] x [0, rows-1]. Rays compare the floating point position so
// that flooring at the far edge can never index past the last cell.
func (g *Grid) Contains(x, y float64) bool {
	return x >= 0 && x <= float64(g.cols-1) && y >= 0 && y <= float64(g.rows-1)
}

// CellAt returns the cell under the continuous point (x, y), which must
// satisfy Contains.
func (g *Grid) CellAt(x, y float64) Cell {
	return g.At(int(math.Floor(y)), int(math.Floor(x)))
}
