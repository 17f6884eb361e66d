package pixel

import (
	"errors"
	"fmt"
)

// MaxPixels is the largest grid New will allocate
const MaxPixels = 1 << 28

// Errors
var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrAllocationFailure = errors.New("allocation failure")
)

// Pixel is a single 24-bit RGB value
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

// Black is the zero pixel
var Black = Pixel{}

// Grid is a width x height raster of pixels, addressed [row][col]
type Grid struct {
	Width  int
	Height int
	rows   [][]Pixel
}

// New allocates a zero-initialized grid
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	if width > MaxPixels/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocationFailure, width, height, MaxPixels)
	}

	// One backing array, sliced into rows
	backing := make([]Pixel, width*height)
	rows := make([][]Pixel, height)
	for row := range rows {
		rows[row] = backing[row*width : (row+1)*width : (row+1)*width]
	}

	return &Grid{
		Width:  width,
		Height: height,
		rows:   rows,
	}, nil
}

// At returns the pixel at (row, col). Callers are responsible for bounds checking.
func (g *Grid) At(row, col int) Pixel {
	return g.rows[row][col]
}

// Set sets the pixel at (row, col). Callers are responsible for bounds checking.
func (g *Grid) Set(row, col int, p Pixel) {
	g.rows[row][col] = p
}

// Row returns the pixels of a single row, sharing memory with the grid
func (g *Grid) Row(row int) []Pixel {
	return g.rows[row]
}

// InBounds reports whether (row, col) addresses a pixel in the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Height && col >= 0 && col < g.Width
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	clone, _ := New(g.Width, g.Height)
	for row := 0; row < g.Height; row++ {
		copy(clone.rows[row], g.rows[row])
	}

	return clone
}

// Released reports whether Release has been called
func (g *Grid) Released() bool {
	return g.rows == nil
}

// Release drops the rows and the row table. Calling it again is a no-op.
func (g *Grid) Release() {
	if g == nil || g.rows == nil {
		return
	}

	for row := range g.rows {
		g.rows[row] = nil
	}
	g.rows = nil
}

// Clamp saturates a channel value to [0, 255]
func Clamp(value int) uint8 {
	switch {
	case value <= 0:
		return 0
	case value >= 255:
		return 255
	default:
		return uint8(value)
	}
}
