package filter

import (
	"math/rand"

	"github.com/DMarby/bandfilter/internal/pixel"
	"github.com/eapache/queue"
)

const (
	holeDensity   = 0.08
	minHoleRadius = 5
)

// Hole is a circular region centered on (Row, Col)
type Hole struct {
	Row    int
	Col    int
	Radius int
}

// Contains reports whether (row, col) lies within the hole
func (h Hole) Contains(row, col int) bool {
	dr := row - h.Row
	dc := col - h.Col
	return dr*dr+dc*dc <= h.Radius*h.Radius
}

// Holes picks floor(0.08 * min(width, height)) holes.
// Centers are drawn from [0, min) on both axes, radii from [5, min/6 + 5).
func Holes(width, height int, rng *rand.Rand) []Hole {
	minDim := width
	if height < minDim {
		minDim = height
	}

	if minDim <= 0 {
		return nil
	}

	count := int(float64(minDim) * holeDensity)
	holes := make([]Hole, count)
	for i := range holes {
		holes[i].Row = rng.Intn(minDim)
		holes[i].Col = rng.Intn(minDim)
		holes[i].Radius = minHoleRadius
		if spread := minDim / 6; spread > 0 {
			holes[i].Radius += rng.Intn(spread)
		}
	}

	return holes
}

type cell struct {
	row int
	col int
}

// PunchHoles paints every hole black in place.
// Each hole is filled breadth first from its center, expanding through 4-neighbors that are
// in bounds and within the radius.
func PunchHoles(grid *pixel.Grid, holes []Hole) {
	// visited holds the 1-based index of the last hole that reached each pixel
	visited := make([]int, grid.Width*grid.Height)
	for i, hole := range holes {
		fill(grid, hole, i+1, visited)
	}
}

func fill(grid *pixel.Grid, hole Hole, mark int, visited []int) {
	pending := queue.New()
	pending.Add(cell{hole.Row, hole.Col})

	for pending.Length() > 0 {
		c := pending.Remove().(cell)
		if !grid.InBounds(c.row, c.col) || !hole.Contains(c.row, c.col) {
			continue
		}

		index := c.row*grid.Width + c.col
		if visited[index] == mark {
			continue
		}
		visited[index] = mark

		grid.Set(c.row, c.col, pixel.Black)

		pending.Add(cell{c.row - 1, c.col})
		pending.Add(cell{c.row + 1, c.col})
		pending.Add(cell{c.row, c.col - 1})
		pending.Add(cell{c.row, c.col + 1})
	}
}
