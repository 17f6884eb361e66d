package band

import (
	"errors"
	"fmt"
)

// ErrInvalidPartition is returned when a width can't be split across the requested workers
var ErrInvalidPartition = errors.New("invalid partition")

// Band is a contiguous column range [Start, End], End inclusive
type Band struct {
	Start int
	End   int
}

// Width returns the number of columns in the band
func (b Band) Width() int {
	return b.End - b.Start + 1
}

// Contains reports whether col falls inside the band
func (b Band) Contains(col int) bool {
	return col >= b.Start && col <= b.End
}

// Partition splits [0, width) into workers adjacent bands.
// Every band is width/workers columns wide, except the last one, which also takes the remainder.
func Partition(width, workers int) ([]Band, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidPartition, width)
	}

	if workers <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidPartition, workers)
	}

	if width < workers {
		return nil, fmt.Errorf("%w: width %d is smaller than the worker count %d", ErrInvalidPartition, width, workers)
	}

	perBand := width / workers
	bands := make([]Band, workers)

	start := 0
	for i := range bands {
		end := start + perBand - 1
		if i == workers-1 {
			end = width - 1
		}

		bands[i] = Band{Start: start, End: end}
		start = end + 1
	}

	return bands, nil
}
