package filter

import (
	"errors"

	"github.com/DMarby/bandfilter/internal/pixel"
)

// ErrNotImplemented is returned by filters that have no implementation yet
var ErrNotImplemented = errors.New("not implemented")

// Resize scales the grid by factor
func Resize(src *pixel.Grid, factor float64) (*pixel.Grid, error) {
	return nil, ErrNotImplemented
}
