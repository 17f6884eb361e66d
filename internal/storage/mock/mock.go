package mock

import (
	"context"
	"errors"
)

// ErrGet is returned by every Get
var ErrGet = errors.New("mock storage error")

// Provider implements a mock image storage that always fails
type Provider struct {
}

// Get returns the image data for an image id
func (p *Provider) Get(ctx context.Context, id string) ([]byte, error) {
	return nil, ErrGet
}
