package mock

import (
	"context"
	"errors"

	"github.com/DMarby/bandfilter/internal/cache"
)

// Errors returned by the mock
var (
	ErrGet = errors.New("mock get error")
	ErrSet = errors.New("mock set error")
)

// Provider is a mock cache.
// Keys prefixed with "miss" are never found, "seterror" keys fail to store, and "error" fails to load.
type Provider struct{}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	switch {
	case key == "error":
		return nil, ErrGet
	case key == "seterror", len(key) >= 4 && key[:4] == "miss":
		return nil, cache.ErrNotFound
	}

	return []byte(key), nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	if key == "seterror" {
		return ErrSet
	}

	return nil
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
