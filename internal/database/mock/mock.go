package mock

import (
	"context"
	"errors"

	"github.com/DMarby/bandfilter/internal/database"
)

// ErrUnavailable is returned by every lookup
var ErrUnavailable = errors.New("mock catalog unavailable")

// Provider is a catalog that can't be reached
type Provider struct{}

// Get fails with ErrUnavailable
func (p *Provider) Get(ctx context.Context, id string) (*database.Image, error) {
	return nil, ErrUnavailable
}

// ListAll fails with ErrUnavailable
func (p *Provider) ListAll(ctx context.Context) ([]database.Image, error) {
	return nil, ErrUnavailable
}

// Shutdown does nothing
func (p *Provider) Shutdown() {}
