package cache

import (
	"context"
	"errors"
	"expvar"

	"github.com/DMarby/bandfilter/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// Provider stores encoded objects by key
type Provider interface {
	Get(ctx context.Context, key string) (data []byte, err error)
	Set(ctx context.Context, key string, data []byte) (err error)
	Shutdown()
}

// LoaderFunc loads an object that isn't cached yet
type LoaderFunc func(ctx context.Context, key string) (data []byte, err error)

// Errors
var (
	ErrNotFound = errors.New("not found in cache")
)

// Lookup results, counted in the lookups expvar
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

var lookups = expvar.NewMap("counter_labelmap_result_cache_lookups")

// Auto is a read-through cache: misses are loaded with Loader and stored in Provider
type Auto struct {
	Tracer      *tracing.Tracer
	Provider    Provider
	Loader      LoaderFunc
	lookupGroup singleflight.Group
}

// Get returns the cached object for key, loading and storing it first on a miss.
// Concurrent misses for the same key share a single load.
func (a *Auto) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := a.Tracer.Start(ctx, "cache.Auto.Get")
	defer span.End()

	data, err := a.Provider.Get(ctx, key)
	switch {
	case err == nil:
		lookups.Add(resultHit, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return data, nil
	case !errors.Is(err, ErrNotFound):
		lookups.Add(resultError, 1)
		span.RecordError(err)
		return nil, err
	}

	lookups.Add(resultMiss, 1)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, shared := a.lookupGroup.Do(key, func() (interface{}, error) {
		data, err := a.Loader(ctx, key)
		if err != nil {
			return nil, err
		}

		if err := a.Provider.Set(ctx, key, data); err != nil {
			return nil, err
		}

		return data, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared_load", shared))

	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	data, _ = v.([]byte)
	return data, nil
}
