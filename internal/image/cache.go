package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/cache"
	"github.com/DMarby/bandfilter/internal/storage"
	"github.com/DMarby/bandfilter/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidSource is returned when a stored source image isn't a readable BMP
var ErrInvalidSource = errors.New("invalid source image")

// Cache is a cache of encoded source images, keyed by image id
type Cache = cache.Auto

// NewCache returns a cache that loads missing source images from storage.
// Only sources with a readable BMP header are cached.
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider, storageProvider storage.Provider) *Cache {
	return &Cache{
		Tracer:   tracer,
		Provider: cacheProvider,
		Loader: func(ctx context.Context, imageID string) ([]byte, error) {
			ctx, span := tracer.Start(ctx, "image.Cache.Loader", trace.WithAttributes(attribute.String("image.id", imageID)))
			defer span.End()

			data, err := storageProvider.Get(ctx, imageID)
			if err != nil {
				return nil, err
			}

			width, height, err := bmp.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("%w %s: %s", ErrInvalidSource, imageID, err)
			}

			span.SetAttributes(
				attribute.Int("image.bytes", len(data)),
				attribute.Int("image.width", width),
				attribute.Int("image.height", height),
			)

			return data, nil
		},
	}
}
