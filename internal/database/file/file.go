package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/DMarby/bandfilter/internal/database"
)

// Provider implements a catalog backed by a JSON manifest
type Provider struct {
	path   string
	images []database.Image
	index  map[string]int
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var images []database.Image
	err = json.Unmarshal(data, &images)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(images))
	for i, image := range images {
		if err := image.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		if _, exists := index[image.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate id %q", database.ErrInvalidManifest, image.ID)
		}

		index[image.ID] = i
	}

	return &Provider{
		path:   path,
		images: images,
		index:  index,
	}, nil
}

// Get returns the metadata for an image id
func (p *Provider) Get(ctx context.Context, id string) (i *database.Image, err error) {
	position, ok := p.index[id]
	if !ok {
		return nil, database.ErrNotFound
	}

	image := p.images[position]
	return &image, nil
}

// ListAll returns a list of all the images
func (p *Provider) ListAll(ctx context.Context) ([]database.Image, error) {
	return append([]database.Image(nil), p.images...), nil
}

// Shutdown shuts down the database client
func (p *Provider) Shutdown() {}
