package database

import (
	"context"
	"errors"
	"fmt"
)

// Image is a catalog entry for a source image
type Image struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Validate checks that the entry describes an image that can be filtered
func (i Image) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: entry has no id", ErrInvalidManifest)
	}

	if i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("%w: image %s is %dx%d", ErrInvalidManifest, i.ID, i.Width, i.Height)
	}

	return nil
}

// MaxWorkers is the largest number of bands the image can be split into, one column each
func (i Image) MaxWorkers() int {
	return i.Width
}

// Provider looks up catalog entries
type Provider interface {
	Get(ctx context.Context, id string) (i *Image, err error)
	ListAll(ctx context.Context) ([]Image, error)
	Shutdown()
}

// Errors
var (
	ErrNotFound        = errors.New("Image does not exist")
	ErrInvalidManifest = errors.New("invalid image manifest")
)
