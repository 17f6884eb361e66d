package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/DMarby/bandfilter/internal/storage"
)

// Provider implements a file-based image storage
type Provider struct {
	path string
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, errors.New("storage path is not a directory")
	}

	return &Provider{
		path,
	}, nil
}

// Get returns the image data for an image id
func (p *Provider) Get(ctx context.Context, id string) ([]byte, error) {
	// Ids are file names, never paths
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, storage.ErrNotFound
	}

	imageData, err := os.ReadFile(filepath.Join(p.path, storage.Key(id)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return imageData, nil
}
