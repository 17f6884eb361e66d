package storage

import (
	"context"
	"errors"
	"fmt"
)

// Provider is an interface for retrieving source images
type Provider interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// Errors
var (
	ErrNotFound = errors.New("Image does not exist")
)

// Key returns the object name of the source image with the given id
func Key(id string) string {
	return fmt.Sprintf("%s.bmp", id)
}
