package mock

import (
	"context"
	"errors"

	"github.com/DMarby/bandfilter/internal/image"
)

// ErrProcessing is returned when no Err is set
var ErrProcessing = errors.New("processing error")

// Processor implements a mock image processor that always fails
type Processor struct {
	Err error
}

// ProcessImage returns Err, or ErrProcessing, instead of filtering an image
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) (processedImage []byte, err error) {
	if p.Err != nil {
		return nil, p.Err
	}

	return nil, ErrProcessing
}
