package image

import "context"

// Processor is an interface for filtering images
type Processor interface {
	ProcessImage(ctx context.Context, task *Task) (processedImage []byte, err error)
}
