package image

import (
	"github.com/DMarby/bandfilter/internal/filter"
)

// Task is an image filtering task
type Task struct {
	ImageID string
	Params  filter.Params
	Workers int
}

// NewTask creates a new filtering task for an image, split across workers bands
func NewTask(imageID string, kind filter.Kind, workers int) *Task {
	return &Task{
		ImageID: imageID,
		Params: filter.Params{
			Kind:       kind,
			KernelSize: filter.DefaultKernelSize,
		},
		Workers: workers,
	}
}

// Shift sets the per-channel shift
func (t *Task) Shift(shift filter.Shift) *Task {
	t.Params.Shift = shift
	return t
}

// Kernel sets the box blur kernel size
func (t *Task) Kernel(size int) *Task {
	t.Params.KernelSize = size
	return t
}

// Seed sets the seed the hole punch filter draws its holes from
func (t *Task) Seed(seed int64) *Task {
	t.Params.Seed = seed
	return t
}
