package pipeline

import (
	"errors"
	"fmt"

	"github.com/DMarby/bandfilter/internal/band"
	"github.com/DMarby/bandfilter/internal/filter"
	"github.com/DMarby/bandfilter/internal/pixel"
)

// ErrWorkerFailed is returned when a band worker dies before finishing its band
var ErrWorkerFailed = errors.New("band worker failed")

// Job is the unit of work for a single band worker
type Job struct {
	Band   band.Band
	Source *pixel.Grid // shared, read-only
	Output *pixel.Grid // Band.Width() x Source.Height, owned by the job
	Params filter.Params
}

// NewJob allocates the private output buffer for a band
func NewJob(b band.Band, source *pixel.Grid, params filter.Params) (*Job, error) {
	output, err := pixel.New(b.Width(), source.Height)
	if err != nil {
		return nil, fmt.Errorf("error allocating band %d-%d: %w", b.Start, b.End, err)
	}

	return &Job{
		Band:   b,
		Source: source,
		Output: output,
		Params: params,
	}, nil
}

// Run filters every pixel of the band from Source into Output, at columns relative to Band.Start
func (j *Job) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: band %d-%d: %v", ErrWorkerFailed, j.Band.Start, j.Band.End, r)
		}
	}()

	for row := 0; row < j.Source.Height; row++ {
		out := j.Output.Row(row)
		for col := j.Band.Start; col <= j.Band.End; col++ {
			out[col-j.Band.Start] = j.Params.Pixel(j.Source, row, col)
		}
	}

	return nil
}

// Release frees the job's output buffer
func (j *Job) Release() {
	j.Output.Release()
}
