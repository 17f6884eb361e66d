package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/DMarby/bandfilter/internal/band"
	"github.com/DMarby/bandfilter/internal/filter"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/pixel"
	"github.com/DMarby/bandfilter/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of band workers used when none is configured
const DefaultWorkers = 12

var noopTracer = trace.NewNoopTracerProvider().Tracer("pipeline")

// Runner applies filters to a grid using one goroutine per band
type Runner struct {
	Log    *logger.Logger
	Tracer *tracing.Tracer
}

// Apply applies the filter to src using workers band workers, without logging or tracing
func Apply(ctx context.Context, src *pixel.Grid, params filter.Params, workers int) (*pixel.Grid, error) {
	return (&Runner{}).Apply(ctx, src, params, workers)
}

// Apply partitions src into bands, filters every band in parallel into private buffers,
// waits for all of them, and stitches the buffers into a new grid. src is never written.
func (r *Runner) Apply(ctx context.Context, src *pixel.Grid, params filter.Params, workers int) (*pixel.Grid, error) {
	ctx, span := r.startSpan(ctx, "pipeline.Apply",
		attribute.String("filter", params.Kind.String()),
		attribute.Int("workers", workers),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		filterDuration.WithLabelValues(params.Kind.String()).Observe(time.Since(start).Seconds())
	}()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	bands, err := band.Partition(src.Width, workers)
	if err != nil {
		return nil, err
	}

	r.logPartition(src, bands)

	jobs := make([]*Job, 0, len(bands))
	defer func() {
		for _, job := range jobs {
			job.Release()
		}
	}()

	for _, b := range bands {
		job, err := NewJob(b, src, params)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := r.run(ctx, jobs); err != nil {
		return nil, err
	}

	dst, err := pixel.New(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	if err := Stitch(dst, jobs); err != nil {
		dst.Release()
		return nil, err
	}

	if params.Kind == filter.HolePunch {
		holes := filter.Holes(dst.Width, dst.Height, rand.New(rand.NewSource(params.Seed)))
		filter.PunchHoles(dst, holes)
		span.SetAttributes(attribute.Int("holes", len(holes)))
	}

	return dst, nil
}

// run starts one goroutine per job and waits for all of them
func (r *Runner) run(ctx context.Context, jobs []*Job) error {
	_, span := r.startSpan(ctx, "pipeline.run")
	defer span.End()

	var g errgroup.Group
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			start := time.Now()
			defer func() {
				bandDuration.Observe(time.Since(start).Seconds())
			}()

			return job.Run()
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error filtering bands: %w", err)
	}

	return nil
}

func (r *Runner) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if r.Tracer == nil {
		return noopTracer.Start(ctx, name)
	}

	return r.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *Runner) logPartition(src *pixel.Grid, bands []band.Band) {
	if r.Log == nil {
		return
	}

	r.Log.Debugw("partitioned image",
		"width", src.Width,
		"height", src.Height,
		"workers", len(bands),
		"width-per-band", src.Width/len(bands),
		"remainder", src.Width%len(bands),
	)

	for i, b := range bands {
		r.Log.Debugw("band", "index", i, "start", b.Start, "end", b.End, "width", b.Width())
	}
}
