package banded

import (
	"bytes"
	"context"
	"expvar"
	"fmt"

	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/image"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/pipeline"
	"github.com/DMarby/bandfilter/internal/pixel"
	"github.com/DMarby/bandfilter/internal/queue"
	"github.com/DMarby/bandfilter/internal/tracing"
)

// Processor is an image processor that filters images band by band
type Processor struct {
	queue *queue.Queue
}

var (
	queueSize       = expvar.NewInt("gauge_image_processor_queue_size")
	processedImages = expvar.NewMap("counter_labelmap_filter_image_processor_processed_images")
)

// New initializes a new processor instance, running at most workers tasks at once
func New(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, workers int, cache *image.Cache) (*Processor, error) {
	if workers < 1 {
		return nil, fmt.Errorf("invalid worker count %d", workers)
	}

	runner := &pipeline.Runner{
		Log:    log,
		Tracer: tracer,
	}

	workerQueue := queue.New(ctx, workers, taskProcessor(tracer, runner, cache))
	instance := &Processor{
		queue: workerQueue,
	}

	go workerQueue.Run()
	log.Infof("starting banded worker queue with %d workers", workers)

	return instance, nil
}

// ProcessImage loads the source image, filters it, and returns a buffer containing the filtered BMP
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) (processedImage []byte, err error) {
	queueSize.Add(1)
	defer queueSize.Add(-1)

	defer processedImages.Add(task.Params.Kind.String(), 1)

	result, err := p.queue.Process(ctx, task)
	if err != nil {
		return nil, err
	}

	image, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("error getting result")
	}

	return image, nil
}

func taskProcessor(tracer *tracing.Tracer, runner *pipeline.Runner, cache *image.Cache) func(ctx context.Context, data interface{}) (interface{}, error) {
	return func(ctx context.Context, data interface{}) (interface{}, error) {
		task, ok := data.(*image.Task)
		if !ok {
			return nil, fmt.Errorf("invalid data")
		}

		imageBuffer, err := cache.Get(ctx, task.ImageID)
		if err != nil {
			return nil, fmt.Errorf("error getting image from cache: %w", err)
		}

		source, err := decode(ctx, tracer, imageBuffer)
		if err != nil {
			return nil, err
		}
		defer source.Release()

		filtered, err := runner.Apply(ctx, source, task.Params, task.Workers)
		if err != nil {
			return nil, err
		}
		defer filtered.Release()

		return encode(ctx, tracer, filtered)
	}
}

func decode(ctx context.Context, tracer *tracing.Tracer, data []byte) (*pixel.Grid, error) {
	_, span := tracer.Start(ctx, "banded.decode")
	defer span.End()

	return bmp.Decode(bytes.NewReader(data))
}

func encode(ctx context.Context, tracer *tracing.Tracer, grid *pixel.Grid) ([]byte, error) {
	_, span := tracer.Start(ctx, "banded.encode")
	defer span.End()

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, grid); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
