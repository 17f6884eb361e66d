package pipeline_test

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/DMarby/bandfilter/internal/band"
	"github.com/DMarby/bandfilter/internal/filter"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/pipeline"
	"github.com/DMarby/bandfilter/internal/pixel"
	"github.com/DMarby/bandfilter/internal/tracing/test"
	"go.uber.org/zap"
)

func uniformGrid(t *testing.T, width, height int, p pixel.Pixel) *pixel.Grid {
	t.Helper()

	grid, err := pixel.New(width, height)
	if err != nil {
		t.Fatal(err)
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			grid.Set(row, col, p)
		}
	}

	return grid
}

func randomGrid(t *testing.T, width, height int, seed int64) *pixel.Grid {
	t.Helper()

	grid, err := pixel.New(width, height)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(seed))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			grid.Set(row, col, pixel.Pixel{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))})
		}
	}

	return grid
}

func assertEqual(t *testing.T, name string, got, expected *pixel.Grid) {
	t.Helper()

	if got.Width != expected.Width || got.Height != expected.Height {
		t.Fatalf("%s: wrong dimensions %dx%d", name, got.Width, got.Height)
	}

	for row := 0; row < got.Height; row++ {
		for col := 0; col < got.Width; col++ {
			if got.At(row, col) != expected.At(row, col) {
				t.Fatalf("%s: (%d, %d) is %+v, expected %+v", name, row, col, got.At(row, col), expected.At(row, col))
			}
		}
	}
}

// sequential applies the filter with a single loop over a copy, as a reference
func sequential(src *pixel.Grid, params filter.Params) *pixel.Grid {
	dst := src.Clone()
	for row := 0; row < src.Height; row++ {
		for col := 0; col < src.Width; col++ {
			dst.Set(row, col, params.Pixel(src, row, col))
		}
	}

	if params.Kind == filter.HolePunch {
		filter.PunchHoles(dst, filter.Holes(dst.Width, dst.Height, rand.New(rand.NewSource(params.Seed))))
	}

	return dst
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("channel shift with two workers", func(t *testing.T) {
		src := uniformGrid(t, 4, 4, pixel.Pixel{R: 100, G: 150, B: 200})
		params := filter.Params{Kind: filter.ChannelShift, Shift: filter.Shift{R: 10, G: -10}}

		dst, err := pipeline.Apply(ctx, src, params, 2)
		if err != nil {
			t.Fatal(err)
		}

		assertEqual(t, "shift", dst, uniformGrid(t, 4, 4, pixel.Pixel{R: 110, G: 140, B: 200}))
	})

	t.Run("box blur on a constant image with one worker", func(t *testing.T) {
		src := uniformGrid(t, 3, 3, pixel.Pixel{R: 10, G: 20, B: 30})

		dst, err := pipeline.Apply(ctx, src, filter.Params{Kind: filter.BoxBlur, KernelSize: 3}, 1)
		if err != nil {
			t.Fatal(err)
		}

		assertEqual(t, "blur", dst, uniformGrid(t, 3, 3, pixel.Pixel{R: 10, G: 20, B: 30}))
	})

	t.Run("matches a sequential pass for every filter and worker count", func(t *testing.T) {
		src := randomGrid(t, 37, 23, 7)
		original := src.Clone()

		paramSets := []filter.Params{
			{Kind: filter.Grayscale},
			{Kind: filter.ChannelShift, Shift: filter.Shift{R: 40, G: -70, B: 3}},
			{Kind: filter.BoxBlur},
			{Kind: filter.BoxBlur, KernelSize: 5},
			{Kind: filter.HolePunch, Seed: 99},
		}

		for _, params := range paramSets {
			expected := sequential(src, params)
			for _, workers := range []int{1, 2, 5, 12, 37} {
				dst, err := pipeline.Apply(ctx, src, params, workers)
				if err != nil {
					t.Fatalf("%s/%d: %s", params.Kind, workers, err)
				}

				assertEqual(t, params.Kind.String(), dst, expected)
			}
		}

		assertEqual(t, "source untouched", src, original)
	})

	t.Run("hole punch is reproducible", func(t *testing.T) {
		src := randomGrid(t, 120, 90, 3)
		params := filter.Params{Kind: filter.HolePunch, Seed: 1234}

		a, err := pipeline.Apply(ctx, src, params, 4)
		if err != nil {
			t.Fatal(err)
		}

		b, err := pipeline.Apply(ctx, src, params, 7)
		if err != nil {
			t.Fatal(err)
		}

		assertEqual(t, "cheese", a, b)
	})

	t.Run("runs with logging and tracing", func(t *testing.T) {
		log := logger.New(zap.ErrorLevel)
		defer log.Sync()

		tracer, recorder := test.Recorder(log)
		runner := &pipeline.Runner{Log: log, Tracer: tracer}
		src := uniformGrid(t, 8, 2, pixel.Pixel{R: 1, G: 2, B: 3})

		dst, err := runner.Apply(ctx, src, filter.Params{Kind: filter.Grayscale}, 3)
		if err != nil {
			t.Fatal(err)
		}

		assertEqual(t, "grayscale", dst, uniformGrid(t, 8, 2, pixel.Pixel{R: 1, G: 1, B: 1}))

		if names := test.SpanNames(recorder); !reflect.DeepEqual(names, []string{"pipeline.run", "pipeline.Apply"}) {
			t.Errorf("wrong spans %v", names)
		}
	})
}

func TestApplyErrors(t *testing.T) {
	ctx := context.Background()
	src := uniformGrid(t, 3, 3, pixel.Black)

	tests := []struct {
		Name          string
		Params        filter.Params
		Workers       int
		ExpectedError error
	}{
		{"more workers than columns", filter.Params{Kind: filter.Grayscale}, 4, band.ErrInvalidPartition},
		{"no workers", filter.Params{Kind: filter.Grayscale}, 0, band.ErrInvalidPartition},
		{"even kernel", filter.Params{Kind: filter.BoxBlur, KernelSize: 2}, 1, filter.ErrInvalidKernel},
	}

	for _, test := range tests {
		_, err := pipeline.Apply(ctx, src, test.Params, test.Workers)
		if !errors.Is(err, test.ExpectedError) {
			t.Errorf("%s: wrong error %v", test.Name, err)
		}
	}
}

func TestJob(t *testing.T) {
	src := randomGrid(t, 10, 4, 5)
	b := band.Band{Start: 3, End: 6}
	params := filter.Params{Kind: filter.ChannelShift, Shift: filter.Shift{R: 1, G: 1, B: 1}}

	job, err := pipeline.NewJob(b, src, params)
	if err != nil {
		t.Fatal(err)
	}

	if job.Output.Width != 4 || job.Output.Height != 4 {
		t.Fatalf("wrong output size %dx%d", job.Output.Width, job.Output.Height)
	}

	if err := job.Run(); err != nil {
		t.Fatal(err)
	}

	for row := 0; row < src.Height; row++ {
		for col := b.Start; col <= b.End; col++ {
			expected := params.Pixel(src, row, col)
			if got := job.Output.At(row, col-b.Start); got != expected {
				t.Errorf("(%d, %d): got %+v, expected %+v", row, col, got, expected)
			}
		}
	}

	t.Run("recovers a failing worker", func(t *testing.T) {
		broken := &pipeline.Job{Band: band.Band{Start: 0, End: 9}, Source: src, Output: job.Output, Params: params}
		if err := broken.Run(); !errors.Is(err, pipeline.ErrWorkerFailed) {
			t.Errorf("wrong error %v", err)
		}
	})

	job.Release()
	if !job.Output.Released() {
		t.Error("output not released")
	}
}

func TestStitch(t *testing.T) {
	src := randomGrid(t, 11, 3, 9)
	bands, err := band.Partition(src.Width, 3)
	if err != nil {
		t.Fatal(err)
	}

	jobs := make([]*pipeline.Job, len(bands))
	for i, b := range bands {
		job, err := pipeline.NewJob(b, src, filter.Params{Kind: filter.Grayscale})
		if err != nil {
			t.Fatal(err)
		}

		// Arbitrary per-band content
		for row := 0; row < job.Output.Height; row++ {
			for col := 0; col < job.Output.Width; col++ {
				job.Output.Set(row, col, pixel.Pixel{R: uint8(i), G: uint8(row), B: uint8(col)})
			}
		}
		jobs[i] = job
	}

	dst, err := pixel.New(src.Width, src.Height)
	if err != nil {
		t.Fatal(err)
	}

	if err := pipeline.Stitch(dst, jobs); err != nil {
		t.Fatal(err)
	}

	for i, job := range jobs {
		for row := 0; row < dst.Height; row++ {
			for col := job.Band.Start; col <= job.Band.End; col++ {
				expected := pixel.Pixel{R: uint8(i), G: uint8(row), B: uint8(col - job.Band.Start)}
				if got := dst.At(row, col); got != expected || got != job.Output.At(row, col-job.Band.Start) {
					t.Errorf("(%d, %d): got %+v, expected %+v", row, col, got, expected)
				}
			}
		}
	}

	t.Run("rejects a band outside the grid", func(t *testing.T) {
		small, _ := pixel.New(5, 3)
		if err := pipeline.Stitch(small, jobs); err == nil {
			t.Error("no error")
		}
	})
}
