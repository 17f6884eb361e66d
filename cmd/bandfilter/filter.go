package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/filter"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bandfilter",
		Short:         "Apply a filter to a 24-bit BMP image, splitting the work into vertical bands",
		Args:          cobra.NoArgs,
		RunE:          runFilter,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("input", "i", "", "Input BMP file")
	cmd.Flags().StringP("output", "o", "", "Output BMP file")
	cmd.Flags().StringP("filter", "f", "", "Filter to apply (grayscale, shift, blur, cheese)")
	cmd.Flags().Int("shift-r", 0, "Red channel shift for the shift filter")
	cmd.Flags().Int("shift-g", 0, "Green channel shift for the shift filter")
	cmd.Flags().Int("shift-b", 0, "Blue channel shift for the shift filter")
	cmd.Flags().Int("kernel", filter.DefaultKernelSize, "Box blur kernel size, odd")
	cmd.Flags().Int("workers", pipeline.DefaultWorkers, "Number of bands to split the image into")
	cmd.Flags().Int64("seed", 0, "Seed for the cheese filter holes (default: current time)")
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("filter")

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	filterName, _ := cmd.Flags().GetString("filter")
	shiftR, _ := cmd.Flags().GetInt("shift-r")
	shiftG, _ := cmd.Flags().GetInt("shift-g")
	shiftB, _ := cmd.Flags().GetInt("shift-b")
	kernel, _ := cmd.Flags().GetInt("kernel")
	workers, _ := cmd.Flags().GetInt("workers")
	seed, _ := cmd.Flags().GetInt64("seed")
	levelName, _ := cmd.Flags().GetString("log-level")

	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return err
	}

	kind, err := filter.ParseKind(filterName)
	if err != nil {
		return err
	}

	// Entropy is only drawn here, everything below is reproducible from the seed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	params := filter.Params{
		Kind:       kind,
		Shift:      filter.Shift{R: shiftR, G: shiftG, B: shiftB},
		KernelSize: kernel,
		Seed:       seed,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	// Usage only helps with flag errors
	cmd.SilenceUsage = true

	log := logger.New(level)
	defer log.Sync()

	return filterFile(cmd.Context(), log, inputPath, outputPath, params, workers)
}

func filterFile(ctx context.Context, log *logger.Logger, inputPath, outputPath string, params filter.Params, workers int) error {
	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	defer input.Close()

	source, err := bmp.Decode(bufio.NewReader(input))
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	defer source.Release()

	log.Infow("filtering image",
		"input", inputPath,
		"filter", params.Kind.String(),
		"width", source.Width,
		"height", source.Height,
		"workers", workers,
		"seed", params.Seed,
	)

	runner := &pipeline.Runner{Log: log}
	filtered, err := runner.Apply(ctx, source, params, workers)
	if err != nil {
		return fmt.Errorf("filtering: %w", err)
	}
	defer filtered.Release()

	if err := writeOutput(outputPath, func(w io.Writer) error {
		return bmp.Encode(w, filtered)
	}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Infow("wrote image", "output", outputPath)
	return nil
}

// writeOutput creates path and fills it with encode.
// The file is removed if anything fails, so no truncated image is left behind.
func writeOutput(path string, encode func(w io.Writer) error) (err error) {
	output, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	writer := bufio.NewWriter(output)
	if err := encode(writer); err != nil {
		output.Close()
		return err
	}

	if err := writer.Flush(); err != nil {
		output.Close()
		return err
	}

	return output.Close()
}
