package pipeline

import (
	"fmt"

	"github.com/DMarby/bandfilter/internal/pixel"
)

// Stitch copies each job's output into dst at column offset Band.Start
func Stitch(dst *pixel.Grid, jobs []*Job) error {
	for _, job := range jobs {
		if job.Band.End >= dst.Width || job.Output.Height != dst.Height || job.Output.Width != job.Band.Width() {
			return fmt.Errorf("band %d-%d (%dx%d) does not fit a %dx%d grid", job.Band.Start, job.Band.End, job.Output.Width, job.Output.Height, dst.Width, dst.Height)
		}

		for row := 0; row < dst.Height; row++ {
			copy(dst.Row(row)[job.Band.Start:job.Band.End+1], job.Output.Row(row))
		}
	}

	return nil
}
