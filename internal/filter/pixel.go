package filter

import (
	"github.com/DMarby/bandfilter/internal/pixel"
)

// GrayscalePixel sets every channel to floor(0.299R + 0.587G + 0.114B).
// Integer weights keep gray pixels fixed points, which float64 weights don't guarantee.
func GrayscalePixel(p pixel.Pixel) pixel.Pixel {
	luma := uint8((299*int(p.R) + 587*int(p.G) + 114*int(p.B)) / 1000)
	return pixel.Pixel{R: luma, G: luma, B: luma}
}

// ShiftPixel adds the shift to each channel, saturating at 0 and 255
func ShiftPixel(p pixel.Pixel, s Shift) pixel.Pixel {
	return pixel.Pixel{
		R: pixel.Clamp(int(p.R) + saturateShift(s.R)),
		G: pixel.Clamp(int(p.G) + saturateShift(s.G)),
		B: pixel.Clamp(int(p.B) + saturateShift(s.B)),
	}
}

// saturateShift limits a shift to [-255, 255], which already saturates any channel.
// Adding a larger shift could overflow int before the clamp.
func saturateShift(s int) int {
	switch {
	case s > 255:
		return 255
	case s < -255:
		return -255
	default:
		return s
	}
}

// BlurPixel averages the kernel x kernel neighborhood around (row, col) in src.
// Only in-bounds neighbors are counted, so edges and corners average over fewer samples.
func BlurPixel(src *pixel.Grid, row, col, kernel int) pixel.Pixel {
	half := kernel / 2

	var rSum, gSum, bSum, count int
	for r := row - half; r <= row+half; r++ {
		for c := col - half; c <= col+half; c++ {
			if !src.InBounds(r, c) {
				continue
			}

			p := src.At(r, c)
			rSum += int(p.R)
			gSum += int(p.G)
			bSum += int(p.B)
			count++
		}
	}

	if count == 0 {
		return src.At(row, col)
	}

	return pixel.Pixel{
		R: pixel.Clamp(rSum / count),
		G: pixel.Clamp(gSum / count),
		B: pixel.Clamp(bSum / count),
	}
}
