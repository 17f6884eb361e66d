// Package bmp converts between BMP streams and pixel grids.
//
// Pixels are stored on the wire as blue, green, red, with each row padded to a
// 4-byte boundary. Both bottom-up and top-down files are read; files are always
// written bottom-up at 24 bits per pixel.
package bmp

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/DMarby/bandfilter/internal/pixel"
	"golang.org/x/image/bmp"
)

// ContentType is the media type of encoded images
const ContentType = "image/bmp"

// Errors
var (
	ErrEmptyImage = errors.New("empty image")
)

// Decode reads a BMP image into a new grid
func Decode(r io.Reader) (*pixel.Grid, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("error decoding bmp: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	grid, err := pixel.New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if rgba, ok := img.(*image.RGBA); ok {
		for row := 0; row < grid.Height; row++ {
			offset := rgba.PixOffset(bounds.Min.X, bounds.Min.Y+row)
			out := grid.Row(row)
			for col := range out {
				out[col] = pixel.Pixel{R: rgba.Pix[offset], G: rgba.Pix[offset+1], B: rgba.Pix[offset+2]}
				offset += 4
			}
		}

		return grid, nil
	}

	for row := 0; row < grid.Height; row++ {
		for col := 0; col < grid.Width; col++ {
			r, g, b, _ := img.At(bounds.Min.X+col, bounds.Min.Y+row).RGBA()
			grid.Set(row, col, pixel.Pixel{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}

	return grid, nil
}

// Encode writes the grid as an opaque 24-bit BMP
func Encode(w io.Writer, grid *pixel.Grid) error {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for row := 0; row < grid.Height; row++ {
		offset := img.PixOffset(0, row)
		for _, p := range grid.Row(row) {
			img.Pix[offset] = p.R
			img.Pix[offset+1] = p.G
			img.Pix[offset+2] = p.B
			img.Pix[offset+3] = 0xff
			offset += 4
		}
	}

	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("error encoding bmp: %w", err)
	}

	return nil
}

// DecodeConfig returns the dimensions of a BMP image without decoding its pixels
func DecodeConfig(r io.Reader) (width, height int, err error) {
	config, err := bmp.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("error decoding bmp header: %w", err)
	}

	return config.Width, config.Height, nil
}
