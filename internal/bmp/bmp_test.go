package bmp_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/pixel"
)

// buildBMP writes a 24-bit BMP with the given rows (top row first).
// A negative height stores the rows top-down.
func buildBMP(t *testing.T, rows [][]pixel.Pixel, topDown bool) []byte {
	t.Helper()

	width := len(rows[0])
	height := len(rows)
	padding := width % 4
	stride := width*3 + padding

	var buf bytes.Buffer
	write := func(v interface{}) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}

	// File header
	buf.WriteString("BM")
	write(uint32(54 + stride*height))
	write(uint16(0))
	write(uint16(0))
	write(uint32(54))

	// Info header
	storedHeight := int32(height)
	if topDown {
		storedHeight = -storedHeight
	}
	write(uint32(40))
	write(int32(width))
	write(storedHeight)
	write(uint16(1))
	write(uint16(24))
	write(uint32(0))
	write(uint32(stride * height))
	write(int32(3780))
	write(int32(3780))
	write(uint32(0))
	write(uint32(0))

	for i := 0; i < height; i++ {
		row := rows[height-1-i]
		if topDown {
			row = rows[i]
		}

		for _, p := range row {
			buf.Write([]byte{p.B, p.G, p.R})
		}
		buf.Write(make([]byte, padding))
	}

	return buf.Bytes()
}

func gridRows(grid *pixel.Grid) [][]pixel.Pixel {
	rows := make([][]pixel.Pixel, grid.Height)
	for row := range rows {
		rows[row] = append([]pixel.Pixel(nil), grid.Row(row)...)
	}

	return rows
}

var fixture = [][]pixel.Pixel{
	{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}},
	{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}, {R: 7, G: 8, B: 9}},
}

func TestDecode(t *testing.T) {
	t.Run("bottom-up", func(t *testing.T) {
		grid, err := bmp.Decode(bytes.NewReader(buildBMP(t, fixture, false)))
		if err != nil {
			t.Fatal(err)
		}

		if grid.Width != 3 || grid.Height != 2 {
			t.Fatalf("wrong dimensions %dx%d", grid.Width, grid.Height)
		}

		if !reflect.DeepEqual(gridRows(grid), fixture) {
			t.Errorf("wrong pixels %+v", gridRows(grid))
		}
	})

	t.Run("top-down", func(t *testing.T) {
		grid, err := bmp.Decode(bytes.NewReader(buildBMP(t, fixture, true)))
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(gridRows(grid), fixture) {
			t.Errorf("wrong pixels %+v", gridRows(grid))
		}
	})

	t.Run("errors on garbage", func(t *testing.T) {
		if _, err := bmp.Decode(bytes.NewReader([]byte("not a bitmap"))); err == nil {
			t.Error("no error")
		}
	})
}

func TestEncode(t *testing.T) {
	grid, err := pixel.New(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	for row, pixels := range fixture {
		copy(grid.Row(row), pixels)
	}

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, grid); err != nil {
		t.Fatal(err)
	}

	t.Run("writes padded bottom-up rows", func(t *testing.T) {
		expected := buildBMP(t, fixture, false)
		if buf.Len() != len(expected) {
			t.Fatalf("wrong length %d, expected %d", buf.Len(), len(expected))
		}

		if !reflect.DeepEqual(buf.Bytes()[54:], expected[54:]) {
			t.Errorf("wrong pixel data %v", buf.Bytes()[54:])
		}
	})

	t.Run("round trips", func(t *testing.T) {
		decoded, err := bmp.Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(gridRows(decoded), fixture) {
			t.Errorf("wrong pixels %+v", gridRows(decoded))
		}
	})

	t.Run("header", func(t *testing.T) {
		width, height, err := bmp.DecodeConfig(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatal(err)
		}

		if width != 3 || height != 2 {
			t.Errorf("wrong dimensions %dx%d", width, height)
		}
	})
}

func TestDecodeConfigError(t *testing.T) {
	_, _, err := bmp.DecodeConfig(bytes.NewReader(nil))
	if err == nil || errors.Is(err, bmp.ErrEmptyImage) {
		t.Errorf("wrong error %v", err)
	}
}
