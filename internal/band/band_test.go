package band_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DMarby/bandfilter/internal/band"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		Name     string
		Width    int
		Workers  int
		Expected []band.Band
	}{
		{"single worker", 5, 1, []band.Band{{0, 4}}},
		{"even split", 4, 2, []band.Band{{0, 1}, {2, 3}}},
		{"remainder goes to the last band", 10, 3, []band.Band{{0, 2}, {3, 5}, {6, 9}}},
		{"one column per worker", 3, 3, []band.Band{{0, 0}, {1, 1}, {2, 2}}},
		{"default worker count", 30, 12, []band.Band{
			{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {10, 11},
			{12, 13}, {14, 15}, {16, 17}, {18, 19}, {20, 21}, {22, 29},
		}},
	}

	for _, test := range tests {
		bands, err := band.Partition(test.Width, test.Workers)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if !reflect.DeepEqual(bands, test.Expected) {
			t.Errorf("%s: wrong bands %+v", test.Name, bands)
		}
	}
}

func TestPartitionCoverage(t *testing.T) {
	for width := 1; width <= 64; width++ {
		for workers := 1; workers <= width; workers++ {
			bands, err := band.Partition(width, workers)
			if err != nil {
				t.Fatalf("%dx%d: %s", width, workers, err)
			}

			if len(bands) != workers {
				t.Fatalf("%dx%d: got %d bands", width, workers, len(bands))
			}

			covered := make([]int, width)
			next := 0
			for _, b := range bands {
				if b.Start != next {
					t.Fatalf("%dx%d: band %+v does not start at %d", width, workers, b, next)
				}

				if b.Width() < 1 {
					t.Fatalf("%dx%d: empty band %+v", width, workers, b)
				}

				for col := b.Start; col <= b.End; col++ {
					covered[col]++
				}
				next = b.End + 1
			}

			for col, count := range covered {
				if count != 1 {
					t.Fatalf("%dx%d: column %d covered %d times", width, workers, col, count)
				}
			}
		}
	}
}

func TestPartitionErrors(t *testing.T) {
	tests := []struct {
		Name    string
		Width   int
		Workers int
	}{
		{"fewer columns than workers", 3, 4},
		{"zero width", 0, 1},
		{"negative width", -4, 1},
		{"zero workers", 10, 0},
	}

	for _, test := range tests {
		_, err := band.Partition(test.Width, test.Workers)
		if !errors.Is(err, band.ErrInvalidPartition) {
			t.Errorf("%s: wrong error %v", test.Name, err)
		}
	}
}

func TestBand(t *testing.T) {
	b := band.Band{Start: 3, End: 5}
	if b.Width() != 3 {
		t.Errorf("wrong width %d", b.Width())
	}

	if !b.Contains(3) || !b.Contains(5) || b.Contains(2) || b.Contains(6) {
		t.Error("wrong containment")
	}
}
