package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/storage"
	"github.com/DMarby/bandfilter/internal/storage/file"
)

const fixturePath = "../../test/fixtures/file"

func TestFillDimensions(t *testing.T) {
	provider, err := file.New(fixturePath)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("reads the bmp header", func(t *testing.T) {
		images := []database.Image{{ID: "1", Author: "John Doe"}}
		if err := fillDimensions(context.Background(), provider, images); err != nil {
			t.Fatal(err)
		}

		expected := []database.Image{{ID: "1", Author: "John Doe", Width: 64, Height: 48}}
		if !reflect.DeepEqual(images, expected) {
			t.Errorf("wrong images %+v", images)
		}
	})

	t.Run("missing image", func(t *testing.T) {
		images := []database.Image{{ID: "missing"}}
		if err := fillDimensions(context.Background(), provider, images); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("wrong error %v", err)
		}
	})
}

func TestManifestRoundTrip(t *testing.T) {
	images, err := readManifest(filepath.Join(fixturePath, "metadata_multiple.json"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "image-manifest.json")
	if err := writeManifest(path, images); err != nil {
		t.Fatal(err)
	}

	written, err := readManifest(path)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(written, images) {
		t.Errorf("wrong manifest %+v", written)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("temporary file left behind, %d entries", len(entries))
	}
}
