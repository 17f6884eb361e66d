package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"

	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/database/file"

	"testing"
)

var image = database.Image{
	ID:     "1",
	Author: "John Doe",
	URL:    "https://example.com/1",
	Width:  64,
	Height: 48,
}

var secondImage = database.Image{
	ID:     "2",
	Author: "Jane Doe",
	URL:    "https://example.com/2",
	Width:  8,
	Height: 4,
}

func TestFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := file.New("../../../test/fixtures/file/metadata_multiple.json")
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown()

	t.Run("Get an image by id", func(t *testing.T) {
		buf, err := provider.Get(ctx, "1")
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(buf, &image) {
			t.Error("image data doesn't match")
		}
	})

	t.Run("Returns a copy", func(t *testing.T) {
		buf, _ := provider.Get(ctx, "2")
		buf.Width = 1000

		again, _ := provider.Get(ctx, "2")
		if !reflect.DeepEqual(again, &secondImage) {
			t.Error("catalog entry was modified")
		}
	})

	t.Run("Returns error on a nonexistant image", func(t *testing.T) {
		_, err := provider.Get(ctx, "nonexistant")
		if err == nil || err.Error() != database.ErrNotFound.Error() {
			t.FailNow()
		}
	})

	t.Run("Returns a list of all the images", func(t *testing.T) {
		images, err := provider.ListAll(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(images, []database.Image{image, secondImage}) {
			t.Error("image data doesn't match")
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})

	tests := []struct {
		Name     string
		Manifest string
	}{
		{"missing id", `[{"author": "John Doe", "width": 1, "height": 1}]`},
		{"duplicate id", `[{"id": "1", "width": 1, "height": 1}, {"id": "1", "width": 1, "height": 1}]`},
		{"missing dimensions", `[{"id": "1", "author": "John Doe"}]`},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "metadata.json")
			if err := os.WriteFile(path, []byte(test.Manifest), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := file.New(path)
			if !errors.Is(err, database.ErrInvalidManifest) {
				t.Errorf("wrong error %v", err)
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := file.New(path); err == nil {
			t.Error("no error")
		}
	})
}
