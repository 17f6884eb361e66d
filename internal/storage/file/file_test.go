package file_test

import (
	"context"
	"os"
	"reflect"

	"github.com/DMarby/bandfilter/internal/storage"
	"github.com/DMarby/bandfilter/internal/storage/file"

	"testing"
)

func TestFile(t *testing.T) {
	provider, err := file.New("../../../test/fixtures/file")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Get an image by id", func(t *testing.T) {
		buf, err := provider.Get(context.Background(), "1")
		if err != nil {
			t.Fatal(err)
		}

		resultFixture, _ := os.ReadFile("../../../test/fixtures/file/1.bmp")
		if !reflect.DeepEqual(buf, resultFixture) {
			t.Error("image data doesn't match")
		}
	})

	t.Run("Returns error on a nonexistant path", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})

	t.Run("Returns error on a file path", func(t *testing.T) {
		_, err := file.New("../../../test/fixtures/file/1.bmp")
		if err == nil {
			t.FailNow()
		}
	})

	tests := []struct {
		Name string
		ID   string
	}{
		{"nonexistant image", "nonexistant"},
		{"path traversal", "../file/1"},
		{"empty id", ""},
	}

	for _, test := range tests {
		_, err := provider.Get(context.Background(), test.ID)
		if err != storage.ErrNotFound {
			t.Errorf("%s: wrong error %v", test.Name, err)
		}
	}
}
