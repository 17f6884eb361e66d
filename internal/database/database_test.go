package database_test

import (
	"errors"
	"testing"

	"github.com/DMarby/bandfilter/internal/database"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		Name          string
		Image         database.Image
		ExpectedError error
	}{
		{"valid", database.Image{ID: "1", Width: 64, Height: 48}, nil},
		{"no id", database.Image{Width: 64, Height: 48}, database.ErrInvalidManifest},
		{"no width", database.Image{ID: "1", Height: 48}, database.ErrInvalidManifest},
		{"negative height", database.Image{ID: "1", Width: 64, Height: -1}, database.ErrInvalidManifest},
	}

	for _, test := range tests {
		if err := test.Image.Validate(); !errors.Is(err, test.ExpectedError) {
			t.Errorf("%s: wrong error %v", test.Name, err)
		}
	}
}

func TestMaxWorkers(t *testing.T) {
	if n := (database.Image{ID: "1", Width: 64, Height: 48}).MaxWorkers(); n != 64 {
		t.Errorf("wrong max workers %d", n)
	}
}
