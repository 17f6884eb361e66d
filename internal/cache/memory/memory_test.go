package memory_test

import (
	"context"
	"testing"

	"github.com/DMarby/bandfilter/internal/cache"
	"github.com/DMarby/bandfilter/internal/cache/memory"
)

func TestMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := memory.New(0)

	t.Run("get item", func(t *testing.T) {
		provider.Set(ctx, "foo", []byte("bar"))

		data, err := provider.Get(ctx, "foo")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bar" {
			t.Fatal("wrong data")
		}
	})

	t.Run("get nonexistant item", func(t *testing.T) {
		_, err := provider.Get(ctx, "notfound")
		if err == nil {
			t.Fatal("no error")
		}

		if err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("evicts the oldest item", func(t *testing.T) {
		bounded := memory.New(2)
		bounded.Set(ctx, "a", []byte("1"))
		bounded.Set(ctx, "b", []byte("2"))
		bounded.Set(ctx, "a", []byte("3"))
		bounded.Set(ctx, "c", []byte("4"))

		if _, err := bounded.Get(ctx, "a"); err != cache.ErrNotFound {
			t.Errorf("oldest item not evicted: %v", err)
		}

		for _, key := range []string{"b", "c"} {
			if _, err := bounded.Get(ctx, key); err != nil {
				t.Errorf("%s: %s", key, err)
			}
		}
	})
}
