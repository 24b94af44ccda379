package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/storyboard/pkg/cache"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *cache.FileCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() failed: %v", err)
	}
	t.Cleanup(func() { fc.Close() })
	return NewCache(fc, nil, ttl), fc
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Hour)

	tests := []struct {
		name string
		key  string
		body []byte
	}{
		{"json", "https://example.com/week.json", []byte(`{"items":[]}`)},
		{"binary", "https://example.com/logo.png", []byte{0x89, 'P', 'N', 'G'}},
		{"empty", "https://example.com/empty", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.key, tt.body); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, ok := c.Get(ctx, tt.key)
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
			if string(got) != string(tt.body) {
				t.Errorf("Get() = %q, want %q", got, tt.body)
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, 10*time.Millisecond)

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok := c.Get(ctx, "key"); !ok {
		t.Fatal("Get() = false, want true")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "key"); ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_NilBackend(t *testing.T) {
	ctx := context.Background()
	c := NewCache(nil, nil, time.Hour)
	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("nil backend should never hit")
	}
}

func TestCache_Namespace(t *testing.T) {
	ctx := context.Background()
	c, fc := newTestCache(t, time.Hour)

	t.Run("basicNamespacing", func(t *testing.T) {
		schedules := c.Namespace("schedule")
		images := c.Namespace("image")

		_ = schedules.Set(ctx, "week", []byte("schedule-data"))
		_ = images.Set(ctx, "week", []byte("image-data"))

		got, _ := schedules.Get(ctx, "week")
		if string(got) != "schedule-data" {
			t.Errorf("schedules.Get() = %q, want %q", got, "schedule-data")
		}
		got, _ = images.Get(ctx, "week")
		if string(got) != "image-data" {
			t.Errorf("images.Get() = %q, want %q", got, "image-data")
		}
	})

	t.Run("keyLayout", func(t *testing.T) {
		ns := c.Namespace("image")
		_ = ns.Set(ctx, "logo", []byte("x"))
		if _, ok, _ := fc.Get(ctx, "http:image:logo"); !ok {
			t.Error("entry should be stored under the keyer's HTTP key")
		}
	})

	t.Run("chainedNamespacing", func(t *testing.T) {
		outer := c.Namespace("studio")
		inner := outer.Namespace("image")

		_ = inner.Set(ctx, "test", []byte("value"))
		if got, ok := inner.Get(ctx, "test"); !ok || string(got) != "value" {
			t.Errorf("Get() = %q, %v; want %q, true", got, ok, "value")
		}
		if _, ok := outer.Get(ctx, "test"); ok {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("preservesTTL", func(t *testing.T) {
		if ns := c.Namespace("x"); ns.TTL() != c.TTL() {
			t.Errorf("TTL() = %v, want %v", ns.TTL(), c.TTL())
		}
	})
}
