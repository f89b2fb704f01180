package store

import (
	"sync"
	"testing"
	"time"
)

func newTestCache(start time.Time) (*ResponseCache, *time.Time) {
	now := start
	c := NewResponseCache()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestResponseCacheGetSet(t *testing.T) {
	c, now := newTestCache(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, ok := c.Get("/api/weather?lat=1&lon=2"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set("/api/weather?lat=1&lon=2", []byte(`{"ok":true}`), 5*time.Minute)

	got, ok := c.Get("/api/weather?lat=1&lon=2")
	if !ok || string(got) != `{"ok":true}` {
		t.Fatalf("expected hit, got %q (ok=%v)", got, ok)
	}

	*now = now.Add(5*time.Minute - time.Second)
	if _, ok := c.Get("/api/weather?lat=1&lon=2"); !ok {
		t.Fatalf("expected hit just before expiry")
	}

	*now = now.Add(time.Second)
	if _, ok := c.Get("/api/weather?lat=1&lon=2"); ok {
		t.Fatalf("expected miss at expiry")
	}
}

func TestResponseCacheNonPositiveTTL(t *testing.T) {
	c, _ := newTestCache(time.Now())

	c.Set("k", []byte("v"), 0)
	c.Set("j", []byte("v"), -time.Second)

	if c.Len() != 0 {
		t.Fatalf("expected nothing stored, got %d", c.Len())
	}
}

func TestResponseCacheDeleteExpired(t *testing.T) {
	c, now := newTestCache(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	c.Set("point", []byte("a"), 5*time.Minute)
	c.Set("heatmap_temperature_60.0_20.0_-60.0_-130.0", []byte("b"), 10*time.Minute)

	*now = now.Add(6 * time.Minute)

	if removed := c.DeleteExpired(); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", c.Len())
	}
	if _, ok := c.Get("heatmap_temperature_60.0_20.0_-60.0_-130.0"); !ok {
		t.Fatalf("expected heatmap entry to survive")
	}
}

func TestResponseCacheConcurrentAccess(t *testing.T) {
	c := NewResponseCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Set(key, []byte("v"), time.Minute)
			c.Get(key)
			c.DeleteExpired()
		}(i)
	}
	wg.Wait()

	if c.Len() != 26 {
		t.Fatalf("expected 26 keys, got %d", c.Len())
	}
}
