package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_GetRespectsTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	c := New(WithClock(clock.Now))

	c.Set("/api/inventory", []string{"milk"})

	if _, ok := c.Get("/api/inventory", time.Minute); !ok {
		t.Fatal("fresh entry missed")
	}

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("/api/inventory", time.Minute); !ok {
		t.Fatal("entry younger than ttl missed")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("/api/inventory", time.Minute); ok {
		t.Fatal("entry at ttl served, want miss")
	}

	if c.Stats().Size != 0 {
		t.Errorf("expired entry not evicted, size = %d", c.Stats().Size)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New()
	c.Set("pricing:sysco:milk", 1)
	c.Set("pricing:sysco:eggs", 2)
	c.Set("pricing:metro:milk", 3)
	c.Set("suppliers", 4)

	c.Delete("suppliers")
	if _, ok := c.Get("suppliers", time.Hour); ok {
		t.Error("deleted key still present")
	}

	if n := c.DeletePrefix("pricing:sysco:"); n != 2 {
		t.Errorf("DeletePrefix removed %d, want 2", n)
	}

	stats := c.Stats()
	if stats.Size != 1 || stats.Keys[0] != "pricing:metro:milk" {
		t.Errorf("unexpected stats %+v", stats)
	}

	c.Clear()
	if c.Stats().Size != 0 {
		t.Error("Clear left entries behind")
	}
}

func TestCache_ConcurrentUse(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("k", i)
			c.Get("k", time.Hour)
			c.Stats()
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get("k", time.Hour); !ok {
		t.Error("value lost after concurrent writes")
	}
}
