package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Beka01247/smart-stock/internal/cache"
)

type item struct {
	Name string `json:"name"`
}

// stubFetcher answers with the result of respond for each call.
type stubFetcher struct {
	calls   atomic.Int32
	respond func(ctx context.Context, call int32, out any) error
}

func (s *stubFetcher) Fetch(ctx context.Context, url string, out any) error {
	call := s.calls.Add(1)
	return s.respond(ctx, call, out)
}

func fill(out any, items ...item) {
	*(out.(*[]item)) = items
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

var fastRetry = Options{CacheTTL: time.Minute, RetryAttempts: 3, RetryDelay: time.Millisecond}

func TestQuery_SameURLWithinTTLHitsNetworkOnce(t *testing.T) {
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		fill(out, item{Name: "milk"})
		return nil
	}}
	shared := cache.New()

	first := New[[]item](f, shared, "/api/inventory", fastRetry)
	first.Load()
	res := first.Wait(waitCtx(t))
	if res.Status != StatusSuccess || len(res.Data) != 1 {
		t.Fatalf("first query = %+v", res)
	}

	second := New[[]item](f, shared, "/api/inventory", fastRetry)
	second.Load()
	res = second.State()
	if res.Status != StatusSuccess || res.IsLoading {
		t.Fatalf("second query should be served from cache synchronously, got %+v", res)
	}
	if res.Data[0].Name != "milk" {
		t.Errorf("cached data = %+v", res.Data)
	}

	if got := f.calls.Load(); got != 1 {
		t.Errorf("network calls = %d, want 1", got)
	}
}

func TestQuery_ExpiredEntryRefetches(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		fill(out, item{Name: "eggs"})
		return nil
	}}
	shared := cache.New(cache.WithClock(clock))

	q := New[[]item](f, shared, "/api/inventory", fastRetry)
	q.Load()
	q.Wait(waitCtx(t))

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	other := New[[]item](f, shared, "/api/inventory", fastRetry)
	other.Load()
	other.Wait(waitCtx(t))

	if got := f.calls.Load(); got != 2 {
		t.Errorf("network calls = %d, want 2 after ttl expiry", got)
	}
}

func TestQuery_DependencyChangeCancelsStaleRequest(t *testing.T) {
	release := make(chan struct{})
	firstCancelled := make(chan struct{})
	firstStarted := make(chan struct{})

	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		if call == 1 {
			close(firstStarted)
			<-ctx.Done()
			close(firstCancelled)
			// a slow transport may still hand back a body after the abort
			<-release
			fill(out, item{Name: "stale"})
			return nil
		}
		fill(out, item{Name: "fresh"})
		return nil
	}}

	q := New[[]item](f, cache.New(), "/api/sales", fastRetry)
	q.Load("2024-01")
	<-firstStarted

	q.Load("2024-02")

	select {
	case <-firstCancelled:
	case <-time.After(time.Second):
		t.Fatal("stale request was not cancelled")
	}

	res := q.Wait(waitCtx(t))
	if res.Status != StatusSuccess || res.Data[0].Name != "fresh" {
		t.Fatalf("state = %+v, want fresh success", res)
	}

	close(release)
	time.Sleep(20 * time.Millisecond)

	res = q.State()
	if res.Data[0].Name != "fresh" {
		t.Errorf("stale response was applied: %+v", res.Data)
	}
	if res.ErrorMessage != "" {
		t.Errorf("cancellation surfaced as error %q", res.ErrorMessage)
	}
}

func TestQuery_SameDependenciesDoNotReload(t *testing.T) {
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		fill(out, item{Name: "flour"})
		return nil
	}}
	q := New[[]item](f, cache.New(), "/api/menu-items", Options{CacheTTL: time.Nanosecond, RetryAttempts: 1})
	q.Load("owner-1", 7)
	q.Wait(waitCtx(t))
	q.Load("owner-1", 7)
	q.Wait(waitCtx(t))

	if got := f.calls.Load(); got != 1 {
		t.Errorf("network calls = %d, want 1", got)
	}
}

func TestQuery_RetryBudgetExhaustionAndManualRefetch(t *testing.T) {
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		return errors.New("upstream returned 502")
	}}

	q := New[[]item](f, cache.New(), "/api/suppliers", fastRetry)
	q.Load()
	res := q.Wait(waitCtx(t))

	if res.Status != StatusError {
		t.Fatalf("status = %v, want error", res.Status)
	}
	if res.IsLoading {
		t.Error("IsLoading still set after exhausting retries")
	}
	if res.ErrorMessage != "upstream returned 502" {
		t.Errorf("ErrorMessage = %q", res.ErrorMessage)
	}
	if got := f.calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := f.calls.Load(); got != 3 {
		t.Fatalf("automatic retry after error state: calls = %d", got)
	}

	q.Refetch()
	res = q.Wait(waitCtx(t))
	if res.Status != StatusError {
		t.Fatalf("status after refetch = %v", res.Status)
	}
	if got := f.calls.Load(); got != 6 {
		t.Errorf("calls after refetch = %d, want a fresh budget of 3 (total 6)", got)
	}
}

func TestQuery_RecoversWithinBudget(t *testing.T) {
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		if call < 3 {
			return errors.New("timeout")
		}
		fill(out, item{Name: "butter"})
		return nil
	}}

	q := New[[]item](f, cache.New(), "/api/inventory", fastRetry)
	q.Load()
	res := q.Wait(waitCtx(t))
	if res.Status != StatusSuccess || res.ErrorMessage != "" {
		t.Fatalf("state = %+v", res)
	}
}

func TestQuery_RefetchEvictsCache(t *testing.T) {
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		fill(out, item{Name: "sugar"})
		return nil
	}}
	shared := cache.New()

	q := New[[]item](f, shared, "/api/inventory", fastRetry)
	q.Load()
	q.Wait(waitCtx(t))

	q.Refetch()
	if st := q.State(); !st.IsLoading {
		t.Errorf("refetch served cache, state = %+v", st)
	}
	q.Wait(waitCtx(t))

	if got := f.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestQuery_ClearCache(t *testing.T) {
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		fill(out, item{Name: "salt"})
		return nil
	}}
	shared := cache.New()

	q := New[[]item](f, shared, "/api/inventory", fastRetry)
	q.Load()
	q.Wait(waitCtx(t))
	q.ClearCache()

	if shared.Stats().Size != 0 {
		t.Fatal("ClearCache left the entry")
	}
	if st := q.State(); st.Status != StatusSuccess {
		t.Errorf("ClearCache changed state to %v", st.Status)
	}
}

func TestQuery_CloseIsTerminal(t *testing.T) {
	started := make(chan struct{})
	f := &stubFetcher{respond: func(ctx context.Context, call int32, out any) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}

	var transitions atomic.Int32
	q := New[[]item](f, cache.New(), "/api/inventory", fastRetry)
	q.OnChange(func(Result[[]item]) { transitions.Add(1) })
	q.Load()
	<-started

	before := transitions.Load()
	q.Close()
	q.Wait(waitCtx(t))
	time.Sleep(20 * time.Millisecond)

	if got := transitions.Load(); got != before {
		t.Errorf("transitions after close: %d -> %d", before, got)
	}
	if st := q.State(); st.ErrorMessage != "" {
		t.Errorf("cancellation surfaced as %q", st.ErrorMessage)
	}

	q.Load("again")
	q.Refetch()
	if got := f.calls.Load(); got != 1 {
		t.Errorf("closed query issued %d calls", got)
	}
}

func TestQuery_SetURLRestarts(t *testing.T) {
	var mu sync.Mutex
	var urls []string
	f := fetcherFunc(func(ctx context.Context, url string, out any) error {
		mu.Lock()
		urls = append(urls, url)
		mu.Unlock()
		fill(out, item{Name: url})
		return nil
	})

	q := New[[]item](f, cache.New(), "/api/inventory", fastRetry)
	q.SetURL("/api/suppliers")
	q.Load()
	q.Wait(waitCtx(t))
	q.SetURL("/api/sales")
	res := q.Wait(waitCtx(t))

	if res.Data[0].Name != "/api/sales" {
		t.Errorf("data = %+v", res.Data)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(urls) != 2 || urls[0] != "/api/suppliers" {
		t.Errorf("urls = %v", urls)
	}
}

type fetcherFunc func(ctx context.Context, url string, out any) error

func (f fetcherFunc) Fetch(ctx context.Context, url string, out any) error {
	return f(ctx, url, out)
}

func TestQuery_ListenersNeverSeeStaleCycle(t *testing.T) {
	f := fetcherFunc(func(ctx context.Context, url string, out any) error {
		fill(out, item{Name: url})
		return nil
	})

	var mu sync.Mutex
	var seen []Result[[]item]
	q := New[[]item](f, cache.New(), "/api/inventory", fastRetry)
	q.OnChange(func(res Result[[]item]) {
		mu.Lock()
		seen = append(seen, res)
		mu.Unlock()
	})

	for i := 0; i < 200; i++ {
		q.Refetch()
	}
	final := q.Wait(waitCtx(t))

	// the settled cycle may still be delivering its result
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := len(seen) > 0 && seen[len(seen)-1].Cycle == final.Cycle && seen[len(seen)-1].Status == final.Status
		mu.Unlock()
		if done || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 {
		t.Fatal("no transitions delivered")
	}
	var latest uint64
	for i, res := range seen {
		if res.Cycle < latest {
			t.Fatalf("transition %d from cycle %d delivered after cycle %d", i, res.Cycle, latest)
		}
		latest = res.Cycle
	}
	if last := seen[len(seen)-1]; last.Status != final.Status || last.Cycle != final.Cycle {
		t.Errorf("last delivered %+v, final state %+v", last, final)
	}
	if final.Status != StatusSuccess || final.Cycle != 200 {
		t.Errorf("final = %+v", final)
	}
}
