// Package fetch keeps one remote resource fresh for a single consumer.
//
// A Query moves through Idle -> Loading -> {Success, Error} and re-enters
// Loading when its dependencies change or when Refetch is called. Results are
// shared through an injected cache keyed by URL. Each Query has at most one
// request in flight: starting a new cycle cancels the previous one and any
// response that arrives for a cancelled cycle is dropped.
package fetch

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/Beka01247/smart-stock/internal/cache"
	"github.com/Beka01247/smart-stock/internal/retry"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher performs one GET of url and decodes the body into out.
type Fetcher interface {
	Fetch(ctx context.Context, url string, out any) error
}

const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// Options zero values fall back to the package defaults. RetryAttempts is
// the total number of attempts per cycle.
type Options struct {
	CacheTTL      time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = DefaultRetryAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

type Result[T any] struct {
	Data         T
	Status       Status
	IsLoading    bool
	ErrorMessage string
	// Cycle numbers the load cycle that produced the result, starting at 1.
	Cycle uint64
}

type cycle struct {
	id     uint64
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (c *cycle) settle() {
	c.once.Do(func() { close(c.done) })
}

type Query[T any] struct {
	fetcher Fetcher
	cache   *cache.Cache
	opts    Options

	mu        sync.Mutex
	url       string
	deps      []any
	started   bool
	closed    bool
	state     Result[T]
	current   *cycle
	seq       uint64
	version   uint64
	listeners []func(Result[T])

	// notifyMu orders listener calls; delivered is the last version they saw.
	notifyMu  sync.Mutex
	delivered uint64
}

func New[T any](fetcher Fetcher, c *cache.Cache, url string, opts Options) *Query[T] {
	if c == nil {
		c = cache.New()
	}
	return &Query[T]{
		fetcher: fetcher,
		cache:   c,
		opts:    opts.withDefaults(),
		url:     url,
	}
}

// OnChange registers fn to be called after state transitions. Calls are
// serialized and never go back in time: a transition overtaken by a newer
// one before it could be delivered is skipped, so a cancelled cycle's result
// never follows the next cycle's Loading. fn must not call back into q.
func (q *Query[T]) OnChange(fn func(Result[T])) {
	q.mu.Lock()
	q.listeners = append(q.listeners, fn)
	q.mu.Unlock()
}

// Load starts a cycle on the first call and whenever deps differ from the
// previous call. Repeated calls with equal deps are no-ops.
func (q *Query[T]) Load(deps ...any) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if q.started && reflect.DeepEqual(q.deps, deps) {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.deps = deps
	q.begin()
}

// SetURL points the query at another resource, restarting it if it was loaded.
func (q *Query[T]) SetURL(url string) {
	q.mu.Lock()
	if q.closed || q.url == url {
		q.mu.Unlock()
		return
	}
	q.url = url
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.begin()
}

// Refetch evicts the cached value and forces a network round trip with a
// fresh retry budget.
func (q *Query[T]) Refetch() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.cache.Delete(q.url)
	q.started = true
	q.begin()
}

// ClearCache evicts the cached value for this query without refetching.
func (q *Query[T]) ClearCache() {
	q.mu.Lock()
	url := q.url
	q.mu.Unlock()

	q.cache.Delete(url)
}

func (q *Query[T]) State() Result[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Wait blocks until the current cycle settles or ctx is done and returns the
// state at that moment. Cycles superseded while waiting are followed.
func (q *Query[T]) Wait(ctx context.Context) Result[T] {
	for {
		q.mu.Lock()
		c := q.current
		st := q.state
		q.mu.Unlock()

		if c == nil {
			return st
		}

		select {
		case <-c.done:
		case <-ctx.Done():
			return q.State()
		}

		q.mu.Lock()
		same := q.closed || q.current == c
		st = q.state
		q.mu.Unlock()

		if same {
			return st
		}
	}
}

// Close cancels in-flight work. The query makes no transitions afterwards.
func (q *Query[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	if q.current != nil {
		q.current.cancel()
		q.current.settle()
	}
}

// begin must be called with q.mu held; it releases the lock.
func (q *Query[T]) begin() {
	if prev := q.current; prev != nil {
		prev.cancel()
		prev.settle()
	}

	q.seq++
	ctx, cancel := context.WithCancel(context.Background())
	c := &cycle{id: q.seq, cancel: cancel, done: make(chan struct{})}
	q.current = c
	url := q.url

	if v, ok := q.cache.Get(url, q.opts.CacheTTL); ok {
		if data, ok := v.(T); ok {
			cancel()
			q.state = Result[T]{Data: data, Status: StatusSuccess, Cycle: c.id}
			c.settle()
			q.publish()
			return
		}
	}

	q.state = Result[T]{Data: q.state.Data, Status: StatusLoading, IsLoading: true, Cycle: c.id}
	q.publish()

	go q.run(ctx, c, url)
}

func (q *Query[T]) run(ctx context.Context, c *cycle, url string) {
	var data T
	policy := retry.Policy{Attempts: q.opts.RetryAttempts, Delay: q.opts.RetryDelay}

	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		var out T
		if err := q.fetcher.Fetch(ctx, url, &out); err != nil {
			return err
		}
		data = out
		return nil
	})

	q.mu.Lock()
	if q.closed || q.current != c || ctx.Err() != nil {
		q.mu.Unlock()
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			q.mu.Unlock()
			return
		}
		q.state = Result[T]{Data: q.state.Data, Status: StatusError, ErrorMessage: errorMessage(err), Cycle: c.id}
	} else {
		q.cache.Set(url, data)
		q.state = Result[T]{Data: data, Status: StatusSuccess, Cycle: c.id}
	}
	c.cancel()
	c.settle()
	q.publish()
}

// publish must be called with q.mu held; it releases the lock before
// notifying listeners.
func (q *Query[T]) publish() {
	q.version++
	v := q.version
	st := q.state
	listeners := append([]func(Result[T]){}, q.listeners...)
	q.mu.Unlock()

	q.notifyMu.Lock()
	defer q.notifyMu.Unlock()

	if v <= q.delivered {
		return
	}
	q.delivered = v
	for _, fn := range listeners {
		fn(st)
	}
}

func errorMessage(err error) string {
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) && exhausted.Err != nil {
		return exhausted.Err.Error()
	}
	return err.Error()
}
