package resource

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/userform/internal/errors"
)

// State represents the current state of a resource.
type State int

const (
	Pending State = iota // Initial state, before first fetch
	Loading              // Fetch in progress
	Ready                // Data successfully loaded
	Error                // Fetch failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher loads a value. It must honour ctx cancellation.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Resource manages asynchronous data fetching and state for one key.
type Resource[T any] struct {
	client  *Client
	key     string
	fetcher Fetcher[T]

	mu        sync.Mutex
	state     State
	data      T
	err       error
	lastFetch time.Time
	stale     bool
	fetchID   uint64 // results of superseded fetches are dropped

	// Options
	staleTime time.Duration
	onSuccess func(T)
	onError   func(error)

	watchers  map[int]func(State)
	nextWatch int
}

// New creates a Resource for key. Nothing is fetched until Fetch or Load is
// called. Resources with the same key on the same client share in-flight
// fetches and store entries, so they must share T.
func New[T any](client *Client, key string, fetcher Fetcher[T]) *Resource[T] {
	if client == nil {
		panic("resource: nil client")
	}
	return &Resource[T]{
		client:   client,
		key:      key,
		fetcher:  fetcher,
		watchers: make(map[int]func(State)),
	}
}

// Key returns the cache key.
func (r *Resource[T]) Key() string { return r.key }

// State methods

func (r *Resource[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resource[T]) IsLoading() bool {
	s := r.State()
	return s == Loading || s == Pending
}

func (r *Resource[T]) IsReady() bool {
	return r.State() == Ready
}

func (r *Resource[T]) IsError() bool {
	return r.State() == Error
}

// Data access methods

func (r *Resource[T]) Data() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

func (r *Resource[T]) Error() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Snapshot returns state, data and error read together.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{State: r.state, Data: r.data, Err: r.err}
}

// Watch registers fn to be called after every state transition. The
// returned function removes it.
func (r *Resource[T]) Watch(fn func(State)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextWatch
	r.nextWatch++
	r.watchers[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.watchers, id)
		r.mu.Unlock()
	}
}

// Control methods

// Fetch starts a background fetch unless one is already running or the
// data is still fresh. With a zero StaleTime, ready data stays fresh until
// Invalidate is called.
func (r *Resource[T]) Fetch() {
	r.start(false)
}

// Refetch forces a fetch that bypasses freshness, the store and any fetch
// already in flight.
func (r *Resource[T]) Refetch() {
	r.client.group.Forget(r.key)
	r.start(true)
}

// Invalidate marks the current data as stale and drops the stored entry.
// The next Fetch loads it again.
func (r *Resource[T]) Invalidate() {
	r.mu.Lock()
	r.stale = true
	r.mu.Unlock()
	r.client.forget(r.key)
}

// Load returns the data, fetching it first when needed. ctx only bounds the
// wait; the fetch itself continues for other callers.
func (r *Resource[T]) Load(ctx context.Context) (T, error) {
	done := make(chan struct{}, 1)
	unwatch := r.Watch(func(s State) {
		if s == Ready || s == Error {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	defer unwatch()

	r.Fetch()

	for {
		snap := r.Snapshot()
		switch snap.State {
		case Ready:
			return snap.Data, nil
		case Error:
			var zero T
			return zero, snap.Err
		}
		select {
		case <-done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (r *Resource[T]) freshLocked() bool {
	if r.state != Ready || r.stale {
		return false
	}
	return r.staleTime <= 0 || time.Since(r.lastFetch) < r.staleTime
}

func (r *Resource[T]) start(force bool) {
	r.mu.Lock()
	if !force && (r.state == Loading || r.freshLocked()) {
		r.mu.Unlock()
		return
	}
	r.fetchID++
	id := r.fetchID
	useStore := !force && !r.stale
	r.state = Loading
	r.err = nil
	watchers := r.watchersLocked()
	r.mu.Unlock()

	notify(watchers, Loading)

	started := r.client.goTracked(func() {
		val, err := r.client.do(r.client.ctx, r.key, useStore, r.load)
		var data T
		if err == nil {
			data, _ = val.(T)
		}
		r.finish(id, data, err)
	})
	if !started {
		r.finish(id, *new(T), errors.New(errors.CodeFetchClosed))
	}
}

// load is the loadFunc handed to the client.
func (r *Resource[T]) load(ctx context.Context, cached []byte) (any, []byte, error) {
	if cached != nil {
		var v T
		if err := json.Unmarshal(cached, &v); err != nil {
			return nil, nil, err
		}
		return v, nil, nil
	}

	v, err := r.fetcher(ctx)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		// Unstorable values are still served from memory.
		encoded = nil
	}
	return v, encoded, nil
}

func (r *Resource[T]) finish(id uint64, data T, err error) {
	r.mu.Lock()
	if id != r.fetchID {
		r.mu.Unlock()
		return
	}
	r.lastFetch = time.Now()
	onSuccess, onError := r.onSuccess, r.onError
	next := Ready
	if err != nil {
		next = Error
		r.err = err
	} else {
		r.data = data
		r.stale = false
	}
	r.state = next
	watchers := r.watchersLocked()
	r.mu.Unlock()

	if err != nil {
		if onError != nil {
			onError(err)
		}
	} else if onSuccess != nil {
		onSuccess(data)
	}
	notify(watchers, next)
}

func (r *Resource[T]) watchersLocked() []func(State) {
	ids := make([]int, 0, len(r.watchers))
	for id := range r.watchers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(State), 0, len(ids))
	for _, id := range ids {
		out = append(out, r.watchers[id])
	}
	return out
}

func notify(watchers []func(State), s State) {
	for _, fn := range watchers {
		fn(s)
	}
}
