package resource

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/userform/internal/errors"
)

// Source names where a fetch result came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceStore  Source = "store"
)

// FetchEvent describes one completed fetch. Callers that joined an
// in-flight fetch do not produce an event of their own.
type FetchEvent struct {
	Key      string
	Source   Source
	Duration time.Duration
	Err      error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithStore enables a second-level cache. Entries are written with ttl;
// zero keeps them until deleted.
func WithStore(store Store, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.store = store
		c.storeTTL = ttl
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithObserver registers fn to be called after every fetch.
func WithObserver(fn func(FetchEvent)) ClientOption {
	return func(c *Client) { c.observe = fn }
}

// Client is shared by resources. It owns the in-flight guard, the optional
// store and the context every fetch runs under.
type Client struct {
	group    singleflight.Group
	store    Store
	storeTTL time.Duration
	logger   *slog.Logger
	observe  func(FetchEvent)

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewClient creates a Client.
func NewClient(opts ...ClientOption) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		logger: slog.Default(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close cancels in-flight fetches and waits for background loads to
// finish. Fetches started after Close fail with E103.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// goTracked runs fn in a goroutine Close waits for.
func (c *Client) goTracked(fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
	return true
}

// loadFunc decodes cached when it is non-nil and fetches otherwise. It
// returns the value and, after a fetch, its encoded form for the store.
type loadFunc func(ctx context.Context, cached []byte) (value any, encoded []byte, err error)

// do runs load for key at most once at a time. The load runs under the
// client context; ctx only bounds the caller's wait.
func (c *Client) do(ctx context.Context, key string, useStore bool, load loadFunc) (any, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, errors.New(errors.CodeFetchClosed)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.run(key, useStore, load)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, errors.New(errors.CodeFetchClosed).Wrap(c.ctx.Err())
	}
}

func (c *Client) run(key string, useStore bool, load loadFunc) (any, error) {
	start := time.Now()

	if useStore && c.store != nil {
		data, err := c.store.Load(c.ctx, key)
		if err != nil {
			c.logger.Warn("resource store load failed", "key", key, "error", err)
		}
		if data != nil {
			val, _, err := load(c.ctx, data)
			if err == nil {
				c.emit(FetchEvent{Key: key, Source: SourceStore, Duration: time.Since(start)})
				return val, nil
			}
			c.logger.Warn("resource store entry unreadable", "key", key, "error", err)
		}
	}

	val, encoded, err := load(c.ctx, nil)
	c.emit(FetchEvent{Key: key, Source: SourceRemote, Duration: time.Since(start), Err: err})
	if err != nil {
		c.logger.Debug("resource fetch failed", "key", key, "error", err)
		return nil, err
	}
	c.logger.Debug("resource fetched", "key", key, "duration", time.Since(start))

	if c.store != nil && encoded != nil {
		if err := c.store.Save(c.ctx, key, encoded, c.storeTTL); err != nil {
			c.logger.Warn("resource store save failed", "key", key, "error", err)
		}
	}
	return val, nil
}

func (c *Client) emit(ev FetchEvent) {
	if c.observe != nil {
		c.observe(ev)
	}
}

// forget drops the cached entry for key and detaches any in-flight call so
// the next fetch starts fresh.
func (c *Client) forget(key string) {
	c.group.Forget(key)
	if c.store == nil {
		return
	}
	if err := c.store.Delete(c.ctx, key); err != nil {
		c.logger.Warn("resource store delete failed", "key", key, "error", err)
	}
}
