// Package cache memoizes platform fetches per (platform, username) for a
// fixed time-to-live.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/blackwell-systems/devstreaks/internal/platform"
)

// DefaultTTL is how long a fetched activity is served from cache.
const DefaultTTL = 10 * time.Minute

// Key identifies a cache entry. Usernames are compared case-sensitively
// after trimming, matching the platforms' own lookup.
type Key struct {
	Platform platform.Platform `json:"platform"`
	Username string            `json:"username"`
}

// NewKey builds a normalized key.
func NewKey(p platform.Platform, username string) Key {
	return Key{Platform: p, Username: strings.TrimSpace(username)}
}

func (k Key) String() string {
	return string(k.Platform) + "/" + k.Username
}

// Entry is a stored fetch result.
type Entry struct {
	Key      Key               `json:"key"`
	Activity platform.Activity `json:"activity"`
	StoredAt time.Time         `json:"stored_at"`
}

// ErrNotFound is returned by Store.Load for a missing key.
var ErrNotFound = errors.New("cache entry not found")

// Store is the backing storage of a Cache. Save replaces any existing entry
// for the same key.
type Store interface {
	Load(key Key) (Entry, error)
	Save(e Entry) error
	Delete(key Key) error
	Clear() error
}

// FetchFunc retrieves fresh activity on a cache miss.
type FetchFunc func(ctx context.Context) (platform.Activity, error)

// Cache serves activities younger than its TTL from a Store and collapses
// concurrent misses for the same key into one fetch.
type Cache struct {
	store Store
	ttl   time.Duration
	now    func() time.Time
	group  singleflight.Group
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the clock used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New returns a Cache over store. A ttl of zero or less disables caching:
// every call fetches.
func New(store Store, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Fetch returns the cached activity for key when it is still fresh,
// otherwise calls fetch and stores the result. The bool reports a cache hit.
// Fetch errors are returned as-is and never stored.
//
// Concurrent misses for one key share a single fetch. That fetch runs
// without the callers' cancellation, so one caller giving up neither
// cancels it nor fails the others; each caller still returns as soon as
// its own ctx is done.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch FetchFunc) (platform.Activity, bool, error) {
	if c.ttl <= 0 {
		a, err := fetch(ctx)
		return a, false, err
	}

	if a, ok := c.lookup(key); ok {
		return a, true, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if a, ok := c.lookup(key); ok {
			return a, nil
		}
		a, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		if err := c.store.Save(Entry{Key: key, Activity: a, StoredAt: c.now()}); err != nil {
			return nil, err
		}
		return a, nil
	})

	select {
	case <-ctx.Done():
		return platform.Activity{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return platform.Activity{}, false, res.Err
		}
		return res.Val.(platform.Activity), false, nil
	}
}

// lookup returns a fresh entry, deleting it if it has expired.
func (c *Cache) lookup(key Key) (platform.Activity, bool) {
	e, err := c.store.Load(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("cache load failed, refetching", "key", key.String(), "err", err)
		}
		return platform.Activity{}, false
	}
	if c.now().Sub(e.StoredAt) >= c.ttl {
		if err := c.store.Delete(key); err != nil {
			c.logger.Warn("cache evict failed", "key", key.String(), "err", err)
		}
		return platform.Activity{}, false
	}
	return e.Activity, true
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(key Key) error {
	return c.store.Delete(key)
}

// Clear drops every entry.
func (c *Cache) Clear() error {
	return c.store.Clear()
}
