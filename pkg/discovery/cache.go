package discovery

import (
	"net/url"
	"sync"
	"time"

	"github.com/printkit/printkit-go/pkg/log"
)

// CapabilityCache decorates a CapabilitySource with TTL caching keyed by
// printer URI. Concurrent requests for the same URI are merged into one
// underlying lookup. Negative results (no answer) are not cached, so a
// printer that comes online is noticed on the next request.
type CapabilityCache struct {
	source CapabilitySource
	ttl    time.Duration
	logger log.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	pending map[string][]CapabilityHandler
}

type cacheEntry struct {
	caps Capabilities
	at   time.Time
}

// CacheConfig configures a CapabilityCache.
type CacheConfig struct {
	// Source is the underlying capability source. Required.
	Source CapabilitySource

	// TTL is how long a lookup result stays fresh.
	// Default: DefaultCacheTTL.
	TTL time.Duration

	// Logger receives cache events. Nil disables logging.
	Logger log.Logger
}

// NewCapabilityCache creates a capability cache over the given source.
func NewCapabilityCache(cfg CacheConfig) (*CapabilityCache, error) {
	if cfg.Source == nil {
		return nil, ErrMissingSource
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	return &CapabilityCache{
		source:  cfg.Source,
		ttl:     cfg.TTL,
		logger:  cfg.Logger,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
		pending: make(map[string][]CapabilityHandler),
	}, nil
}

// Request answers from the cache when a fresh entry exists, otherwise
// delegates to the underlying source. refresh bypasses the cache but
// still stores the new result.
func (c *CapabilityCache) Request(p *Printer, refresh bool, handler CapabilityHandler) {
	key := p.URI.String()

	c.mu.Lock()
	if !refresh {
		if entry, ok := c.entries[key]; ok {
			if c.now().Sub(entry.at) < c.ttl {
				c.mu.Unlock()
				caps := entry.caps
				handler(&caps)
				return
			}
			delete(c.entries, key)
		}
	}

	// Merge with an in-flight lookup for the same URI
	if handlers, ok := c.pending[key]; ok {
		c.pending[key] = append(handlers, handler)
		c.mu.Unlock()
		return
	}
	c.pending[key] = []CapabilityHandler{handler}
	c.mu.Unlock()

	c.source.Request(p, refresh, func(caps *Capabilities) {
		c.mu.Lock()
		if caps != nil {
			c.entries[key] = cacheEntry{caps: *caps, at: c.now()}
		}
		handlers := c.pending[key]
		delete(c.pending, key)
		c.mu.Unlock()

		for _, h := range handlers {
			h(caps)
		}
	})
}

// EvictOnNetworkChange drops every cached entry for the URI's host.
// Discovery sessions call this when re-announcing printers so cached
// reachability verdicts do not outlive a network change.
func (c *CapabilityCache) EvictOnNetworkChange(uri *url.URL) {
	host := uri.Hostname()

	c.mu.Lock()
	evicted := 0
	for key := range c.entries {
		if u, err := url.Parse(key); err == nil && u.Hostname() == host {
			delete(c.entries, key)
			evicted++
		}
	}
	c.mu.Unlock()

	if evicted > 0 {
		c.logger.Log(log.Event{
			Timestamp: time.Now(),
			Source:    log.SourceCache,
			Category:  log.CategoryState,
			URI:       uri.String(),
			State: &log.StateChangeEvent{
				NewState: "evicted",
				Reason:   "network change",
			},
		})
	}

	// The underlying source may hold network state of its own
	if inner, ok := c.source.(NetworkCache); ok {
		inner.EvictOnNetworkChange(uri)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ CapabilitySource = (*CapabilityCache)(nil)
	_ NetworkCache     = (*CapabilityCache)(nil)
)
