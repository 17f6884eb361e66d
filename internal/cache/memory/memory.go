package memory

import (
	"context"
	"sync"

	"github.com/DMarby/bandfilter/internal/cache"
)

// Provider implements an in-memory cache, bounded by the number of entries
type Provider struct {
	cache      map[string][]byte
	order      []string
	maxEntries int
	mutex      sync.RWMutex
}

// New returns a new Provider instance. A maxEntries of 0 disables eviction.
func New(maxEntries int) *Provider {
	return &Provider{
		cache:      make(map[string][]byte),
		maxEntries: maxEntries,
	}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.RLock()
	data, exists := p.cache[key]
	p.mutex.RUnlock()

	if !exists {
		return nil, cache.ErrNotFound
	}

	return data, nil
}

// Set adds an object to the cache, evicting the oldest entry when full
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, exists := p.cache[key]; !exists {
		p.order = append(p.order, key)
	}
	p.cache[key] = data

	if p.maxEntries > 0 && len(p.order) > p.maxEntries {
		oldest := p.order[0]
		p.order = p.order[1:]
		delete(p.cache, oldest)
	}

	return nil
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
