package source

import (
	"context"
	"sync"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
	"github.com/joeaphiboon/faculty-comparison/internal/metrics"
)

// Cache holds the last dataset a Loader produced. It reloads lazily when the
// loader's identity changes or after Invalidate. Failed loads are not cached.
type Cache struct {
	loader Loader

	mu     sync.Mutex
	key    string
	ds     *dataset.Dataset
	onLoad []func(*dataset.Dataset)
}

func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader}
}

// OnLoad registers fn to run after every successful reload.
func (c *Cache) OnLoad(fn func(*dataset.Dataset)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLoad = append(c.onLoad, fn)
}

func (c *Cache) Get(ctx context.Context) (*dataset.Dataset, error) {
	key := c.loader.Identity()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ds != nil && c.key == key {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return c.ds, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()
	return c.load(ctx, key)
}

// Peek returns the cached dataset without loading.
func (c *Cache) Peek() *dataset.Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ds
}

// Invalidate drops the cached dataset; the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ds, c.key = nil, ""
}

// Reload loads immediately. On failure the previous dataset stays cached.
func (c *Cache) Reload(ctx context.Context) (*dataset.Dataset, error) {
	key := c.loader.Identity()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, key)
}

// load must be called with c.mu held.
func (c *Cache) load(ctx context.Context, key string) (*dataset.Dataset, error) {
	ds, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.ds, c.key = ds, key
	for _, fn := range c.onLoad {
		fn(ds)
	}
	return ds, nil
}
