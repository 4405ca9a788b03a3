package genai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultCacheMaxSize = 128
	defaultCacheTTL     = 5 * time.Minute
)

// CacheConfig configures the reply cache.
type CacheConfig struct {
	MaxSize int
	TTL     time.Duration
}

type cacheEntry struct {
	text     string
	storedAt time.Time
}

// CachedClient wraps a Client with an LRU reply cache keyed by the request
// content. Identical prompts inside the TTL reuse the earlier reply instead
// of spending another service call.
type CachedClient struct {
	inner Client
	cache *lru.Cache[string, cacheEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedClient wraps inner with caching.
func NewCachedClient(inner Client, cfg CacheConfig) (*CachedClient, error) {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = defaultCacheMaxSize
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache, err := lru.New[string, cacheEntry](maxSize)
	if err != nil {
		return nil, err
	}
	return &CachedClient{inner: inner, cache: cache, ttl: ttl, now: time.Now}, nil
}

// GenerateText implements Client.
func (c *CachedClient) GenerateText(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if entry, ok := c.cache.Get(key); ok {
		if c.now().Sub(entry.storedAt) < c.ttl {
			return entry.text, nil
		}
		c.cache.Remove(key)
	}
	text, err := c.inner.GenerateText(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, cacheEntry{text: text, storedAt: c.now()})
	return text, nil
}

func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%g\x00%d", req.System, req.Prompt, req.Temperature, req.MaxTokens)))
	return hex.EncodeToString(sum[:])
}
