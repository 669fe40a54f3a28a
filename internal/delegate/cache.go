package delegate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"codexplain/internal/patterns"
)

// cached wraps a delegate with a bounded in-memory response cache. Identical
// submissions (same code, language, and model) reuse the stored explanation
// instead of spending model quota. The cache is thread-safe and holds
// completed responses only; failures are never cached.
type cached struct {
	inner Delegate
	cache *lru.Cache[string, string]
}

// Cached wraps the delegate with an LRU response cache of the given size.
// A size of zero or less disables caching and returns the delegate as-is.
func Cached(inner Delegate, size int) Delegate {
	if size <= 0 {
		return inner
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return inner
	}
	return &cached{inner: inner, cache: c}
}

func (c *cached) Name() string { return c.inner.Name() }

func (c *cached) Models() []ModelInfo { return c.inner.Models() }

func (c *cached) DefaultModel() string { return c.inner.DefaultModel() }

func (c *cached) Explain(ctx context.Context, code string, lang patterns.Language, model string) (string, error) {
	key := cacheKey(code, lang, model)
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}
	text, err := c.inner.Explain(ctx, code, lang, model)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

func cacheKey(code string, lang patterns.Language, model string) string {
	h := sha256.New()
	h.Write([]byte(code))
	h.Write([]byte{0})
	h.Write([]byte(lang))
	h.Write([]byte{0})
	h.Write([]byte(model))
	return hex.EncodeToString(h.Sum(nil))
}
