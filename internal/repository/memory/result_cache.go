package memory

import (
	"strings"
	"time"

	"srh-intent/internal/entity"

	"github.com/patrickmn/go-cache"
)

// ResultCache remembers successful classifications by query text so that an
// identical query later in the same run reuses the answer.
type ResultCache struct {
	cache *cache.Cache
}

// NewResultCache returns a cache whose entries live for ttl. The janitor runs
// at ttl intervals; a ttl of 0 or less keeps entries for the process lifetime.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		return &ResultCache{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &ResultCache{cache: cache.New(ttl, ttl)}
}

func cacheKey(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Save stores r under its query text. Failed results are ignored.
func (c *ResultCache) Save(r *entity.ClassificationResult) {
	if r == nil || !r.Succeeded() {
		return
	}
	c.cache.Set(cacheKey(r.Query), r, cache.DefaultExpiration)
}

// Get returns a copy of the cached result for text, re-keyed to q.
func (c *ResultCache) Get(q entity.Query) (*entity.ClassificationResult, bool) {
	x, found := c.cache.Get(cacheKey(q.Text))
	if !found {
		return nil, false
	}
	src := x.(*entity.ClassificationResult)
	dup := *src
	dup.ID = q.ID
	dup.Query = q.Text
	dup.Attempts = 0
	dup.Meta = map[string]interface{}{"cached_from": src.ID.String()}
	return &dup, true
}

func (c *ResultCache) Len() int {
	return c.cache.ItemCount()
}

func (c *ResultCache) Flush() {
	c.cache.Flush()
}
