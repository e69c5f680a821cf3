package pressroom

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pressroom/content"
)

// FeedCache is an in-memory cache of published articles, newest first, with
// a TTL. It backs /feed.xml and /sitemap.xml; article lookups never read it.
type FeedCache struct {
	mu       sync.RWMutex
	articles []content.Article
	fetched  time.Time
	ttl      time.Duration
	repo     content.Repository
}

// NewFeedCache creates a FeedCache backed by repo.
func NewFeedCache(repo content.Repository, ttl time.Duration) *FeedCache {
	return &FeedCache{repo: repo, ttl: ttl}
}

func (c *FeedCache) valid() bool {
	return c.articles != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *FeedCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.mu.Unlock()
}

func (c *FeedCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	all := []content.Article{}
	q := content.ListQuery{Page: 1, PageSize: content.MaxPageSize}
	for {
		page, total, err := c.repo.ListArticles(ctx, q)
		if err != nil {
			return err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			break
		}
		q.Page++
	}
	c.articles = all
	c.fetched = time.Now()
	return nil
}

// Published returns all published articles, newest first. The slice is
// shared and must not be modified.
func (c *FeedCache) Published(ctx context.Context) ([]content.Article, error) {
	c.mu.RLock()
	if c.valid() {
		articles := c.articles
		c.mu.RUnlock()
		return articles, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.articles, nil
}

// Latest returns at most n published articles, newest first.
func (c *FeedCache) Latest(ctx context.Context, n int) ([]content.Article, error) {
	articles, err := c.Published(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) > n {
		articles = articles[:n]
	}
	return articles, nil
}
