package repository

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/lumenfeed/console/internal/models"
)

// RemoteLister loads the persisted post collection from the backend of record.
type RemoteLister interface {
	ListPosts(ctx context.Context, accountID string) ([]models.Post, error)
}

// PostCollection is the in-memory source of truth for the UI: an ordered set
// of posts, exactly one per slot. Every mutation is mirrored into the cache
// repository before it returns, so a committed change survives a reload even
// when the remote write is still in flight.
type PostCollection struct {
	mu    sync.Mutex
	posts []models.Post
	cache CacheRepository
}

func NewPostCollection(cache CacheRepository) *PostCollection {
	return &PostCollection{cache: cache}
}

// Load fills the collection from the remote store, falling back to the cache
// snapshot when the remote call fails. An empty result means the caller has
// to trigger generation.
func (c *PostCollection) Load(ctx context.Context, remote RemoteLister, accountID string) []models.Post {
	posts, err := remote.ListPosts(ctx, accountID)
	if err != nil {
		slog.Info("remote post list unavailable, falling back to cache", "error", err.Error())
		cached, ok := c.cache.Posts(ctx)
		if !ok {
			return nil
		}
		posts = cached
	}
	c.ReplaceAll(ctx, posts)
	return c.All()
}

func (c *PostCollection) Upsert(ctx context.Context, post models.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	replaced := false
	for i := range c.posts {
		if c.posts[i].Slot == post.Slot {
			c.posts[i] = post
			replaced = true
			break
		}
	}
	if !replaced {
		c.posts = append(c.posts, post)
		sort.Slice(c.posts, func(i, j int) bool { return c.posts[i].Slot < c.posts[j].Slot })
	}
	c.cache.SetPosts(ctx, c.posts)
}

func (c *PostCollection) ReplaceAll(ctx context.Context, posts []models.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = make([]models.Post, len(posts))
	copy(c.posts, posts)
	sort.Slice(c.posts, func(i, j int) bool { return c.posts[i].Slot < c.posts[j].Slot })
	c.cache.SetPosts(ctx, c.posts)
}

func (c *PostCollection) Find(slot int) (models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.posts {
		if c.posts[i].Slot == slot {
			return c.posts[i], true
		}
	}
	return models.Post{}, false
}

func (c *PostCollection) All() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	posts := make([]models.Post, len(c.posts))
	copy(posts, c.posts)
	return posts
}

func (c *PostCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.posts)
}

// NextSlot returns the smallest slot number above every existing one.
func (c *PostCollection) NextSlot() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := 1
	for i := range c.posts {
		if c.posts[i].Slot >= next {
			next = c.posts[i].Slot + 1
		}
	}
	return next
}
