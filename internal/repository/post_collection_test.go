package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/repository"
)

type MockRemoteLister struct {
	mock.Mock
}

func (m *MockRemoteLister) ListPosts(ctx context.Context, accountID string) ([]models.Post, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func newCollection() (*repository.PostCollection, repository.CacheRepository) {
	cache := repository.NewCacheRepository(repository.NewMemoryKV())
	return repository.NewPostCollection(cache), cache
}

func TestPostCollection_UpsertMirrorsToCache(t *testing.T) {
	ctx := context.Background()
	collection, cache := newCollection()

	post := models.Post{Slot: 3, Date: "2026-03-03", Status: models.PostStatusDraft}
	collection.Upsert(ctx, post)

	got, ok := collection.Find(3)
	require.True(t, ok)
	assert.Equal(t, post, got)

	cached, ok := cache.Posts(ctx)
	require.True(t, ok)
	assert.Equal(t, []models.Post{post}, cached)
}

func TestPostCollection_UpsertReplacesSameSlot(t *testing.T) {
	ctx := context.Background()
	collection, _ := newCollection()

	collection.Upsert(ctx, models.Post{Slot: 1, Caption: "old"})
	collection.Upsert(ctx, models.Post{Slot: 1, Caption: "new"})

	assert.Equal(t, 1, collection.Len())
	got, ok := collection.Find(1)
	require.True(t, ok)
	assert.Equal(t, "new", got.Caption)
}

func TestPostCollection_OrderedBySlot(t *testing.T) {
	ctx := context.Background()
	collection, _ := newCollection()

	collection.Upsert(ctx, models.Post{Slot: 5})
	collection.Upsert(ctx, models.Post{Slot: 1})
	collection.Upsert(ctx, models.Post{Slot: 3})

	all := collection.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{all[0].Slot, all[1].Slot, all[2].Slot})
	assert.Equal(t, 6, collection.NextSlot())
}

func TestPostCollection_LoadFromRemote(t *testing.T) {
	ctx := context.Background()
	collection, cache := newCollection()

	remote := new(MockRemoteLister)
	posts := []models.Post{{Slot: 1, Status: models.PostStatusDraft}}
	remote.On("ListPosts", mock.Anything, "acct-1").Return(posts, nil).Once()

	got := collection.Load(ctx, remote, "acct-1")
	assert.Equal(t, posts, got)

	cached, ok := cache.Posts(ctx)
	require.True(t, ok)
	assert.Equal(t, posts, cached)
	remote.AssertExpectations(t)
}

func TestPostCollection_LoadFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	collection, cache := newCollection()

	posts := []models.Post{
		{Slot: 1, Caption: "kept", Status: models.PostStatusApproved},
		{Slot: 2, Caption: "kept too", Status: models.PostStatusDraft},
	}
	cache.SetPosts(ctx, posts)

	remote := new(MockRemoteLister)
	remote.On("ListPosts", mock.Anything, "acct-1").Return(nil, errors.New("connection refused")).Once()

	got := collection.Load(ctx, remote, "acct-1")
	assert.Equal(t, posts, got)
	remote.AssertExpectations(t)
}

// A committed mutation survives a reload even when the remote store is down:
// a second collection sharing the same cache comes back identical.
func TestPostCollection_ReloadAfterRemoteFailure(t *testing.T) {
	ctx := context.Background()
	cache := repository.NewCacheRepository(repository.NewMemoryKV())

	first := repository.NewPostCollection(cache)
	first.Upsert(ctx, models.Post{Slot: 1, Caption: "committed", ImageURL: "https://cdn.example/a.png"})
	first.Upsert(ctx, models.Post{Slot: 2, Caption: "also committed"})

	remote := new(MockRemoteLister)
	remote.On("ListPosts", mock.Anything, "acct-1").Return(nil, errors.New("network down")).Once()

	second := repository.NewPostCollection(cache)
	got := second.Load(ctx, remote, "acct-1")
	assert.Equal(t, first.All(), got)
}

func TestPostCollection_LoadEmptyWhenBothMiss(t *testing.T) {
	ctx := context.Background()
	collection, _ := newCollection()

	remote := new(MockRemoteLister)
	remote.On("ListPosts", mock.Anything, "acct-1").Return(nil, errors.New("connection refused")).Once()

	got := collection.Load(ctx, remote, "acct-1")
	assert.Empty(t, got)
}
