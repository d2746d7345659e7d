package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lumenfeed/console/internal/models"
)

// Field identifies one value owned by the cache repository. Callers never
// build key strings themselves.
type Field int

const (
	FieldAccountID Field = iota
	FieldHandle
	FieldAppearance
	FieldPosts
)

var fieldKeys = map[Field]string{
	FieldAccountID:  "console:account_id",
	FieldHandle:     "console:handle",
	FieldAppearance: "console:appearance",
	FieldPosts:      "console:posts",
}

// CacheRepository is the single choke-point for the local fallback store. It
// never fails: absence, corruption and a missing KV host all read as "absent",
// and writes against a missing host are dropped.
type CacheRepository interface {
	AccountID(ctx context.Context) (string, bool)
	SetAccountID(ctx context.Context, id string)
	Handle(ctx context.Context) (string, bool)
	SetHandle(ctx context.Context, handle string)
	Appearance(ctx context.Context) (string, bool)
	SetAppearance(ctx context.Context, text string)
	Posts(ctx context.Context) ([]models.Post, bool)
	SetPosts(ctx context.Context, posts []models.Post)
	Remove(ctx context.Context, field Field)
	Clear(ctx context.Context)
}

type cacheRepository struct {
	kv KV
}

func NewCacheRepository(kv KV) CacheRepository {
	return &cacheRepository{kv: kv}
}

func (r *cacheRepository) get(ctx context.Context, field Field) (string, bool) {
	if r.kv == nil {
		return "", false
	}
	value, ok, err := r.kv.Get(ctx, fieldKeys[field])
	if err != nil {
		slog.Info(err.Error())
		return "", false
	}
	return value, ok
}

func (r *cacheRepository) set(ctx context.Context, field Field, value string) {
	if r.kv == nil {
		return
	}
	if err := r.kv.Set(ctx, fieldKeys[field], value); err != nil {
		slog.Info(err.Error())
	}
}

func (r *cacheRepository) AccountID(ctx context.Context) (string, bool) {
	return r.get(ctx, FieldAccountID)
}

func (r *cacheRepository) SetAccountID(ctx context.Context, id string) {
	r.set(ctx, FieldAccountID, id)
}

func (r *cacheRepository) Handle(ctx context.Context) (string, bool) {
	return r.get(ctx, FieldHandle)
}

func (r *cacheRepository) SetHandle(ctx context.Context, handle string) {
	r.set(ctx, FieldHandle, handle)
}

func (r *cacheRepository) Appearance(ctx context.Context) (string, bool) {
	return r.get(ctx, FieldAppearance)
}

func (r *cacheRepository) SetAppearance(ctx context.Context, text string) {
	r.set(ctx, FieldAppearance, text)
}

// Posts returns the cached post collection. Anything that is not a valid JSON
// array reads as absent.
func (r *cacheRepository) Posts(ctx context.Context) ([]models.Post, bool) {
	raw, ok := r.get(ctx, FieldPosts)
	if !ok {
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		slog.Info("discarding malformed cached posts", "error", err.Error())
		return nil, false
	}
	if posts == nil {
		return nil, false
	}
	return posts, true
}

func (r *cacheRepository) SetPosts(ctx context.Context, posts []models.Post) {
	if posts == nil {
		posts = []models.Post{}
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	r.set(ctx, FieldPosts, string(raw))
}

func (r *cacheRepository) Remove(ctx context.Context, field Field) {
	if r.kv == nil {
		return
	}
	if err := r.kv.Del(ctx, fieldKeys[field]); err != nil {
		slog.Info(err.Error())
	}
}

// Clear removes every field this repository owns and nothing else.
func (r *cacheRepository) Clear(ctx context.Context) {
	if r.kv == nil {
		return
	}
	keys := make([]string, 0, len(fieldKeys))
	for _, key := range fieldKeys {
		keys = append(keys, key)
	}
	if err := r.kv.Del(ctx, keys...); err != nil {
		slog.Info(err.Error())
	}
}
