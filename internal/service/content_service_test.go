package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/lumenfeed/console/configs"
	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/service"
	"github.com/lumenfeed/console/internal/transfer"
)

func newContentService(baseURL string) service.ContentService {
	return service.NewContentService(config.Config{
		ContentAPIBaseURL: baseURL,
		RemoteTimeout:     5 * time.Second,
	})
}

func TestContentService_Regenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/regenerate/3", r.URL.Path)

		var req transfer.RegenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sunset picnic", req.ScenePrompt)
		assert.Equal(t, "warmer colors", req.Instruction)
		assert.Equal(t, "acct-1", req.AccountID)

		json.NewEncoder(w).Encode(transfer.RegenerateResponse{
			ImageURL:    "https://cdn.example/new.png",
			ImagePrompt: "sunset picnic, warmer colors",
		})
	}))
	defer server.Close()

	res, err := newContentService(server.URL).Regenerate(context.Background(), 3, &transfer.RegenerateRequest{
		ScenePrompt: "sunset picnic",
		Instruction: "warmer colors",
		AccountID:   "acct-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/new.png", res.ImageURL)
}

func TestContentService_ListPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule/acct-1", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Post{{Slot: 1, Caption: "day one", Status: models.PostStatusDraft}})
	}))
	defer server.Close()

	posts, err := newContentService(server.URL).ListPosts(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "day one", posts[0].Caption)
}

func TestContentService_PatchImagePaths(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(transfer.AckResponse{Success: true})
	}))
	defer server.Close()

	svc := newContentService(server.URL)

	require.NoError(t, svc.PatchImage(context.Background(), "acct-1", 2, &transfer.PatchImageRequest{ImageURL: "https://cdn.example/a.png"}))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/schedule/acct-1/2/image", gotPath)

	require.NoError(t, svc.PatchContent(context.Background(), "acct-1", 2, &transfer.PatchContentRequest{Caption: "hi"}))
	assert.Equal(t, "/schedule/acct-1/2/content", gotPath)
}

func TestContentService_NonSuccessStatusIsRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "schedule time must be in the future"})
	}))
	defer server.Close()

	_, err := newContentService(server.URL).GenerateSchedule(context.Background(), "freckles")
	require.Error(t, err)

	var remoteErr *service.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadRequest, remoteErr.StatusCode)
	assert.Equal(t, "schedule time must be in the future", remoteErr.Detail)
}

func TestContentService_TransportFailureIsRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newContentService(server.URL).GenerateSchedule(context.Background(), "freckles")
	require.Error(t, err)

	var remoteErr *service.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Zero(t, remoteErr.StatusCode)
}
