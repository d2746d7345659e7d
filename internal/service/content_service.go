package service

import (
	"context"
	"fmt"
	"net/http"

	config "github.com/lumenfeed/console/configs"
	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/transfer"
)

// ContentService wraps the generation backend: persona-driven schedule and
// post generation, image regeneration, and the authoritative post patches.
type ContentService interface {
	GenerateSchedule(ctx context.Context, appearanceText string) ([]models.Post, error)
	GeneratePost(ctx context.Context, date, appearanceText string) (*models.Post, error)
	ListPosts(ctx context.Context, accountID string) ([]models.Post, error)
	Regenerate(ctx context.Context, slot int, req *transfer.RegenerateRequest) (*transfer.RegenerateResponse, error)
	PatchImage(ctx context.Context, accountID string, slot int, req *transfer.PatchImageRequest) error
	PatchContent(ctx context.Context, accountID string, slot int, req *transfer.PatchContentRequest) error
}

type contentService struct {
	baseURL string
	client  *http.Client
}

func NewContentService(cfg config.Config) ContentService {
	return &contentService{
		baseURL: cfg.ContentAPIBaseURL,
		client:  &http.Client{Timeout: cfg.RemoteTimeout},
	}
}

func (s *contentService) GenerateSchedule(ctx context.Context, appearanceText string) ([]models.Post, error) {
	var posts []models.Post
	err := doJSON(ctx, s.client, http.MethodPost, s.baseURL+"/generate-schedule",
		&transfer.GenerateScheduleRequest{AppearanceText: appearanceText}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *contentService) GeneratePost(ctx context.Context, date, appearanceText string) (*models.Post, error) {
	var post models.Post
	err := doJSON(ctx, s.client, http.MethodPost, s.baseURL+"/generate-post",
		&transfer.GeneratePostRequest{Date: date, AppearanceText: appearanceText}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *contentService) ListPosts(ctx context.Context, accountID string) ([]models.Post, error) {
	var posts []models.Post
	url := fmt.Sprintf("%s/schedule/%s", s.baseURL, accountID)
	if err := doJSON(ctx, s.client, http.MethodGet, url, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *contentService) Regenerate(ctx context.Context, slot int, req *transfer.RegenerateRequest) (*transfer.RegenerateResponse, error) {
	var res transfer.RegenerateResponse
	url := fmt.Sprintf("%s/regenerate/%d", s.baseURL, slot)
	if err := doJSON(ctx, s.client, http.MethodPost, url, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *contentService) PatchImage(ctx context.Context, accountID string, slot int, req *transfer.PatchImageRequest) error {
	url := fmt.Sprintf("%s/schedule/%s/%d/image", s.baseURL, accountID, slot)
	var ack transfer.AckResponse
	return doJSON(ctx, s.client, http.MethodPatch, url, req, &ack)
}

func (s *contentService) PatchContent(ctx context.Context, accountID string, slot int, req *transfer.PatchContentRequest) error {
	url := fmt.Sprintf("%s/schedule/%s/%d/content", s.baseURL, accountID, slot)
	var ack transfer.AckResponse
	return doJSON(ctx, s.client, http.MethodPatch, url, req, &ack)
}
