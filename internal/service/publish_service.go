package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	config "github.com/lumenfeed/console/configs"
	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/transfer"
)

// PublishService wraps the social-platform publishing backend. Scheduled jobs
// live remotely and are addressed by the opaque job id the backend returns.
type PublishService interface {
	PublishNow(ctx context.Context, req *transfer.PublishNowRequest) (*transfer.PublishNowResponse, error)
	Schedule(ctx context.Context, req *transfer.ScheduleRequest) (*transfer.ScheduleResponse, error)
	ListScheduled(ctx context.Context, accountID string) ([]models.ScheduledJob, error)
	CancelScheduled(ctx context.Context, jobID string) (*transfer.CancelResponse, error)
}

type publishService struct {
	baseURL string
	client  *http.Client
}

func NewPublishService(cfg config.Config) PublishService {
	return &publishService{
		baseURL: cfg.PublishAPIBaseURL,
		client:  &http.Client{Timeout: cfg.RemoteTimeout},
	}
}

func (s *publishService) PublishNow(ctx context.Context, req *transfer.PublishNowRequest) (*transfer.PublishNowResponse, error) {
	var res transfer.PublishNowResponse
	if err := doJSON(ctx, s.client, http.MethodPost, s.baseURL+"/publish-now", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *publishService) Schedule(ctx context.Context, req *transfer.ScheduleRequest) (*transfer.ScheduleResponse, error) {
	var res transfer.ScheduleResponse
	if err := doJSON(ctx, s.client, http.MethodPost, s.baseURL+"/schedule", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *publishService) ListScheduled(ctx context.Context, accountID string) ([]models.ScheduledJob, error) {
	var res transfer.ScheduledPostsResponse
	listURL := fmt.Sprintf("%s/schedule?account_id=%s", s.baseURL, url.QueryEscape(accountID))
	if err := doJSON(ctx, s.client, http.MethodGet, listURL, nil, &res); err != nil {
		return nil, err
	}
	return res.ScheduledPosts, nil
}

func (s *publishService) CancelScheduled(ctx context.Context, jobID string) (*transfer.CancelResponse, error) {
	var res transfer.CancelResponse
	cancelURL := fmt.Sprintf("%s/schedule/%s", s.baseURL, url.PathEscape(jobID))
	if err := doJSON(ctx, s.client, http.MethodDelete, cancelURL, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
