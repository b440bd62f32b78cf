package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
	"ai-mentor-platform/internal/infra/metrics"
)

var _ adapter.MediaProviderAdapter = (*LiveProvider)(nil)

// LiveProvider talks to the hosted video/avatar/voice generation API.
// Jobs are created with a POST and then observed via GET until terminal;
// the provider offers no webhooks on our plan.
type LiveProvider struct {
	apiKey string
	base   string
	client *http.Client
}

func NewLiveProvider(apiKey, baseURL string) (*LiveProvider, error) {
	if apiKey == "" {
		return nil, errors.New("media provider api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.mediaforge.example.com/v1"
	}
	return &LiveProvider{
		apiKey: apiKey,
		base:   baseURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// providerJobPayload is the provider's wire shape for a job.
type providerJobPayload struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress,omitempty"`
	ResultURL    string `json:"result_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (p *LiveProvider) CreateVideoJob(ctx context.Context, cfg adapter.VideoJobConfig) (*adapter.ProviderJob, error) {
	body := map[string]interface{}{
		"avatar_id": cfg.AvatarID,
		"voice_id":  cfg.VoiceID,
		"script":    cfg.Script,
		"title":     cfg.Title,
	}
	return p.create(ctx, "create_video", "/videos", body)
}

func (p *LiveProvider) CreateAvatarJob(ctx context.Context, cfg adapter.AvatarJobConfig) (*adapter.ProviderJob, error) {
	body := map[string]interface{}{
		"name":       cfg.Name,
		"image_urls": cfg.SourceImageURLs,
	}
	return p.create(ctx, "create_avatar", "/avatars", body)
}

func (p *LiveProvider) CreateVoiceJob(ctx context.Context, cfg adapter.VoiceJobConfig) (*adapter.ProviderJob, error) {
	body := map[string]interface{}{
		"name":        cfg.Name,
		"sample_urls": cfg.SampleURLs,
	}
	return p.create(ctx, "create_voice", "/voices", body)
}

func (p *LiveProvider) GetJob(ctx context.Context, providerJobID string) (*adapter.ProviderJob, error) {
	if providerJobID == "" {
		return nil, domain.ErrInvalidArgument
	}
	req, err := p.newRequest(ctx, http.MethodGet, "/jobs/"+providerJobID, nil)
	if err != nil {
		return nil, err
	}
	job, err := p.do("get_job", req)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (p *LiveProvider) DeleteJob(ctx context.Context, providerJobID string) error {
	if providerJobID == "" {
		return domain.ErrInvalidArgument
	}
	req, err := p.newRequest(ctx, http.MethodDelete, "/jobs/"+providerJobID, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		metrics.IncProviderRequest("delete_job", "error")
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		metrics.IncProviderRequest("delete_job", "error")
		return fmt.Errorf("media provider http %d", resp.StatusCode)
	}
	metrics.IncProviderRequest("delete_job", "ok")
	return nil
}

// --- internal ---

func (p *LiveProvider) create(ctx context.Context, op, path string, body map[string]interface{}) (*adapter.ProviderJob, error) {
	b, _ := json.Marshal(body)
	req, err := p.newRequest(ctx, http.MethodPost, path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return p.do(op, req)
}

func (p *LiveProvider) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, p.base+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, p.base+path, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	return req, nil
}

func (p *LiveProvider) do(op string, req *http.Request) (*adapter.ProviderJob, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		metrics.IncProviderRequest(op, "error")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.IncProviderRequest(op, "not_found")
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		metrics.IncProviderRequest(op, "error")
		return nil, fmt.Errorf("media provider http %d", resp.StatusCode)
	}

	var payload providerJobPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.IncProviderRequest(op, "error")
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	metrics.IncProviderRequest(op, "ok")
	return &adapter.ProviderJob{
		ID:           payload.ID,
		Status:       mapProviderStatus(payload.Status),
		Progress:     payload.Progress,
		ResultURL:    payload.ResultURL,
		ErrorMessage: payload.ErrorMessage,
	}, nil
}

// mapProviderStatus folds the provider's status vocabulary into ours.
func mapProviderStatus(s string) model.GenerationStatus {
	switch s {
	case "queued", "pending", "waiting":
		return model.GenerationQueued
	case "processing", "generating", "training", "running":
		return model.GenerationGenerating
	case "completed", "done", "succeeded":
		return model.GenerationCompleted
	case "failed", "error", "cancelled":
		return model.GenerationError
	default:
		return model.GenerationGenerating
	}
}
