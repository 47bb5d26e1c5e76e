package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/pkg/logger"

	"golang.org/x/time/rate"
)

type openAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates an AIRepository backed by an OpenAI-compatible
// chat completions endpoint.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	return &openAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.OpenAI.MaxRequestPerMinute),
	}
}

func newRequestLimiter(maxRequestPerMinute int) *rate.Limiter {
	if maxRequestPerMinute <= 0 {
		maxRequestPerMinute = 20
	}
	secondsPerRequest := time.Minute / time.Duration(maxRequestPerMinute)
	return rate.NewLimiter(rate.Every(secondsPerRequest), 1)
}

func (r *openAIRepository) SummarizeSurge(ctx context.Context, summarizeReq *dto.SummarizeRequest) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	prompt := BuildSurgeSummaryPrompt(summarizeReq)
	payload := dto.OpenAIChatRequest{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.ChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	r.logger.Debug("Sending request to OpenAI API",
		logger.StringField("url", r.cfg.OpenAI.BaseURL),
		logger.StringField("model", r.cfg.OpenAI.Model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.OpenAI.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.OpenAI.APIKey))

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from OpenAI API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("model", r.cfg.OpenAI.Model))
		return "", fmt.Errorf("received non-OK response from OpenAI API: %d - %s", resp.StatusCode, string(body))
	}

	var chatResp dto.OpenAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return dto.SummaryUnavailable, nil
	}
	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return dto.SummaryUnavailable, nil
	}
	return content, nil
}
