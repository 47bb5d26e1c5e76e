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
	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	if genAiClient == nil {
		return nil, fmt.Errorf("gemini client is required when ai provider is gemini")
	}
	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: newRequestLimiter(cfg.Gemini.MaxRequestPerMinute),
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) SummarizeSurge(ctx context.Context, summarizeReq *dto.SummarizeRequest) (string, error) {
	prompt := BuildSurgeSummaryPrompt(summarizeReq)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}
	r.logger.Debug("Gemini token count", logger.IntField("total_tokens", int(tokenResp.TotalTokens)))

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("model", r.cfg.Gemini.Model))
		return "", fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return dto.SummaryUnavailable, nil
	}
	content := strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text)
	if content == "" {
		return dto.SummaryUnavailable, nil
	}
	return content, nil
}
