package repository

import (
	"context"
	"fmt"

	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/pkg/logger"

	"google.golang.org/genai"
)

// AIRepository generates the natural-language surge explanation.
type AIRepository interface {
	// SummarizeSurge returns a 1-2 sentence Korean explanation of the surge.
	// An empty model response yields dto.SummaryUnavailable, not an error;
	// transport and service errors propagate.
	SummarizeSurge(ctx context.Context, req *dto.SummarizeRequest) (string, error)
}

// NewAIRepository selects the summarizer implementation from config.
func NewAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return NewGeminiAIRepository(cfg, log, genAiClient)
	case "openai", "":
		return NewOpenAIRepository(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.AI.Provider)
	}
}
