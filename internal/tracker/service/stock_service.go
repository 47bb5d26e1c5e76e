package service

import (
	"context"
	"fmt"
	"strings"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/internal/tracker/repository"
	"golang-upper-limit-tracker/pkg/logger"
	"golang-upper-limit-tracker/pkg/utils"
)

// maxArticleExcerptRunes bounds the article text forwarded to the summarizer.
const maxArticleExcerptRunes = 1200

// StockService exposes the read side and the on-demand analyze pipeline.
type StockService interface {
	List(ctx context.Context, date string) ([]entity.StockSnapshot, error)
	Get(ctx context.Context, id uint) (*entity.StockSnapshot, error)
	// Analyze enriches the snapshot with fresh news, generates a surge
	// explanation and persists it. Returns dto.ErrStockNotFound for unknown
	// ids and wraps dto.ErrAnalysisFailed on summarizer errors; the stored
	// summary is left untouched on failure.
	Analyze(ctx context.Context, id uint) (*entity.StockSnapshot, error)
}

// NewStockService creates a new StockService.
func NewStockService(
	snapshotRepo repository.StockSnapshotRepository,
	newsRepo repository.NewsArticleRepository,
	searchRepo repository.NewsSearchRepository,
	aiRepo repository.AIRepository,
	log *logger.Logger,
) StockService {
	return &stockService{
		snapshotRepo: snapshotRepo,
		newsRepo:     newsRepo,
		searchRepo:   searchRepo,
		aiRepo:       aiRepo,
		logger:       log,
	}
}

type stockService struct {
	snapshotRepo repository.StockSnapshotRepository
	newsRepo     repository.NewsArticleRepository
	searchRepo   repository.NewsSearchRepository
	aiRepo       repository.AIRepository
	logger       *logger.Logger
}

func (s *stockService) List(ctx context.Context, date string) ([]entity.StockSnapshot, error) {
	return s.snapshotRepo.List(ctx, date)
}

func (s *stockService) Get(ctx context.Context, id uint) (*entity.StockSnapshot, error) {
	return s.snapshotRepo.GetByID(ctx, id)
}

func (s *stockService) Analyze(ctx context.Context, id uint) (*entity.StockSnapshot, error) {
	snapshot, err := s.snapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Enrichment is best-effort: a failed search leaves stored news in place.
	candidates, err := s.searchRepo.FetchNews(ctx, snapshot.Name)
	if err != nil {
		s.logger.Warn("news search failed, continuing with stored news",
			logger.ErrorField(err), logger.Field("stock_id", id))
		candidates = nil
	}

	inserted := false
	for _, c := range candidates {
		ok, err := s.newsRepo.CreateIgnoreConflict(ctx, &entity.NewsArticle{
			StockID:     snapshot.ID,
			Title:       c.Title,
			URL:         c.URL,
			Publisher:   c.Publisher,
			PublishedAt: c.PublishedAt,
		})
		if err != nil {
			s.logger.Warn("failed to persist news candidate",
				logger.ErrorField(err), logger.StringField("url", c.URL))
			continue
		}
		if ok {
			inserted = true
		}
	}

	if inserted {
		// Re-read so the summarizer sees the freshest news set, including
		// anything that was already stored.
		snapshot, err = s.snapshotRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	headlines := make([]string, 0, len(snapshot.News))
	for _, n := range snapshot.News {
		headlines = append(headlines, n.Title)
	}

	summary, err := s.aiRepo.SummarizeSurge(ctx, &dto.SummarizeRequest{
		Name:           snapshot.Name,
		ChangeRate:     snapshot.ChangeRate,
		Headlines:      headlines,
		ArticleExcerpt: s.articleExcerpt(ctx, snapshot.News),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrAnalysisFailed, err)
	}

	return s.snapshotRepo.UpdateReason(ctx, id, summary)
}

// articleExcerpt pulls the body of the newest attached article, best-effort.
func (s *stockService) articleExcerpt(ctx context.Context, news []entity.NewsArticle) string {
	for i := len(news) - 1; i >= 0; i-- {
		articleURL := news[i].URL
		if !strings.HasPrefix(articleURL, "http") {
			continue
		}
		content, err := s.searchRepo.FetchArticleContent(ctx, articleURL)
		if err != nil {
			s.logger.Debug("failed to fetch article content",
				logger.ErrorField(err), logger.StringField("url", articleURL))
			continue
		}
		if content != "" {
			return utils.TruncateRunes(content, maxArticleExcerptRunes)
		}
	}
	return ""
}
