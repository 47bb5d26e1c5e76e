package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/internal/tracker/repository"
	"golang-upper-limit-tracker/pkg/common"
	"golang-upper-limit-tracker/pkg/logger"
	"golang-upper-limit-tracker/pkg/telegram"
	"golang-upper-limit-tracker/pkg/utils"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Locker is a single-flight mutex guarding the batch run.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// IngestionService runs the batch scrape-enrich-summarize pipeline.
type IngestionService interface {
	// Run ingests the day's upper-limit movers. Row-level failures are
	// captured per row and never abort the batch; zero movers is a valid
	// outcome. Returns dto.ErrIngestionInProgress when another run holds
	// the lock.
	Run(ctx context.Context, triggeredBy string) (*dto.IngestionResult, error)
	History(ctx context.Context, limit int) ([]entity.IngestionRun, error)
}

// NewIngestionService creates a new IngestionService. The notifier may be
// nil when Telegram is not configured.
func NewIngestionService(
	cfg *config.Config,
	moversRepo repository.MoversRepository,
	snapshotRepo repository.StockSnapshotRepository,
	newsRepo repository.NewsArticleRepository,
	searchRepo repository.NewsSearchRepository,
	aiRepo repository.AIRepository,
	runRepo repository.IngestionRunRepository,
	locker Locker,
	notifier telegram.Notifier,
	log *logger.Logger,
) IngestionService {
	return &ingestionService{
		cfg:          cfg,
		moversRepo:   moversRepo,
		snapshotRepo: snapshotRepo,
		newsRepo:     newsRepo,
		searchRepo:   searchRepo,
		aiRepo:       aiRepo,
		runRepo:      runRepo,
		locker:       locker,
		notifier:     notifier,
		logger:       log,
	}
}

type ingestionService struct {
	cfg          *config.Config
	moversRepo   repository.MoversRepository
	snapshotRepo repository.StockSnapshotRepository
	newsRepo     repository.NewsArticleRepository
	searchRepo   repository.NewsSearchRepository
	aiRepo       repository.AIRepository
	runRepo      repository.IngestionRunRepository
	locker       Locker
	notifier     telegram.Notifier
	logger       *logger.Logger
}

func (s *ingestionService) Run(ctx context.Context, triggeredBy string) (*dto.IngestionResult, error) {
	lockTTL := s.cfg.Scheduler.LockTTL
	if lockTTL <= 0 {
		lockTTL = 15 * time.Minute
	}
	acquired, err := s.locker.AcquireLock(ctx, common.IngestionLockKey, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire ingestion lock: %w", err)
	}
	if !acquired {
		return nil, dto.ErrIngestionInProgress
	}
	defer func() {
		// Release with a fresh context so cancellation cannot leak the lock.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locker.ReleaseLock(releaseCtx, common.IngestionLockKey); err != nil {
			s.logger.Error("failed to release ingestion lock", logger.ErrorField(err))
		}
	}()

	run := &entity.IngestionRun{
		TriggeredBy: triggeredBy,
		Status:      entity.IngestionStatusRunning,
		Errors:      pq.StringArray{},
		StartedAt:   utils.TimeNowKST(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	rows, err := s.moversRepo.FetchTopMovers(ctx)
	if err != nil {
		// Scrape failures never abort the batch; zero movers is a valid run.
		s.logger.Error("failed to fetch top movers", logger.ErrorField(err))
		run.Errors = append(run.Errors, fmt.Sprintf("fetch movers: %v", err))
		rows = nil
	}
	s.logger.Info("fetched upper-limit movers",
		logger.IntField("count", len(rows)), logger.StringField("triggered_by", triggeredBy))

	date := utils.TodayKST()
	maxConcurrent := s.cfg.Crawler.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		rowResults []dto.RowResult
	)
	semaphore := make(chan struct{}, maxConcurrent)

	for _, row := range rows {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		row := row
		wg.Add(1)
		utils.GoSafe(s.logger, func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := s.processRow(ctx, date, row)
			mu.Lock()
			rowResults = append(rowResults, result)
			if result.Error != "" {
				run.Errors = append(run.Errors, fmt.Sprintf("%s: %s", row.Name, result.Error))
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	newsFound, summarized := 0, 0
	for _, result := range rowResults {
		newsFound += result.NewsCount
		if result.Summarized {
			summarized++
		}
	}

	run.StocksFound = len(rows)
	run.NewsFound = newsFound
	run.Summarized = summarized
	run.Status = entity.IngestionStatusSuccess
	if len(run.Errors) > 0 {
		run.Status = entity.IngestionStatusPartial
	}
	if detail, err := json.Marshal(rowResults); err == nil {
		run.Detail = datatypes.JSON(detail)
	}
	run.CompletedAt = sql.NullTime{Time: utils.TimeNowKST(), Valid: true}
	if err := s.runRepo.Update(ctx, run); err != nil {
		s.logger.Error("failed to finalize ingestion run", logger.ErrorField(err))
	}

	s.notify(date, run, rows)

	return &dto.IngestionResult{
		RunID:      run.ID,
		Count:      len(rows),
		NewsFound:  newsFound,
		Summarized: summarized,
		Errors:     run.Errors,
		Rows:       rowResults,
	}, nil
}

// processRow ingests one mover: snapshot insert, news enrichment, and an
// auto-summary when any headline was found. News persistence completes
// before summarization so the explanation covers everything stored.
func (s *ingestionService) processRow(ctx context.Context, date string, row dto.MoverRow) dto.RowResult {
	result := dto.RowResult{Symbol: row.Symbol, Name: row.Name}

	snapshot := &entity.StockSnapshot{
		Date:       date,
		Symbol:     row.Symbol,
		Name:       row.Name,
		Price:      row.Price,
		ChangeRate: row.ChangeRate,
		Sector:     entity.SectorUnknown,
		MarketType: entity.MarketTypeUnknown,
	}
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		result.Error = fmt.Sprintf("create snapshot: %v", err)
		return result
	}
	result.SnapshotID = snapshot.ID
	s.logger.Debug("ingested upper-limit mover",
		logger.StringField("symbol", row.Symbol),
		logger.Float64Field("change_rate", row.ChangeRate))

	candidates, err := s.searchRepo.FetchNews(ctx, row.Name)
	if err != nil {
		s.logger.Warn("news fetch failed, continuing without enrichment",
			logger.ErrorField(err), logger.StringField("name", row.Name))
		candidates = nil
	}

	headlines := []string{}
	for _, c := range candidates {
		if _, err := s.newsRepo.CreateIgnoreConflict(ctx, &entity.NewsArticle{
			StockID:     snapshot.ID,
			Title:       c.Title,
			URL:         c.URL,
			Publisher:   c.Publisher,
			PublishedAt: c.PublishedAt,
		}); err != nil {
			s.logger.Warn("failed to persist news candidate",
				logger.ErrorField(err), logger.StringField("url", c.URL))
			continue
		}
		result.NewsCount++
		headlines = append(headlines, c.Title)
	}

	// Without headlines there is nothing to explain; the row stays
	// unsummarized rather than getting a placeholder.
	if len(headlines) == 0 {
		return result
	}

	summary, err := s.aiRepo.SummarizeSurge(ctx, &dto.SummarizeRequest{
		Name:       row.Name,
		ChangeRate: row.ChangeRate,
		Headlines:  headlines,
	})
	if err != nil {
		result.Error = fmt.Sprintf("summarize: %v", err)
		return result
	}
	if _, err := s.snapshotRepo.UpdateReason(ctx, snapshot.ID, summary); err != nil {
		result.Error = fmt.Sprintf("persist summary: %v", err)
		return result
	}
	result.Summarized = true
	return result
}

func (s *ingestionService) notify(date string, run *entity.IngestionRun, rows []dto.MoverRow) {
	if s.notifier == nil {
		return
	}

	report := telegram.IngestionReport{
		Date:        date,
		TriggeredBy: run.TriggeredBy,
		Status:      run.Status,
		StocksFound: run.StocksFound,
		NewsFound:   run.NewsFound,
		Summarized:  run.Summarized,
	}
	for _, row := range rows {
		report.Stocks = append(report.Stocks, telegram.IngestionStockLine{
			Symbol:     row.Symbol,
			Name:       row.Name,
			Price:      row.Price,
			ChangeRate: row.ChangeRate,
		})
	}

	if err := s.notifier.SendMessage(telegram.FormatIngestionReport(report)); err != nil {
		s.logger.Warn("failed to send ingestion report", logger.ErrorField(err))
	}
}

func (s *ingestionService) History(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	return s.runRepo.List(ctx, limit)
}
