package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/pkg/common"
	"golang-upper-limit-tracker/pkg/logger"

	"github.com/robfig/cron/v3"
)

// defaultCronSpec fires at 16:00 KST on weekdays, after the session close.
const defaultCronSpec = "0 16 * * 1-5"

// SchedulerService triggers batch ingestion at a fixed wall-clock time on
// trading days. It holds no state beyond the cron handle; overlap protection
// comes from the cron chain and the ingestion lock.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(cfg *config.Config, ingestionSvc IngestionService, log *logger.Logger) (SchedulerService, error) {
	tz := cfg.Scheduler.Timezone
	if tz == "" {
		tz = "Asia/Seoul"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", tz, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &schedulerService{
		cfg:          cfg,
		ingestionSvc: ingestionSvc,
		logger:       log,
		cron:         c,
	}, nil
}

type schedulerService struct {
	cfg          *config.Config
	ingestionSvc IngestionService
	logger       *logger.Logger
	cron         *cron.Cron
}

func (s *schedulerService) Start(ctx context.Context) error {
	spec := s.cfg.Scheduler.CronSpec
	if spec == "" {
		spec = defaultCronSpec
	}

	_, err := s.cron.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		defer cancel()

		result, err := s.ingestionSvc.Run(runCtx, common.TriggerSchedule)
		if errors.Is(err, dto.ErrIngestionInProgress) {
			s.logger.Warn("previous ingestion still running, skipping tick")
			return
		}
		if err != nil {
			s.logger.Error("scheduled ingestion failed", logger.ErrorField(err))
			return
		}
		s.logger.Info("scheduled ingestion finished",
			logger.IntField("count", result.Count),
			logger.IntField("summarized", result.Summarized))
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	s.logger.Info("scheduler started", logger.StringField("cron_spec", spec))
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}
