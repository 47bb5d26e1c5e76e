package service

import (
	"context"
	"testing"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIngestion struct{}

func (s *stubIngestion) Run(ctx context.Context, triggeredBy string) (*dto.IngestionResult, error) {
	return &dto.IngestionResult{}, nil
}

func (s *stubIngestion) History(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	return nil, nil
}

func TestNewSchedulerService_InvalidTimezone(t *testing.T) {
	cfg := &config.Config{Scheduler: config.Scheduler{Timezone: "Mars/Olympus"}}

	_, err := NewSchedulerService(cfg, &stubIngestion{}, newTestLogger(t))
	assert.Error(t, err)
}

func TestSchedulerStart_InvalidCronSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.Scheduler{CronSpec: "not a cron spec"}}
	svc, err := NewSchedulerService(cfg, &stubIngestion{}, newTestLogger(t))
	require.NoError(t, err)

	err = svc.Start(context.Background())
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	cfg := &config.Config{Scheduler: config.Scheduler{}}
	svc, err := NewSchedulerService(cfg, &stubIngestion{}, newTestLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, svc.Start(ctx))
	cancel()
	svc.Stop()
}
