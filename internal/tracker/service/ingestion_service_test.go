package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/config"
	"golang-upper-limit-tracker/internal/tracker/dto"
	"golang-upper-limit-tracker/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestionTestConfig() *config.Config {
	return &config.Config{
		Crawler:   config.Crawler{MaxConcurrent: 2},
		Scheduler: config.Scheduler{LockTTL: time.Minute},
	}
}

type ingestionFixture struct {
	cfg          *config.Config
	moversRepo   *fakeMoversRepo
	snapshotRepo *fakeSnapshotRepo
	newsRepo     *fakeNewsRepo
	searchRepo   *fakeSearchRepo
	aiRepo       *fakeAIRepo
	runRepo      *fakeRunRepo
	locker       *fakeLocker
	notifier     *fakeNotifier
	svc          IngestionService
}

func newIngestionFixture(t *testing.T) *ingestionFixture {
	t.Helper()
	f := &ingestionFixture{
		cfg:          newIngestionTestConfig(),
		moversRepo:   &fakeMoversRepo{},
		snapshotRepo: newFakeSnapshotRepo(),
		newsRepo:     newFakeNewsRepo(),
		searchRepo:   &fakeSearchRepo{},
		aiRepo:       &fakeAIRepo{summary: "업황 개선 기대감에 급등했습니다."},
		runRepo:      newFakeRunRepo(),
		locker:       &fakeLocker{acquired: true},
		notifier:     &fakeNotifier{},
	}
	f.svc = NewIngestionService(
		f.cfg, f.moversRepo, f.snapshotRepo, f.newsRepo, f.searchRepo,
		f.aiRepo, f.runRepo, f.locker, f.notifier, newTestLogger(t))
	return f
}

func TestRun_LockHeld(t *testing.T) {
	f := newIngestionFixture(t)
	f.locker.acquired = false

	_, err := f.svc.Run(context.Background(), common.TriggerManual)
	assert.ErrorIs(t, err, dto.ErrIngestionInProgress)
	assert.False(t, f.locker.wasReleased())
}

func TestRun_ZeroMovers(t *testing.T) {
	f := newIngestionFixture(t)

	result, err := f.svc.Run(context.Background(), common.TriggerSchedule)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Errors)
	assert.True(t, f.locker.wasReleased())

	run := f.runRepo.get(result.RunID)
	require.NotNil(t, run)
	assert.Equal(t, entity.IngestionStatusSuccess, run.Status)
	assert.Equal(t, common.TriggerSchedule, run.TriggeredBy)
	assert.True(t, run.CompletedAt.Valid)
}

func TestRun_MoversFetchFailure(t *testing.T) {
	f := newIngestionFixture(t)
	f.moversRepo.err = errors.New("listing unreachable")

	result, err := f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "fetch movers")

	run := f.runRepo.get(result.RunID)
	require.NotNil(t, run)
	assert.Equal(t, entity.IngestionStatusPartial, run.Status)
	assert.True(t, f.locker.wasReleased())
}

func TestRun_IngestsAndSummarizes(t *testing.T) {
	f := newIngestionFixture(t)
	f.moversRepo.rows = []dto.MoverRow{
		{Symbol: "002690", Name: "동일철강", Price: 3015, ChangeRate: 29.97},
		{Symbol: "068270", Name: "셀트리온", Price: 185000, ChangeRate: 30.00},
	}
	f.searchRepo.candidates = []dto.NewsCandidate{
		{Title: "상한가 직행", URL: "https://news.example.com/a1"},
	}

	result, err := f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 2, result.Summarized)
	assert.Empty(t, result.Errors)
	assert.Len(t, f.snapshotRepo.snapshots, 2)

	for _, snapshot := range f.snapshotRepo.snapshots {
		assert.Equal(t, "업황 개선 기대감에 급등했습니다.", snapshot.ReasonSummary)
		assert.Equal(t, entity.SectorUnknown, snapshot.Sector)
		assert.Equal(t, entity.MarketTypeUnknown, snapshot.MarketType)
	}

	run := f.runRepo.get(result.RunID)
	require.NotNil(t, run)
	assert.Equal(t, entity.IngestionStatusSuccess, run.Status)
	assert.Equal(t, 2, run.StocksFound)
	assert.NotEmpty(t, run.Detail)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "동일철강")
}

func TestRun_RowFailureIsIsolated(t *testing.T) {
	f := newIngestionFixture(t)
	f.moversRepo.rows = []dto.MoverRow{
		{Symbol: "002690", Name: "동일철강", Price: 3015, ChangeRate: 29.97},
		{Symbol: "068270", Name: "셀트리온", Price: 185000, ChangeRate: 30.00},
	}
	f.searchRepo.candidates = []dto.NewsCandidate{
		{Title: "상한가 직행", URL: "https://news.example.com/a1"},
	}
	f.snapshotRepo.createErr = func(snapshot *entity.StockSnapshot) error {
		if snapshot.Symbol == "002690" {
			return errors.New("insert failed")
		}
		return nil
	}

	result, err := f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.Summarized)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "동일철강")

	run := f.runRepo.get(result.RunID)
	require.NotNil(t, run)
	assert.Equal(t, entity.IngestionStatusPartial, run.Status)
}

func TestRun_NoHeadlinesSkipsSummary(t *testing.T) {
	f := newIngestionFixture(t)
	f.moversRepo.rows = []dto.MoverRow{
		{Symbol: "002690", Name: "동일철강", Price: 3015, ChangeRate: 29.97},
	}
	f.searchRepo.fetchErr = errors.New("search blocked")

	result, err := f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 0, result.Summarized)
	assert.Empty(t, f.aiRepo.requests)

	for _, snapshot := range f.snapshotRepo.snapshots {
		assert.Empty(t, snapshot.ReasonSummary)
	}
}

func TestRun_ReingestionInsertsNewRows(t *testing.T) {
	f := newIngestionFixture(t)
	f.moversRepo.rows = []dto.MoverRow{
		{Symbol: "002690", Name: "동일철강", Price: 3015, ChangeRate: 29.97},
	}

	_, err := f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)
	_, err = f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)

	// Each run is a point-in-time fact, never an upsert.
	assert.Len(t, f.snapshotRepo.snapshots, 2)
}

func TestHistory(t *testing.T) {
	f := newIngestionFixture(t)

	_, err := f.svc.Run(context.Background(), common.TriggerManual)
	require.NoError(t, err)

	runs, err := f.svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
