package service

import (
	"context"
	"sync"
	"time"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/dto"
)

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	nextID    uint
	snapshots map[uint]*entity.StockSnapshot
	createErr func(snapshot *entity.StockSnapshot) error
	reasons   map[uint]string
	newsRepo  *fakeNewsRepo
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{
		snapshots: map[uint]*entity.StockSnapshot{},
		reasons:   map[uint]string{},
	}
}

func (f *fakeSnapshotRepo) List(ctx context.Context, date string) ([]entity.StockSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.StockSnapshot{}
	for _, s := range f.snapshots {
		if date == "" || s.Date == date {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) GetByID(ctx context.Context, id uint) (*entity.StockSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snapshots[id]
	if !ok {
		return nil, dto.ErrStockNotFound
	}
	copied := *s
	if f.newsRepo != nil {
		copied.News, _ = f.newsRepo.FindByStockID(ctx, id)
	}
	return &copied, nil
}

func (f *fakeSnapshotRepo) Create(ctx context.Context, snapshot *entity.StockSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if err := f.createErr(snapshot); err != nil {
			return err
		}
	}
	f.nextID++
	snapshot.ID = f.nextID
	copied := *snapshot
	f.snapshots[snapshot.ID] = &copied
	return nil
}

func (f *fakeSnapshotRepo) UpdateReason(ctx context.Context, id uint, reason string) (*entity.StockSnapshot, error) {
	f.mu.Lock()
	s, ok := f.snapshots[id]
	if !ok {
		f.mu.Unlock()
		return nil, dto.ErrStockNotFound
	}
	s.ReasonSummary = reason
	f.reasons[id] = reason
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

type fakeNewsRepo struct {
	mu       sync.Mutex
	created  []entity.NewsArticle
	existing map[string]bool
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{existing: map[string]bool{}}
}

func (f *fakeNewsRepo) CreateIgnoreConflict(ctx context.Context, article *entity.NewsArticle) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existing[article.URL] {
		return false, nil
	}
	f.existing[article.URL] = true
	f.created = append(f.created, *article)
	return true, nil
}

func (f *fakeNewsRepo) FindByStockID(ctx context.Context, stockID uint) ([]entity.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.NewsArticle{}
	for _, a := range f.created {
		if a.StockID == stockID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSearchRepo struct {
	candidates []dto.NewsCandidate
	fetchErr   error
	content    string
	contentErr error
}

func (f *fakeSearchRepo) FetchNews(ctx context.Context, companyName string) ([]dto.NewsCandidate, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.candidates, nil
}

func (f *fakeSearchRepo) FetchArticleContent(ctx context.Context, articleURL string) (string, error) {
	if f.contentErr != nil {
		return "", f.contentErr
	}
	return f.content, nil
}

type fakeAIRepo struct {
	mu       sync.Mutex
	requests []*dto.SummarizeRequest
	summary  string
	err      error
}

func (f *fakeAIRepo) SummarizeSurge(ctx context.Context, req *dto.SummarizeRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type fakeMoversRepo struct {
	rows []dto.MoverRow
	err  error
}

func (f *fakeMoversRepo) FetchTopMovers(ctx context.Context) ([]dto.MoverRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeRunRepo struct {
	mu     sync.Mutex
	nextID uint
	runs   map[uint]*entity.IngestionRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[uint]*entity.IngestionRun{}}
}

func (f *fakeRunRepo) Create(ctx context.Context, run *entity.IngestionRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	run.ID = f.nextID
	copied := *run
	f.runs[run.ID] = &copied
	return nil
}

func (f *fakeRunRepo) Update(ctx context.Context, run *entity.IngestionRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *run
	f.runs[run.ID] = &copied
	return nil
}

func (f *fakeRunRepo) List(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.IngestionRun{}
	for _, r := range f.runs {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRunRepo) get(id uint) *entity.IngestionRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[id]
}

type fakeLocker struct {
	mu       sync.Mutex
	acquired bool
	err      error
	released bool
}

func (f *fakeLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return f.acquired, f.err
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
	return nil
}

func (f *fakeLocker) wasReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}
