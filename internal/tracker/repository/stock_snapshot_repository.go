package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/dto"

	"gorm.io/gorm"
)

// StockSnapshotRepository defines the interface for interacting with
// upper-limit stock snapshots.
type StockSnapshotRepository interface {
	// List returns snapshots with their news eager-loaded, biggest movers
	// (by price) first. A non-empty date applies an exact-date filter.
	List(ctx context.Context, date string) ([]entity.StockSnapshot, error)
	// GetByID returns one snapshot with its news, or dto.ErrStockNotFound.
	GetByID(ctx context.Context, id uint) (*entity.StockSnapshot, error)
	// Create always inserts a new row; re-ingestion is a new point-in-time
	// fact, never an upsert.
	Create(ctx context.Context, snapshot *entity.StockSnapshot) error
	// UpdateReason is the only mutation permitted on an existing snapshot.
	UpdateReason(ctx context.Context, id uint, reason string) (*entity.StockSnapshot, error)
}

// NewStockSnapshotRepository creates a new StockSnapshotRepository.
func NewStockSnapshotRepository(db *gorm.DB) StockSnapshotRepository {
	return &stockSnapshotRepository{db: db}
}

type stockSnapshotRepository struct {
	db *gorm.DB
}

func (r *stockSnapshotRepository) List(ctx context.Context, date string) ([]entity.StockSnapshot, error) {
	snapshots := []entity.StockSnapshot{}
	q := r.db.WithContext(ctx).Preload("News").Order("price DESC")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if err := q.Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *stockSnapshotRepository) GetByID(ctx context.Context, id uint) (*entity.StockSnapshot, error) {
	var snapshot entity.StockSnapshot
	err := r.db.WithContext(ctx).Preload("News").First(&snapshot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dto.ErrStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock snapshot: %w", err)
	}
	return &snapshot, nil
}

func (r *stockSnapshotRepository) Create(ctx context.Context, snapshot *entity.StockSnapshot) error {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create stock snapshot: %w", err)
	}
	return nil
}

func (r *stockSnapshotRepository) UpdateReason(ctx context.Context, id uint, reason string) (*entity.StockSnapshot, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.StockSnapshot{}).
		Where("id = ?", id).
		Update("reason_summary", reason)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update reason summary: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, dto.ErrStockNotFound
	}
	return r.GetByID(ctx, id)
}
