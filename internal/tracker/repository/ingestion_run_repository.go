package repository

import (
	"context"
	"fmt"

	"golang-upper-limit-tracker/internal/entity"

	"gorm.io/gorm"
)

// IngestionRunRepository defines the interface for batch run audit records.
type IngestionRunRepository interface {
	Create(ctx context.Context, run *entity.IngestionRun) error
	Update(ctx context.Context, run *entity.IngestionRun) error
	List(ctx context.Context, limit int) ([]entity.IngestionRun, error)
}

// NewIngestionRunRepository creates a new IngestionRunRepository.
func NewIngestionRunRepository(db *gorm.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

type ingestionRunRepository struct {
	db *gorm.DB
}

func (r *ingestionRunRepository) Create(ctx context.Context, run *entity.IngestionRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create ingestion run: %w", err)
	}
	return nil
}

func (r *ingestionRunRepository) Update(ctx context.Context, run *entity.IngestionRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to update ingestion run: %w", err)
	}
	return nil
}

func (r *ingestionRunRepository) List(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	runs := []entity.IngestionRun{}
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion runs: %w", err)
	}
	return runs, nil
}
