package repository

import (
	"context"
	"fmt"

	"golang-upper-limit-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsArticleRepository defines the interface for interacting with news
// articles attached to snapshots.
type NewsArticleRepository interface {
	// CreateIgnoreConflict inserts the article unless the snapshot already
	// has one with the same URL. Returns whether a row was inserted.
	CreateIgnoreConflict(ctx context.Context, article *entity.NewsArticle) (bool, error)
	FindByStockID(ctx context.Context, stockID uint) ([]entity.NewsArticle, error)
}

// NewNewsArticleRepository creates a new NewsArticleRepository.
func NewNewsArticleRepository(db *gorm.DB) NewsArticleRepository {
	return &newsArticleRepository{db: db}
}

type newsArticleRepository struct {
	db *gorm.DB
}

func (r *newsArticleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.NewsArticle) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "url"}},
		DoNothing: true,
	}).Create(article)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create news article: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *newsArticleRepository) FindByStockID(ctx context.Context, stockID uint) ([]entity.NewsArticle, error) {
	articles := []entity.NewsArticle{}
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at ASC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find news articles: %w", err)
	}
	return articles, nil
}
