package entity

import "time"

// NewsArticle is a headline attached to a snapshot to explain the surge.
// The (stock_id, url) unique index keeps re-analysis from appending the same
// headline twice.
type NewsArticle struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StockID     uint       `gorm:"not null;index;uniqueIndex:uq_news_articles_stock_url" json:"stockId"`
	Title       string     `gorm:"not null" json:"title"`
	URL         string     `gorm:"not null;uniqueIndex:uq_news_articles_stock_url" json:"url"`
	Publisher   string     `json:"publisher"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the NewsArticle model.
func (NewsArticle) TableName() string {
	return "news_articles"
}
