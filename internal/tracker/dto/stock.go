package dto

import "time"

// MoverRow is one parsed row from the ranked movers listing, already past
// the change-rate threshold filter.
type MoverRow struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Price      int64   `json:"price"`
	ChangeRate float64 `json:"change_rate"`
}

// NewsCandidate is one headline extracted from the news search results.
type NewsCandidate struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Publisher   string     `json:"publisher"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SummarizeRequest carries everything the summarizer needs to explain a surge.
type SummarizeRequest struct {
	Name           string
	ChangeRate     float64
	Headlines      []string
	ArticleExcerpt string
}

// RowResult records the outcome of ingesting one mover row.
type RowResult struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	SnapshotID uint   `json:"snapshot_id,omitempty"`
	NewsCount  int    `json:"news_count"`
	Summarized bool   `json:"summarized"`
	Error      string `json:"error,omitempty"`
}

// IngestionResult is the aggregate outcome of one batch run.
type IngestionResult struct {
	RunID      uint        `json:"runId"`
	Count      int         `json:"count"`
	NewsFound  int         `json:"newsFound"`
	Summarized int         `json:"summarized"`
	Errors     []string    `json:"errors,omitempty"`
	Rows       []RowResult `json:"rows,omitempty"`
}

// CrawlResponse is the body returned by the crawl trigger endpoint.
type CrawlResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ErrorResponse is the generic error body for the HTTP API.
type ErrorResponse struct {
	Message string `json:"message"`
}
