package entity

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Ingestion run statuses. A run is PARTIAL when some rows failed but the
// batch itself completed.
const (
	IngestionStatusRunning = "RUNNING"
	IngestionStatusSuccess = "SUCCESS"
	IngestionStatusPartial = "PARTIAL"
)

// IngestionRun is the audit record of one batch crawl, manual or scheduled.
type IngestionRun struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TriggeredBy string         `gorm:"not null" json:"triggeredBy"`
	Status      string         `gorm:"not null" json:"status"`
	StocksFound int            `json:"stocksFound"`
	NewsFound   int            `json:"newsFound"`
	Summarized  int            `json:"summarized"`
	Errors      pq.StringArray `gorm:"type:text[]" json:"errors"`
	Detail      datatypes.JSON `json:"detail"`
	StartedAt   time.Time      `gorm:"not null" json:"startedAt"`
	CompletedAt sql.NullTime   `json:"completedAt"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the IngestionRun model.
func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
