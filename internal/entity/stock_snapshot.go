package entity

import "time"

// Market type values for the tracked exchanges. The ranked movers listing
// does not disambiguate the exchange per row, so ingested snapshots carry
// MarketTypeUnknown until a secondary lookup resolves them.
const (
	MarketTypeKOSPI   = "KOSPI"
	MarketTypeKOSDAQ  = "KOSDAQ"
	MarketTypeUnknown = "UNKNOWN"
)

// SectorUnknown marks snapshots whose source page carries no sector data, as
// opposed to an empty sector from a source that does.
const SectorUnknown = "UNKNOWN"

// StockSnapshot is one point-in-time record of an upper-limit surge event.
// Each ingestion run inserts fresh rows; identity, date, symbol and price are
// write-once and only ReasonSummary changes after creation.
type StockSnapshot struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Date          string        `gorm:"type:varchar(10);not null;index" json:"date"`
	Symbol        string        `json:"symbol"`
	Name          string        `gorm:"not null" json:"name"`
	Price         int64         `gorm:"not null" json:"price"`
	ChangeRate    float64       `gorm:"type:numeric(5,2);not null" json:"changeRate"`
	Sector        string        `json:"sector"`
	MarketType    string        `gorm:"not null" json:"marketType"`
	ReasonSummary string        `json:"reasonSummary"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	News          []NewsArticle `gorm:"foreignKey:StockID" json:"news"`
}

// TableName specifies the table name for the StockSnapshot model.
func (StockSnapshot) TableName() string {
	return "upper_limit_stocks"
}
