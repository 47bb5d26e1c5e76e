package telegram

import (
	"fmt"
	"strings"
)

// IngestionReport is the subset of a batch run worth pushing to the chat.
type IngestionReport struct {
	Date        string
	TriggeredBy string
	Status      string
	StocksFound int
	NewsFound   int
	Summarized  int
	Stocks      []IngestionStockLine
}

// IngestionStockLine is one ingested upper-limit stock.
type IngestionStockLine struct {
	Symbol     string
	Name       string
	Price      int64
	ChangeRate float64
}

// FormatIngestionReport renders a batch ingestion result as a Markdown message.
func FormatIngestionReport(report IngestionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*상한가 수집 결과* (%s)\n", report.Date)
	fmt.Fprintf(&b, "trigger: `%s` status: `%s`\n", report.TriggeredBy, report.Status)
	fmt.Fprintf(&b, "stocks: %d | news: %d | summarized: %d\n", report.StocksFound, report.NewsFound, report.Summarized)

	if len(report.Stocks) == 0 {
		b.WriteString("\n_상한가 종목 없음_")
		return b.String()
	}

	b.WriteString("\n")
	for _, s := range report.Stocks {
		symbol := s.Symbol
		if symbol == "" {
			symbol = "-"
		}
		fmt.Fprintf(&b, "• `%s` %s %s원 (+%.2f%%)\n", symbol, s.Name, formatThousands(s.Price), s.ChangeRate)
	}

	return b.String()
}

func formatThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
