package dto

import "errors"

var (
	// ErrStockNotFound means the referenced snapshot identity does not exist.
	ErrStockNotFound = errors.New("stock not found")

	// ErrAnalysisFailed means the text-generation call failed; the snapshot's
	// summary is left untouched.
	ErrAnalysisFailed = errors.New("ai analysis failed")

	// ErrIngestionInProgress means another batch run holds the ingestion lock.
	ErrIngestionInProgress = errors.New("ingestion already in progress")
)

// SummaryUnavailable is returned to readers when the model produced no
// content. It is a valid summary value, not an error.
const SummaryUnavailable = "이유를 분석할 수 없습니다."
