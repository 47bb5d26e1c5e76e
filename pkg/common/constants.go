package common

const (
	// IngestionLockKey guards batch ingestion against overlapping runs,
	// including runs triggered from another replica.
	IngestionLockKey = "upper-limit-tracker:ingestion:lock"

	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)
