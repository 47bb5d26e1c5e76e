package utils

import (
	"log"
	"time"
)

// GetKSTLocation returns the Korea Standard Time location. The tracked
// exchanges open and close on KST regardless of where the process runs.
func GetKSTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

// TimeNowKST returns the current time in KST.
func TimeNowKST() time.Time {
	return time.Now().In(GetKSTLocation())
}

// TodayKST returns the current KST calendar date as YYYY-MM-DD.
func TodayKST() string {
	return TimeNowKST().Format("2006-01-02")
}
