package utils

import (
	"context"
	"strings"

	"golang-upper-limit-tracker/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one bad row cannot
// take down the whole batch.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("recovered from panic", logger.Field("panic", r))
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("context cancelled, stopping", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}

// CleanToValidUTF8 drops invalid UTF-8 sequences left over from lossy decodes.
func CleanToValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

// TruncateRunes shortens s to at most max runes.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
