package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey_BucketsInReportTimezone(t *testing.T) {
	// 03:00 UTC is still the previous evening in Eastern time.
	late := time.Date(2026, 5, 20, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-19", DayKey(late))

	noon := time.Date(2026, 5, 20, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-20", DayKey(noon))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 5, 20, 16, 30, 45, 0, time.UTC)
	start := StartOfDay(ts)

	local := start.In(ReportLocation())
	assert.Equal(t, 0, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, "2026-05-20", DayKey(start))
	assert.True(t, !start.After(ts))

	// Idempotent: a midnight stays a midnight.
	assert.Equal(t, start, StartOfDay(start))
}
