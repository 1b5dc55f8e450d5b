package entities

import "time"

// DailyMetric is a pre-aggregated per-day rollup maintained by the tracking
// backend. Used as a fast path for the daily series when no breakdown
// filters are active; filtered reports recompute from raw rows instead.
type DailyMetric struct {
	Date        time.Time `json:"date" gorm:"primaryKey;column:date"`
	Visitors    int64     `json:"visitors" gorm:"column:visitors"`
	Sessions    int64     `json:"sessions" gorm:"column:sessions"`
	Connections int64     `json:"connections" gorm:"column:connections"`
}

func (DailyMetric) TableName() string {
	return "daily_metrics"
}
