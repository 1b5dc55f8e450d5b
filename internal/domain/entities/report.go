package entities

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// AnalyticsReport is the consolidated response consumed by the admin
// analytics dashboard. One report is a pure function of the raw records in
// its window plus the active filter set.
type AnalyticsReport struct {
	KPIs  KPIBlock     `json:"kpis"`
	Daily []DailyPoint `json:"daily"`

	Channels            []BreakdownRow `json:"channels"`
	Referrers           []ReferrerRow  `json:"referrers"`
	Campaigns           []BreakdownRow `json:"campaigns"`
	Keywords            []BreakdownRow `json:"keywords"`
	SelfReportedSources []BreakdownRow `json:"self_reported_sources"`

	Countries   []GeoRow `json:"countries"`
	Regions     []GeoRow `json:"regions"`
	Cities      []GeoRow `json:"cities"`
	GeoCoverage float64  `json:"geo_coverage"`

	TopPages       []PageRow `json:"top_pages"`
	EntryPages     []PageRow `json:"entry_pages"`
	ExitPages      []PageRow `json:"exit_pages"`
	BlogEntryPages []PageRow `json:"blog_entry_pages"`

	Browsers         []TechRow `json:"browsers"`
	OperatingSystems []TechRow `json:"operating_systems"`
	Devices          []TechRow `json:"devices"`

	Funnel           []FunnelStage `json:"funnel"`
	FunnelConversion float64       `json:"funnel_conversion"`

	TopUsers []TopUser `json:"top_users"`

	Filters []Filter `json:"filters"`
	ETag    string   `json:"-"`
}

// KPIBlock holds the headline metrics with previous-period trends.
type KPIBlock struct {
	Visitors    KPIMetric `json:"visitors"`
	Sessions    KPIMetric `json:"sessions"`
	Connections KPIMetric `json:"connections"`

	ConversionRate KPIRate `json:"conversion_rate"`
	BounceRate     KPIRate `json:"bounce_rate"`

	AvgSessionSeconds float64 `json:"avg_session_seconds"`
	ActiveNow         int64   `json:"active_now"`
}

// KPIMetric is a count with a signed percentage trend against the previous
// period of equal length and a trailing 7-day sparkline.
type KPIMetric struct {
	Value     int64   `json:"value"`
	Trend     float64 `json:"trend"`
	Sparkline []int64 `json:"sparkline"`
}

// KPIRate is a percentage value with a signed trend.
type KPIRate struct {
	Value float64 `json:"value"`
	Trend float64 `json:"trend"`
}

// DailyPoint is one day of the report window's time series.
type DailyPoint struct {
	Date        string `json:"date"`
	Visitors    int64  `json:"visitors"`
	Sessions    int64  `json:"sessions"`
	Connections int64  `json:"connections"`
}

// BreakdownRow is one labeled bucket of a report dimension.
type BreakdownRow struct {
	Label       string `json:"label"`
	Visitors    int64  `json:"visitors"`
	Sessions    int64  `json:"sessions"`
	Signups     int64  `json:"signups"`
	Connections int64  `json:"connections"`
}

// ReferrerRow adds the favicon URL the dashboard renders next to a
// referring domain.
type ReferrerRow struct {
	BreakdownRow
	Favicon string `json:"favicon"`
}

// GeoRow is a geography bucket. Code is a display hint derived from the
// name, not an ISO lookup.
type GeoRow struct {
	BreakdownRow
	Code string `json:"code,omitempty"`
}

// TechRow is a browser/OS/device bucket with its share of total sessions.
type TechRow struct {
	BreakdownRow
	Percentage float64 `json:"percentage"`
}

// PageRow is one path bucket of the page reports.
type PageRow struct {
	Path     string `json:"path"`
	Views    int64  `json:"views"`
	Visitors int64  `json:"visitors"`
	Sessions int64  `json:"sessions"`
}

// FunnelStage is one step of the acquisition funnel. DropOff is the
// percentage lost relative to the immediately preceding stage; 0 when the
// preceding stage had no entries.
type FunnelStage struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	DropOff float64 `json:"drop_off"`
}

// Activity levels for the per-day histogram on the top-users panel.
const (
	ActivityNone   = "none"
	ActivityLow    = "low"
	ActivityMedium = "medium"
	ActivityHigh   = "high"
)

// ActivityDay is one day of a visitor's trailing-week activity histogram.
type ActivityDay struct {
	Date      string `json:"date"`
	Level     string `json:"level"`
	PageViews int64  `json:"page_views"`
}

// TopUser is one row of the most-active-visitors panel. Anonymous visitors
// get a stable generated pseudonym instead of a profile name.
type TopUser struct {
	VisitorKey  string        `json:"visitor_key"`
	DisplayName string        `json:"display_name"`
	IsAnonymous bool          `json:"is_anonymous"`
	Sessions    int64         `json:"sessions"`
	PageViews   int64         `json:"page_views"`
	Connections int64         `json:"connections"`
	LastActive  time.Time     `json:"last_active"`
	Activity    []ActivityDay `json:"activity"`
}

// CalculateETag derives a content hash so the dashboard can revalidate
// cached reports cheaply.
func (r *AnalyticsReport) CalculateETag() string {
	data, _ := json.Marshal(r)
	hash := md5.Sum(data)
	r.ETag = fmt.Sprintf("%x", hash)
	return r.ETag
}
