package usecases

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/utils"
)

// AnalyticsUseCase assembles the unified attribution report consumed by
// the admin dashboard.
type AnalyticsUseCase interface {
	GetUnifiedReport(ctx context.Context, window repositories.ReportWindow, filters []entities.Filter) (*entities.AnalyticsReport, error)
}

type analyticsUseCase struct {
	repo repositories.IAnalyticsRepository
}

func NewAnalyticsUseCase(repo repositories.IAnalyticsRepository) *analyticsUseCase {
	return &analyticsUseCase{repo: repo}
}

// GetUnifiedReport runs the whole pipeline: fetch, clean, filter, then
// every aggregation over the same filtered snapshot. The report is a pure
// function of the underlying records, the window and the filters, so
// re-running the same request against unchanged data yields identical
// output.
func (uc *analyticsUseCase) GetUnifiedReport(ctx context.Context, window repositories.ReportWindow, filters []entities.Filter) (*entities.AnalyticsReport, error) {
	startTime := time.Now()

	snapshot, err := uc.repo.FetchSnapshot(ctx, window)
	if err != nil {
		// A partial attribution report is worse than an explicit failure.
		return nil, fmt.Errorf("building analytics report: %w", err)
	}

	data := buildReportData(snapshot, window).applyFilters(filters)

	report := &entities.AnalyticsReport{
		Filters: filters,
	}
	if report.Filters == nil {
		report.Filters = []entities.Filter{}
	}

	report.KPIs = ComputeKPIs(data)
	report.Daily = dailySeries(data)

	report.Channels = ChannelBreakdown(data)
	report.Referrers = ReferrerBreakdown(data)
	report.Campaigns = CampaignBreakdown(data)
	report.Keywords = KeywordBreakdown(data)
	report.SelfReportedSources = SelfReportedBreakdown(data)

	report.Countries, report.Regions, report.Cities, report.GeoCoverage = GeoBreakdowns(data)
	report.TopPages, report.EntryPages, report.ExitPages, report.BlogEntryPages = PageBreakdowns(data)
	report.Browsers, report.OperatingSystems, report.Devices = TechBreakdowns(data)

	report.Funnel, report.FunnelConversion = BuildFunnel(data)
	report.TopUsers = TopUsers(data, window.To)

	log.Printf("analytics report built in %v (%d sessions, %d filters)",
		time.Since(startTime), len(data.sessions), len(filters))
	return report, nil
}

// dailySeries produces one point per day of the window. Unfiltered reports
// reuse the backend's pre-aggregated daily rows; filtered ones recompute
// from the raw records, since the rollups know nothing about filters.
func dailySeries(data *reportData) []entities.DailyPoint {
	if len(data.dailyMetrics) > 0 {
		byDay := make(map[string]entities.DailyMetric, len(data.dailyMetrics))
		for _, metric := range data.dailyMetrics {
			byDay[utils.DayKey(metric.Date)] = metric
		}
		var series []entities.DailyPoint
		for _, day := range windowDays(data.window.From, data.window.To) {
			point := entities.DailyPoint{Date: day}
			if metric, ok := byDay[day]; ok {
				point.Visitors = metric.Visitors
				point.Sessions = metric.Sessions
				point.Connections = metric.Connections
			}
			series = append(series, point)
		}
		return series
	}

	sessionsByDay := make(map[string]int64)
	visitorsByDay := make(map[string]map[string]struct{})
	connectionsByDay := make(map[string]int64)

	for i := range data.sessions {
		session := &data.sessions[i]
		day := utils.DayKey(session.StartedAt)
		sessionsByDay[day]++
		if key := session.VisitorKey(); key != "" {
			if visitorsByDay[day] == nil {
				visitorsByDay[day] = make(map[string]struct{})
			}
			visitorsByDay[day][key] = struct{}{}
		}
	}
	for _, request := range data.connections {
		connectionsByDay[utils.DayKey(request.CreatedAt)]++
	}

	var series []entities.DailyPoint
	for _, day := range windowDays(data.window.From, data.window.To) {
		series = append(series, entities.DailyPoint{
			Date:        day,
			Visitors:    int64(len(visitorsByDay[day])),
			Sessions:    sessionsByDay[day],
			Connections: connectionsByDay[day],
		})
	}
	return series
}

// windowDays lists every calendar date from from to to, inclusive.
func windowDays(from, to time.Time) []string {
	var days []string
	current := utils.StartOfDay(from)
	end := utils.StartOfDay(to)
	for !current.After(end) {
		days = append(days, current.Format(utils.DayLayout))
		current = current.AddDate(0, 0, 1)
	}
	return days
}
