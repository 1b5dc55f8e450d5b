package usecases

import (
	"math"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/utils"
)

// trendPct is the signed percentage change against the previous period.
// A zero previous-period denominator yields a 0% trend, never NaN or Inf.
func trendPct(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*100) / 100
}

func rateTrendPct(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	change := (current - previous) / previous * 100
	return math.Round(change*100) / 100
}

func uniqueVisitors(sessions []entities.TrackingSession) int64 {
	keys := make(map[string]struct{})
	for i := range sessions {
		if key := sessions[i].VisitorKey(); key != "" {
			keys[key] = struct{}{}
		}
	}
	return int64(len(keys))
}

// bounceRate is bounced sessions over sessions with at least one page
// view, as a percentage. A bounce is a session with exactly one view.
func bounceRate(data *reportData, sessions []entities.TrackingSession) float64 {
	var viewed, bounced int64
	for i := range sessions {
		views := len(data.viewsBySession[sessions[i].ID])
		if views == 0 {
			continue
		}
		viewed++
		if views == 1 {
			bounced++
		}
	}
	if viewed == 0 {
		return 0
	}
	return math.Round(float64(bounced)/float64(viewed)*10000) / 100
}

func conversionRate(connections, sessions int64) float64 {
	if sessions == 0 {
		return 0
	}
	return math.Round(float64(connections)/float64(sessions)*10000) / 100
}

// ComputeKPIs builds the headline block: current vs. previous period
// deltas, bounce and conversion rates, average session duration, trailing
// 7-day sparklines and the currently-active count.
func ComputeKPIs(data *reportData) entities.KPIBlock {
	currentVisitors := uniqueVisitors(data.sessions)
	previousVisitors := uniqueVisitors(data.previous)
	currentSessions := int64(len(data.sessions))
	previousSessions := int64(len(data.previous))
	currentConnections := int64(len(data.connections))
	previousConnections := int64(len(data.prevConnections))

	visitorSpark, sessionSpark := sessionSparklines(data)

	block := entities.KPIBlock{
		Visitors: entities.KPIMetric{
			Value:     currentVisitors,
			Trend:     trendPct(currentVisitors, previousVisitors),
			Sparkline: visitorSpark,
		},
		Sessions: entities.KPIMetric{
			Value:     currentSessions,
			Trend:     trendPct(currentSessions, previousSessions),
			Sparkline: sessionSpark,
		},
		Connections: entities.KPIMetric{
			Value:     currentConnections,
			Trend:     trendPct(currentConnections, previousConnections),
			Sparkline: connectionSparkline(data),
		},
	}

	currentConversion := conversionRate(currentConnections, currentSessions)
	previousConversion := conversionRate(previousConnections, previousSessions)
	block.ConversionRate = entities.KPIRate{
		Value: currentConversion,
		Trend: rateTrendPct(currentConversion, previousConversion),
	}

	currentBounce := bounceRate(data, data.sessions)
	previousBounce := bounceRate(data, data.previous)
	block.BounceRate = entities.KPIRate{
		Value: currentBounce,
		Trend: rateTrendPct(currentBounce, previousBounce),
	}

	// Sessions with no recorded duration are excluded from the average,
	// not treated as zero.
	var totalSeconds, timed int64
	for i := range data.sessions {
		if data.sessions[i].Duration > 0 {
			totalSeconds += data.sessions[i].Duration
			timed++
		}
	}
	if timed > 0 {
		block.AvgSessionSeconds = math.Round(float64(totalSeconds)/float64(timed)*100) / 100
	}

	for i := range data.sessions {
		if !data.sessions[i].LastActivity.Before(data.window.ActiveCutoff) {
			block.ActiveNow++
		}
	}

	return block
}

// sessionSparklines counts distinct visitors and sessions per day over the
// trailing week, oldest day first, regardless of the window length.
func sessionSparklines(data *reportData) (visitors, sessions []int64) {
	visitorsByDay := make(map[string]map[string]struct{})
	sessionsByDay := make(map[string]int64)
	for i := range data.recent {
		session := &data.recent[i]
		day := utils.DayKey(session.StartedAt)
		sessionsByDay[day]++
		if key := session.VisitorKey(); key != "" {
			if visitorsByDay[day] == nil {
				visitorsByDay[day] = make(map[string]struct{})
			}
			visitorsByDay[day][key] = struct{}{}
		}
	}

	for _, day := range sparklineDays(data.window.To) {
		visitors = append(visitors, int64(len(visitorsByDay[day])))
		sessions = append(sessions, sessionsByDay[day])
	}
	return visitors, sessions
}

func connectionSparkline(data *reportData) []int64 {
	byDay := make(map[string]int64)
	for _, request := range data.recentConnections {
		byDay[utils.DayKey(request.CreatedAt)]++
	}
	var spark []int64
	for _, day := range sparklineDays(data.window.To) {
		spark = append(spark, byDay[day])
	}
	return spark
}

func sparklineDays(end time.Time) []string {
	days := make([]string, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		days = append(days, utils.DayKey(end.AddDate(0, 0, -offset)))
	}
	return days
}
