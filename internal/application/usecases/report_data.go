package usecases

import (
	"strings"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
	"github.com/google/uuid"
)

// reportData is the filtered snapshot every aggregation engine consumes.
// It is built once per report request; engines never see different data
// versions of the same request.
type reportData struct {
	window repositories.ReportWindow

	sessions []entities.TrackingSession // current period, cleaned
	previous []entities.TrackingSession // previous equal-length period, cleaned
	recent   []entities.TrackingSession // trailing 7 days, cleaned (sparklines)

	viewsBySession map[uuid.UUID][]entities.PageView

	profiles          []entities.Profile
	connections       []entities.ConnectionRequest
	prevConnections   []entities.ConnectionRequest
	recentConnections []entities.ConnectionRequest

	// attribution maps a user id to the session that gets credit for that
	// user's conversions, resolved with the three-tier rule over the
	// user's own history.
	attribution   map[string]*entities.TrackingSession
	profileByUser map[string]entities.Profile

	dailyMetrics []entities.DailyMetric
}

func buildReportData(snapshot *repositories.AnalyticsSnapshot, window repositories.ReportWindow) *reportData {
	cleaned, _ := CleanSessions(snapshot.Sessions)

	data := &reportData{
		window:         window,
		viewsBySession: make(map[uuid.UUID][]entities.PageView),
		attribution:    make(map[string]*entities.TrackingSession),
		profileByUser:  make(map[string]entities.Profile),
		dailyMetrics:   snapshot.DailyMetrics,
	}

	// Page views arrive ordered by created_at, so per-session slices stay
	// chronological.
	for _, view := range snapshot.PageViews {
		data.viewsBySession[view.SessionID] = append(data.viewsBySession[view.SessionID], view)
	}

	sparkFrom := window.To.AddDate(0, 0, -7)
	for _, session := range cleaned {
		switch {
		case !session.StartedAt.Before(window.From):
			data.sessions = append(data.sessions, session)
		case !session.StartedAt.Before(window.PreviousFrom):
			data.previous = append(data.previous, session)
		}
		if !session.StartedAt.Before(sparkFrom) {
			data.recent = append(data.recent, session)
		}
	}

	for _, request := range snapshot.Connections {
		switch {
		case !request.CreatedAt.Before(window.From):
			data.connections = append(data.connections, request)
		case !request.CreatedAt.Before(window.PreviousFrom):
			data.prevConnections = append(data.prevConnections, request)
		}
		if !request.CreatedAt.Before(sparkFrom) {
			data.recentConnections = append(data.recentConnections, request)
		}
	}

	for _, profile := range snapshot.Profiles {
		data.profileByUser[profile.UserID] = profile
		if !profile.CreatedAt.Before(window.From) {
			data.profiles = append(data.profiles, profile)
		}
	}

	// Histories arrive most recent first; the three-tier rule wants
	// chronological order.
	for userID, history := range snapshot.UserSessions {
		usable, _ := CleanSessions(history)
		for i, j := 0, len(usable)-1; i < j; i, j = i+1, j-1 {
			usable[i], usable[j] = usable[j], usable[i]
		}
		if best := FirstMeaningfulSession(usable); best != nil {
			data.attribution[userID] = best
		}
	}

	return data
}

// sessionChannel classifies a session with its first-touch referrer: the
// cross-domain referrer captured at entry when present, else the plain
// one.
func sessionChannel(session *entities.TrackingSession) string {
	referrer := session.OriginalReferrer
	if referrer == "" {
		referrer = session.Referrer
	}
	return CategorizeChannel(referrer, session.UtmSource, session.UtmMedium)
}

// sessionReferrerDomain is the normalized referring domain of a session,
// or "" for direct traffic.
func sessionReferrerDomain(session *entities.TrackingSession) string {
	referrer := session.OriginalReferrer
	if referrer == "" {
		referrer = session.Referrer
	}
	if referrer == "" {
		return ""
	}
	return ExtractDomain(referrer)
}

// matchesFilter checks one session against one filter through the same
// classification functions the breakdowns are built with, so any breakdown
// label round-trips as a working filter value.
func (d *reportData) matchesFilter(session *entities.TrackingSession, filter entities.Filter) bool {
	switch filter.Type {
	case entities.FilterChannel:
		return sessionChannel(session) == filter.Value
	case entities.FilterReferrer:
		return sessionReferrerDomain(session) == filter.Value
	case entities.FilterCountry:
		return strings.EqualFold(session.Country, filter.Value)
	case entities.FilterRegion:
		return strings.EqualFold(session.Region, filter.Value)
	case entities.FilterCity:
		return strings.EqualFold(session.City, filter.Value)
	case entities.FilterBrowser:
		return strings.EqualFold(session.Browser, filter.Value)
	case entities.FilterOS:
		return strings.EqualFold(session.OS, filter.Value)
	case entities.FilterDevice:
		return strings.EqualFold(session.DeviceType, filter.Value)
	case entities.FilterCampaign:
		return session.UtmCampaign == filter.Value
	case entities.FilterKeyword:
		return session.UtmTerm == filter.Value
	case entities.FilterPage:
		for _, view := range d.viewsBySession[session.ID] {
			if strings.Contains(view.Path, filter.Value) {
				return true
			}
		}
		return false
	}
	return true
}

func (d *reportData) matchesAll(session *entities.TrackingSession, filters []entities.Filter) bool {
	for _, filter := range filters {
		if !d.matchesFilter(session, filter) {
			return false
		}
	}
	return true
}

// applyFilters narrows the snapshot to the sessions matching every active
// filter. Signups and connections follow their attribution session, which
// keeps every panel mutually consistent.
func (d *reportData) applyFilters(filters []entities.Filter) *reportData {
	if len(filters) == 0 {
		return d
	}

	filtered := &reportData{
		window:         d.window,
		viewsBySession: d.viewsBySession,
		attribution:    d.attribution,
		profileByUser:  d.profileByUser,
		// A filtered report cannot use the pre-aggregated daily rows.
		dailyMetrics: nil,
	}

	keep := func(sessions []entities.TrackingSession) []entities.TrackingSession {
		var kept []entities.TrackingSession
		for i := range sessions {
			if d.matchesAll(&sessions[i], filters) {
				kept = append(kept, sessions[i])
			}
		}
		return kept
	}
	filtered.sessions = keep(d.sessions)
	filtered.previous = keep(d.previous)
	filtered.recent = keep(d.recent)

	userPasses := func(userID string) bool {
		session, ok := d.attribution[userID]
		return ok && d.matchesAll(session, filters)
	}

	for _, profile := range d.profiles {
		if userPasses(profile.UserID) {
			filtered.profiles = append(filtered.profiles, profile)
		}
	}

	keepConnections := func(requests []entities.ConnectionRequest) []entities.ConnectionRequest {
		var kept []entities.ConnectionRequest
		for _, request := range requests {
			if userPasses(request.UserID) {
				kept = append(kept, request)
			}
		}
		return kept
	}
	filtered.connections = keepConnections(d.connections)
	filtered.prevConnections = keepConnections(d.prevConnections)
	filtered.recentConnections = keepConnections(d.recentConnections)

	return filtered
}
