package usecases

import (
	"math"
	"sort"
	"strings"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/google/uuid"
)

const (
	maxReferrerRows = 20
	maxGeoRows      = 10
)

// bucketAgg accumulates one labeled row. Visitor counts deduplicate on the
// visitor key; sessions without one still count as sessions.
type bucketAgg struct {
	label       string
	visitors    map[string]struct{}
	sessions    int64
	signups     int64
	connections int64
}

// breakdownBuilder groups records into labeled buckets, remembering
// insertion order so equal-visitor rows keep their encounter order after
// the stable sort.
type breakdownBuilder struct {
	buckets map[string]*bucketAgg
	order   []string
}

func newBreakdownBuilder() *breakdownBuilder {
	return &breakdownBuilder{buckets: make(map[string]*bucketAgg)}
}

func (b *breakdownBuilder) bucket(label string) *bucketAgg {
	if agg, ok := b.buckets[label]; ok {
		return agg
	}
	agg := &bucketAgg{label: label, visitors: make(map[string]struct{})}
	b.buckets[label] = agg
	b.order = append(b.order, label)
	return agg
}

func (b *breakdownBuilder) addSession(label string, session *entities.TrackingSession) {
	agg := b.bucket(label)
	agg.sessions++
	if key := session.VisitorKey(); key != "" {
		agg.visitors[key] = struct{}{}
	}
}

func (b *breakdownBuilder) addSignup(label string) {
	b.bucket(label).signups++
}

func (b *breakdownBuilder) addConnection(label string) {
	b.bucket(label).connections++
}

// rows returns the buckets sorted descending by unique visitors, capped at
// limit when limit is positive.
func (b *breakdownBuilder) rows(limit int) []entities.BreakdownRow {
	rows := make([]entities.BreakdownRow, 0, len(b.order))
	for _, label := range b.order {
		agg := b.buckets[label]
		rows = append(rows, entities.BreakdownRow{
			Label:       agg.label,
			Visitors:    int64(len(agg.visitors)),
			Sessions:    agg.sessions,
			Signups:     agg.signups,
			Connections: agg.connections,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Visitors > rows[j].Visitors
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// attributionChannel resolves the channel credited for a user's
// conversion: the self-reported signup answer when it maps to a channel,
// else the attribution session, else Direct.
func (d *reportData) attributionChannel(userID string) string {
	if profile, ok := d.profileByUser[userID]; ok {
		if channel := SelfReportedChannel(profile.ReferralSource); channel != "" {
			return channel
		}
	}
	if session, ok := d.attribution[userID]; ok {
		return sessionChannel(session)
	}
	return ChannelDirect
}

// ChannelBreakdown groups sessions, signups and connections by channel.
func ChannelBreakdown(data *reportData) []entities.BreakdownRow {
	builder := newBreakdownBuilder()
	for i := range data.sessions {
		builder.addSession(sessionChannel(&data.sessions[i]), &data.sessions[i])
	}
	for _, profile := range data.profiles {
		builder.addSignup(data.attributionChannel(profile.UserID))
	}
	for _, request := range data.connections {
		builder.addConnection(data.attributionChannel(request.UserID))
	}
	return builder.rows(0)
}

// ReferrerBreakdown groups by normalized referring domain, top 20. Direct
// sessions carry no domain and are left out.
func ReferrerBreakdown(data *reportData) []entities.ReferrerRow {
	builder := newBreakdownBuilder()
	for i := range data.sessions {
		if domain := sessionReferrerDomain(&data.sessions[i]); domain != "" {
			builder.addSession(domain, &data.sessions[i])
		}
	}
	attributionDomain := func(userID string) string {
		if session, ok := data.attribution[userID]; ok {
			return sessionReferrerDomain(session)
		}
		return ""
	}
	for _, profile := range data.profiles {
		if domain := attributionDomain(profile.UserID); domain != "" {
			builder.addSignup(domain)
		}
	}
	for _, request := range data.connections {
		if domain := attributionDomain(request.UserID); domain != "" {
			builder.addConnection(domain)
		}
	}

	rows := builder.rows(maxReferrerRows)
	referrers := make([]entities.ReferrerRow, 0, len(rows))
	for _, row := range rows {
		referrers = append(referrers, entities.ReferrerRow{
			BreakdownRow: row,
			Favicon:      "https://www.google.com/s2/favicons?domain=" + row.Label + "&sz=32",
		})
	}
	return referrers
}

// CampaignBreakdown groups by utm_campaign.
func CampaignBreakdown(data *reportData) []entities.BreakdownRow {
	return utmBreakdown(data,
		func(s *entities.TrackingSession) string { return s.UtmCampaign })
}

// KeywordBreakdown groups by utm_term.
func KeywordBreakdown(data *reportData) []entities.BreakdownRow {
	return utmBreakdown(data,
		func(s *entities.TrackingSession) string { return s.UtmTerm })
}

func utmBreakdown(data *reportData, label func(*entities.TrackingSession) string) []entities.BreakdownRow {
	builder := newBreakdownBuilder()
	for i := range data.sessions {
		if value := label(&data.sessions[i]); value != "" {
			builder.addSession(value, &data.sessions[i])
		}
	}
	attributionLabel := func(userID string) string {
		if session, ok := data.attribution[userID]; ok {
			return label(session)
		}
		return ""
	}
	for _, profile := range data.profiles {
		if value := attributionLabel(profile.UserID); value != "" {
			builder.addSignup(value)
		}
	}
	for _, request := range data.connections {
		if value := attributionLabel(request.UserID); value != "" {
			builder.addConnection(value)
		}
	}
	return builder.rows(0)
}

// SelfReportedBreakdown groups the signups of the window by their raw
// "how did you hear about us" answer, most common first.
func SelfReportedBreakdown(data *reportData) []entities.BreakdownRow {
	counts := make(map[string]int64)
	var order []string
	for _, profile := range data.profiles {
		answer := strings.TrimSpace(profile.ReferralSource)
		if answer == "" {
			continue
		}
		if _, seen := counts[answer]; !seen {
			order = append(order, answer)
		}
		counts[answer]++
	}

	rows := make([]entities.BreakdownRow, 0, len(order))
	for _, answer := range order {
		rows = append(rows, entities.BreakdownRow{Label: answer, Signups: counts[answer]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Signups > rows[j].Signups
	})
	return rows
}

// GeoBreakdowns groups by country, region and city, plus the share of
// sessions carrying any geography at all.
func GeoBreakdowns(data *reportData) (countries, regions, cities []entities.GeoRow, coverage float64) {
	countryBuilder := newBreakdownBuilder()
	regionBuilder := newBreakdownBuilder()
	cityBuilder := newBreakdownBuilder()

	var located int64
	for i := range data.sessions {
		session := &data.sessions[i]
		if session.Country != "" {
			located++
			countryBuilder.addSession(session.Country, session)
		}
		if session.Region != "" {
			regionBuilder.addSession(session.Region, session)
		}
		if session.City != "" {
			cityBuilder.addSession(session.City, session)
		}
	}

	for _, profile := range data.profiles {
		if session, ok := data.attribution[profile.UserID]; ok {
			if session.Country != "" {
				countryBuilder.addSignup(session.Country)
			}
			if session.Region != "" {
				regionBuilder.addSignup(session.Region)
			}
			if session.City != "" {
				cityBuilder.addSignup(session.City)
			}
		}
	}
	for _, request := range data.connections {
		if session, ok := data.attribution[request.UserID]; ok {
			if session.Country != "" {
				countryBuilder.addConnection(session.Country)
			}
			if session.Region != "" {
				regionBuilder.addConnection(session.Region)
			}
			if session.City != "" {
				cityBuilder.addConnection(session.City)
			}
		}
	}

	toGeoRows := func(rows []entities.BreakdownRow, withCode bool) []entities.GeoRow {
		geo := make([]entities.GeoRow, 0, len(rows))
		for _, row := range rows {
			geoRow := entities.GeoRow{BreakdownRow: row}
			if withCode {
				geoRow.Code = countryCode(row.Label)
			}
			geo = append(geo, geoRow)
		}
		return geo
	}

	countries = toGeoRows(countryBuilder.rows(0), true)
	regions = toGeoRows(regionBuilder.rows(maxGeoRows), false)
	cities = toGeoRows(cityBuilder.rows(maxGeoRows), false)

	if total := int64(len(data.sessions)); total > 0 {
		coverage = math.Round(float64(located)/float64(total)*10000) / 100
	}
	return countries, regions, cities, coverage
}

// countryCode is a display hint only: the first two letters of the name
// uppercased, not a real ISO lookup.
func countryCode(name string) string {
	runes := []rune(name)
	if len(runes) < 2 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(string(runes[:2]))
}

// TechBreakdowns groups by browser, operating system and device type,
// each row with its share of total sessions.
func TechBreakdowns(data *reportData) (browsers, operatingSystems, devices []entities.TechRow) {
	browserBuilder := newBreakdownBuilder()
	osBuilder := newBreakdownBuilder()
	deviceBuilder := newBreakdownBuilder()

	for i := range data.sessions {
		session := &data.sessions[i]
		if session.Browser != "" {
			browserBuilder.addSession(session.Browser, session)
		}
		if session.OS != "" {
			osBuilder.addSession(session.OS, session)
		}
		if session.DeviceType != "" {
			deviceBuilder.addSession(session.DeviceType, session)
		}
	}

	total := int64(len(data.sessions))
	toTechRows := func(rows []entities.BreakdownRow) []entities.TechRow {
		tech := make([]entities.TechRow, 0, len(rows))
		for _, row := range rows {
			techRow := entities.TechRow{BreakdownRow: row}
			if total > 0 {
				techRow.Percentage = math.Round(float64(row.Sessions)/float64(total)*10000) / 100
			}
			tech = append(tech, techRow)
		}
		return tech
	}
	return toTechRows(browserBuilder.rows(0)),
		toTechRows(osBuilder.rows(0)),
		toTechRows(deviceBuilder.rows(0))
}

// pageAgg accumulates one path bucket.
type pageAgg struct {
	path     string
	views    int64
	visitors map[string]struct{}
	sessions map[uuid.UUID]struct{}
}

type pageBuilder struct {
	buckets map[string]*pageAgg
	order   []string
}

func newPageBuilder() *pageBuilder {
	return &pageBuilder{buckets: make(map[string]*pageAgg)}
}

func (b *pageBuilder) add(path string, session *entities.TrackingSession) {
	agg, ok := b.buckets[path]
	if !ok {
		agg = &pageAgg{
			path:     path,
			visitors: make(map[string]struct{}),
			sessions: make(map[uuid.UUID]struct{}),
		}
		b.buckets[path] = agg
		b.order = append(b.order, path)
	}
	agg.views++
	agg.sessions[session.ID] = struct{}{}
	if key := session.VisitorKey(); key != "" {
		agg.visitors[key] = struct{}{}
	}
}

func (b *pageBuilder) rows() []entities.PageRow {
	rows := make([]entities.PageRow, 0, len(b.order))
	for _, path := range b.order {
		agg := b.buckets[path]
		rows = append(rows, entities.PageRow{
			Path:     agg.path,
			Views:    agg.views,
			Visitors: int64(len(agg.visitors)),
			Sessions: int64(len(agg.sessions)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Views > rows[j].Views
	})
	return rows
}

// PageBreakdowns builds the top/entry/exit page reports plus the blog
// subset of entry pages. Entry is the first view of a session in time
// order; exit is the view flagged as such, else the last one.
func PageBreakdowns(data *reportData) (top, entry, exit, blogEntry []entities.PageRow) {
	topBuilder := newPageBuilder()
	entryBuilder := newPageBuilder()
	exitBuilder := newPageBuilder()
	blogBuilder := newPageBuilder()

	for i := range data.sessions {
		session := &data.sessions[i]
		views := data.viewsBySession[session.ID]
		if len(views) == 0 {
			continue
		}

		for _, view := range views {
			topBuilder.add(view.Path, session)
		}

		entryBuilder.add(views[0].Path, session)
		if strings.HasPrefix(views[0].Path, "/blog") {
			blogBuilder.add(views[0].Path, session)
		}

		exitPath := views[len(views)-1].Path
		for _, view := range views {
			if view.IsExitPage {
				exitPath = view.Path
				break
			}
		}
		exitBuilder.add(exitPath, session)
	}

	return topBuilder.rows(), entryBuilder.rows(), exitBuilder.rows(), blogBuilder.rows()
}
