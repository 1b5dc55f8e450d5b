package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) FetchSnapshot(ctx context.Context, window repositories.ReportWindow) (*repositories.AnalyticsSnapshot, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.AnalyticsSnapshot), args.Error(1)
}

func testWindow(now time.Time) repositories.ReportWindow {
	from := utils.StartOfDay(now.AddDate(0, 0, -6))
	return repositories.ReportWindow{
		From:         from,
		To:           now,
		PreviousFrom: from.AddDate(0, 0, -7),
		ActiveCutoff: now.Add(-5 * time.Minute),
		Days:         7,
	}
}

// testSnapshot builds the canonical three-visitor scenario:
//
//   - user-a arrives from Google and views one page
//   - user-b arrives from Facebook, views one page and requests a
//     connection that completes every agreement step
//   - an anonymous visitor arrives with no referrer and views two pages
func testSnapshot(now time.Time) *repositories.AnalyticsSnapshot {
	started := now.Add(-2 * time.Hour)
	sessionA := entities.TrackingSession{
		ID:           uuid.New(),
		UserID:       "user-a",
		VisitorID:    "visitor-a",
		Referrer:     "https://www.google.com/",
		UserAgent:    "Mozilla/5.0",
		StartedAt:    started,
		LastActivity: started,
	}
	sessionB := entities.TrackingSession{
		ID:           uuid.New(),
		UserID:       "user-b",
		VisitorID:    "visitor-b",
		Referrer:     "https://m.facebook.com/",
		UserAgent:    "Mozilla/5.0",
		StartedAt:    started.Add(time.Minute),
		LastActivity: started.Add(time.Minute),
	}
	sessionC := entities.TrackingSession{
		ID:           uuid.New(),
		VisitorID:    "visitor-c",
		UserAgent:    "Mozilla/5.0",
		StartedAt:    started.Add(2 * time.Minute),
		LastActivity: started.Add(2 * time.Minute),
	}

	signedAt := now.Add(-time.Hour)
	return &repositories.AnalyticsSnapshot{
		Sessions: []entities.TrackingSession{sessionA, sessionB, sessionC},
		PageViews: []entities.PageView{
			{ID: uuid.New(), SessionID: sessionA.ID, Path: "/", CreatedAt: started},
			{ID: uuid.New(), SessionID: sessionB.ID, Path: "/marketplace/listing-7", CreatedAt: started.Add(time.Minute)},
			{ID: uuid.New(), SessionID: sessionC.ID, Path: "/blog/how-to-buy", CreatedAt: started.Add(2 * time.Minute)},
			{ID: uuid.New(), SessionID: sessionC.ID, Path: "/about", CreatedAt: started.Add(3 * time.Minute)},
		},
		Connections: []entities.ConnectionRequest{
			{
				ID:                   uuid.New(),
				UserID:               "user-b",
				ListingID:            uuid.New(),
				Status:               entities.ConnectionStatusConnected,
				NdaSignedAt:          &signedAt,
				FeeAgreementSignedAt: &signedAt,
				CreatedAt:            now.Add(-time.Hour),
			},
		},
		UserSessions: map[string][]entities.TrackingSession{
			"user-b": {sessionB},
		},
	}
}

func findRow(rows []entities.BreakdownRow, label string) *entities.BreakdownRow {
	for i := range rows {
		if rows[i].Label == label {
			return &rows[i]
		}
	}
	return nil
}

func TestGetUnifiedReport_ChannelAttribution(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	window := testWindow(now)

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(testSnapshot(now), nil)

	report, err := NewAnalyticsUseCase(repo).GetUnifiedReport(context.Background(), window, nil)
	require.NoError(t, err)

	search := findRow(report.Channels, ChannelOrganicSearch)
	require.NotNil(t, search)
	assert.Equal(t, int64(1), search.Visitors)
	assert.Equal(t, int64(1), search.Sessions)
	assert.Equal(t, int64(0), search.Connections)

	social := findRow(report.Channels, ChannelOrganicSocial)
	require.NotNil(t, social)
	assert.Equal(t, int64(1), social.Visitors)
	assert.Equal(t, int64(1), social.Sessions)
	assert.Equal(t, int64(1), social.Connections)

	direct := findRow(report.Channels, ChannelDirect)
	require.NotNil(t, direct)
	assert.Equal(t, int64(1), direct.Visitors)
	assert.Equal(t, int64(1), direct.Sessions)

	repo.AssertExpectations(t)
}

func TestGetUnifiedReport_KPIs(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	window := testWindow(now)

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(testSnapshot(now), nil)

	report, err := NewAnalyticsUseCase(repo).GetUnifiedReport(context.Background(), window, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.KPIs.Visitors.Value)
	assert.Equal(t, int64(3), report.KPIs.Sessions.Value)
	assert.Equal(t, int64(1), report.KPIs.Connections.Value)

	// Two of the three viewed sessions saw exactly one page.
	assert.Equal(t, 66.67, report.KPIs.BounceRate.Value)

	// An empty previous period yields flat trends, never NaN.
	assert.Equal(t, 0.0, report.KPIs.Visitors.Trend)
	assert.Equal(t, 0.0, report.KPIs.Sessions.Trend)
	assert.Equal(t, 0.0, report.KPIs.BounceRate.Trend)

	assert.Len(t, report.KPIs.Visitors.Sparkline, 7)
	assert.Len(t, report.KPIs.Sessions.Sparkline, 7)
	assert.Len(t, report.KPIs.Connections.Sparkline, 7)
}

func TestGetUnifiedReport_Funnel(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	window := testWindow(now)

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(testSnapshot(now), nil)

	report, err := NewAnalyticsUseCase(repo).GetUnifiedReport(context.Background(), window, nil)
	require.NoError(t, err)

	require.Len(t, report.Funnel, 6)
	wantCounts := []int64{3, 2, 2, 1, 1, 1}
	for i, stage := range report.Funnel {
		assert.Equal(t, wantCounts[i], stage.Count, stage.Name)
	}
	assert.Equal(t, StageVisitors, report.Funnel[0].Name)
	assert.Equal(t, StageConnected, report.Funnel[5].Name)
	assert.Equal(t, 0.0, report.Funnel[0].DropOff)
	assert.Equal(t, 33.33, report.Funnel[1].DropOff)
	assert.Equal(t, 33.33, report.FunnelConversion)
}

func TestGetUnifiedReport_Idempotent(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	window := testWindow(now)

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(testSnapshot(now), nil)

	uc := NewAnalyticsUseCase(repo)
	first, err := uc.GetUnifiedReport(context.Background(), window, nil)
	require.NoError(t, err)
	second, err := uc.GetUnifiedReport(context.Background(), window, nil)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestGetUnifiedReport_FilterFollowsAttribution(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	window := testWindow(now)

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(testSnapshot(now), nil)

	filters := []entities.Filter{{Type: entities.FilterChannel, Value: ChannelOrganicSocial}}
	report, err := NewAnalyticsUseCase(repo).GetUnifiedReport(context.Background(), window, filters)
	require.NoError(t, err)

	// Only user-b's session survives the filter, and the connection stays
	// with it because its attribution session matches.
	assert.Equal(t, int64(1), report.KPIs.Sessions.Value)
	assert.Equal(t, int64(1), report.KPIs.Connections.Value)
	require.Len(t, report.Channels, 1)
	assert.Equal(t, ChannelOrganicSocial, report.Channels[0].Label)
	assert.Equal(t, filters, report.Filters)
}

func TestGetUnifiedReport_FetchFailure(t *testing.T) {
	window := testWindow(time.Now())

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(nil, errors.New("connection refused"))

	report, err := NewAnalyticsUseCase(repo).GetUnifiedReport(context.Background(), window, nil)
	assert.Nil(t, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building analytics report")
}

func TestDailySeries_UsesPreAggregatedRows(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	window := testWindow(now)

	snapshot := testSnapshot(now)
	snapshot.DailyMetrics = []entities.DailyMetric{
		{Date: time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC), Visitors: 40, Sessions: 55, Connections: 3},
	}

	repo := new(MockAnalyticsRepository)
	repo.On("FetchSnapshot", mock.Anything, window).Return(snapshot, nil)

	report, err := NewAnalyticsUseCase(repo).GetUnifiedReport(context.Background(), window, nil)
	require.NoError(t, err)

	require.Len(t, report.Daily, 7)
	var match *entities.DailyPoint
	for i := range report.Daily {
		if report.Daily[i].Date == "2026-05-18" {
			match = &report.Daily[i]
		}
	}
	require.NotNil(t, match)
	assert.Equal(t, int64(40), match.Visitors)
	assert.Equal(t, int64(55), match.Sessions)
	assert.Equal(t, int64(3), match.Connections)
}

func TestBuildFunnel_EmptyData(t *testing.T) {
	data := &reportData{viewsBySession: map[uuid.UUID][]entities.PageView{}}
	stages, conversion := BuildFunnel(data)
	require.Len(t, stages, 6)
	for _, stage := range stages {
		assert.Equal(t, int64(0), stage.Count)
		assert.Equal(t, 0.0, stage.DropOff)
	}
	assert.Equal(t, 0.0, conversion)
}

func TestTrendPct_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, trendPct(10, 0))
	assert.Equal(t, 25.0, trendPct(125, 100))
	assert.Equal(t, -50.0, trendPct(50, 100))
}

func TestBounceRate_NoViewedSessions(t *testing.T) {
	data := &reportData{viewsBySession: map[uuid.UUID][]entities.PageView{}}
	sessions := []entities.TrackingSession{{ID: uuid.New()}}
	assert.Equal(t, 0.0, bounceRate(data, sessions))
}
