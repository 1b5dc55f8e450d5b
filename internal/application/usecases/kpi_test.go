package usecases

import (
	"testing"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeKPIs_AvgSessionDurationSkipsUntimed(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	data := &reportData{
		window: repositories.ReportWindow{
			To:           now,
			ActiveCutoff: now.Add(-5 * time.Minute),
		},
		viewsBySession: map[uuid.UUID][]entities.PageView{},
		sessions: []entities.TrackingSession{
			{ID: uuid.New(), VisitorID: "a", Duration: 30, LastActivity: now.Add(-time.Hour)},
			{ID: uuid.New(), VisitorID: "b", Duration: 90, LastActivity: now.Add(-time.Hour)},
			{ID: uuid.New(), VisitorID: "c", Duration: 0, LastActivity: now.Add(-time.Hour)},
		},
	}

	kpis := ComputeKPIs(data)

	// The zero-duration session is excluded from the average, not counted
	// as a zero: (30+90)/2, never (30+90)/3.
	assert.Equal(t, 60.0, kpis.AvgSessionSeconds)
}

func TestComputeKPIs_NoTimedSessions(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	data := &reportData{
		window: repositories.ReportWindow{
			To:           now,
			ActiveCutoff: now.Add(-5 * time.Minute),
		},
		viewsBySession: map[uuid.UUID][]entities.PageView{},
		sessions: []entities.TrackingSession{
			{ID: uuid.New(), VisitorID: "a", Duration: 0, LastActivity: now.Add(-time.Hour)},
		},
	}

	assert.Equal(t, 0.0, ComputeKPIs(data).AvgSessionSeconds)
}

func TestComputeKPIs_ActiveNowCutoff(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	cutoff := now.Add(-5 * time.Minute)
	data := &reportData{
		window: repositories.ReportWindow{
			To:           now,
			ActiveCutoff: cutoff,
		},
		viewsBySession: map[uuid.UUID][]entities.PageView{},
		sessions: []entities.TrackingSession{
			{ID: uuid.New(), VisitorID: "a", LastActivity: now.Add(-time.Minute)},
			{ID: uuid.New(), VisitorID: "b", LastActivity: cutoff},
			{ID: uuid.New(), VisitorID: "c", LastActivity: now.Add(-10 * time.Minute)},
		},
	}

	// Activity exactly at the cutoff still counts as active.
	assert.Equal(t, int64(2), ComputeKPIs(data).ActiveNow)
}
