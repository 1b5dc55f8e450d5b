package usecases

import (
	"testing"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLevel(t *testing.T) {
	assert.Equal(t, entities.ActivityNone, activityLevel(0))
	assert.Equal(t, entities.ActivityLow, activityLevel(1))
	assert.Equal(t, entities.ActivityLow, activityLevel(3))
	assert.Equal(t, entities.ActivityMedium, activityLevel(4))
	assert.Equal(t, entities.ActivityMedium, activityLevel(10))
	assert.Equal(t, entities.ActivityHigh, activityLevel(11))
}

func TestTopUsers_MergesAcrossSessionsAndConnections(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	sessionOld := entities.TrackingSession{
		ID:           uuid.New(),
		UserID:       "user-a",
		StartedAt:    now.Add(-48 * time.Hour),
		LastActivity: now.Add(-48 * time.Hour),
	}
	sessionNew := entities.TrackingSession{
		ID:           uuid.New(),
		UserID:       "user-a",
		StartedAt:    now.Add(-time.Hour),
		LastActivity: now.Add(-time.Hour),
	}
	anonymous := entities.TrackingSession{
		ID:           uuid.New(),
		VisitorID:    "visitor-x",
		StartedAt:    now.Add(-30 * time.Minute),
		LastActivity: now.Add(-30 * time.Minute),
	}

	data := &reportData{
		sessions: []entities.TrackingSession{sessionOld, sessionNew, anonymous},
		viewsBySession: map[uuid.UUID][]entities.PageView{
			sessionNew.ID: {
				{Path: "/", CreatedAt: now.Add(-time.Hour)},
				{Path: "/marketplace", CreatedAt: now.Add(-50 * time.Minute)},
			},
		},
		connections: []entities.ConnectionRequest{
			{UserID: "user-a", CreatedAt: now.Add(-20 * time.Minute)},
		},
		profileByUser: map[string]entities.Profile{
			"user-a": {UserID: "user-a", FirstName: "Dana", LastName: "Reeves"},
		},
	}

	users := TopUsers(data, now)
	require.Len(t, users, 2)

	// user-a's connection is its most recent activity, so it sorts first.
	assert.Equal(t, "user-a", users[0].VisitorKey)
	assert.Equal(t, "Dana Reeves", users[0].DisplayName)
	assert.False(t, users[0].IsAnonymous)
	assert.Equal(t, int64(2), users[0].Sessions)
	assert.Equal(t, int64(2), users[0].PageViews)
	assert.Equal(t, int64(1), users[0].Connections)

	assert.Equal(t, "visitor-x", users[1].VisitorKey)
	assert.True(t, users[1].IsAnonymous)
	assert.Equal(t, AnimalName("visitor-x"), users[1].DisplayName)

	require.Len(t, users[0].Activity, 7)
	today := users[0].Activity[6]
	assert.Equal(t, utils.DayKey(now), today.Date)
	assert.Equal(t, int64(2), today.PageViews)
	assert.Equal(t, entities.ActivityLow, today.Level)
}

func TestTopUsers_CapsAtFifty(t *testing.T) {
	now := time.Now()
	data := &reportData{viewsBySession: map[uuid.UUID][]entities.PageView{}}
	for i := 0; i < 60; i++ {
		data.sessions = append(data.sessions, entities.TrackingSession{
			ID:           uuid.New(),
			VisitorID:    uuid.NewString(),
			StartedAt:    now.Add(-time.Duration(i) * time.Minute),
			LastActivity: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	assert.Len(t, TopUsers(data, now), 50)
}
