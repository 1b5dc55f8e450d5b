package usecases

import (
	"sort"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/utils"
)

const maxTopUsers = 50

// visitorAgg merges a visitor's sessions, page views and connections.
type visitorAgg struct {
	key         string
	userID      string
	sessions    int64
	pageViews   int64
	connections int64
	lastActive  time.Time
	viewsByDay  map[string]int64
}

// TopUsers merges session, connection and page-view data per visitor key
// and returns the 50 most recently active visitors, ties broken by
// connection count. Each row carries a 7-day activity histogram bucketed
// by page views per day.
func TopUsers(data *reportData, now time.Time) []entities.TopUser {
	aggregates := make(map[string]*visitorAgg)
	var order []string

	get := func(key string) *visitorAgg {
		if agg, ok := aggregates[key]; ok {
			return agg
		}
		agg := &visitorAgg{key: key, viewsByDay: make(map[string]int64)}
		aggregates[key] = agg
		order = append(order, key)
		return agg
	}

	for i := range data.sessions {
		session := &data.sessions[i]
		key := session.VisitorKey()
		if key == "" {
			continue
		}
		agg := get(key)
		agg.sessions++
		if session.UserID != "" {
			agg.userID = session.UserID
		}

		active := session.LastActivity
		if active.IsZero() {
			active = session.StartedAt
		}
		if active.After(agg.lastActive) {
			agg.lastActive = active
		}

		for _, view := range data.viewsBySession[session.ID] {
			agg.pageViews++
			agg.viewsByDay[utils.DayKey(view.CreatedAt)]++
		}
	}

	for _, request := range data.connections {
		if request.UserID == "" {
			continue
		}
		agg := get(request.UserID)
		agg.userID = request.UserID
		agg.connections++
		if request.CreatedAt.After(agg.lastActive) {
			agg.lastActive = request.CreatedAt
		}
	}

	users := make([]entities.TopUser, 0, len(order))
	for _, key := range order {
		agg := aggregates[key]

		displayName := ""
		anonymous := true
		if agg.userID != "" {
			if profile, ok := data.profileByUser[agg.userID]; ok {
				displayName = profile.FullName()
				anonymous = false
			}
		}
		if displayName == "" {
			displayName = AnimalName(agg.key)
		}

		users = append(users, entities.TopUser{
			VisitorKey:  agg.key,
			DisplayName: displayName,
			IsAnonymous: anonymous,
			Sessions:    agg.sessions,
			PageViews:   agg.pageViews,
			Connections: agg.connections,
			LastActive:  agg.lastActive,
			Activity:    activityHistogram(agg.viewsByDay, now),
		})
	}

	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].LastActive.Equal(users[j].LastActive) {
			return users[i].LastActive.After(users[j].LastActive)
		}
		return users[i].Connections > users[j].Connections
	})
	if len(users) > maxTopUsers {
		users = users[:maxTopUsers]
	}
	return users
}

// activityHistogram buckets the most recent 7 days, oldest first.
func activityHistogram(viewsByDay map[string]int64, now time.Time) []entities.ActivityDay {
	days := make([]entities.ActivityDay, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		key := utils.DayKey(now.AddDate(0, 0, -offset))
		views := viewsByDay[key]
		days = append(days, entities.ActivityDay{
			Date:      key,
			Level:     activityLevel(views),
			PageViews: views,
		})
	}
	return days
}

func activityLevel(views int64) string {
	switch {
	case views == 0:
		return entities.ActivityNone
	case views <= 3:
		return entities.ActivityLow
	case views <= 10:
		return entities.ActivityMedium
	default:
		return entities.ActivityHigh
	}
}
