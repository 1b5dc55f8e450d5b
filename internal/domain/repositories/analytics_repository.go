package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// ReportWindow describes one report request: the current period, the start
// of the equal-length previous period, and the cutoff used to count
// currently active sessions.
type ReportWindow struct {
	From         time.Time
	To           time.Time
	PreviousFrom time.Time
	ActiveCutoff time.Time
	Days         int
}

// AnalyticsSnapshot is the materialized raw input of one report run. Every
// aggregation consumes this same snapshot, so no panel can observe a
// different data version than another.
type AnalyticsSnapshot struct {
	Sessions     []entities.TrackingSession
	PageViews    []entities.PageView
	Connections  []entities.ConnectionRequest
	Profiles     []entities.Profile
	DailyMetrics []entities.DailyMetric

	// UserSessions holds the full session history of every user that
	// signed up or requested a connection in the window, most recent
	// first. Histories may reach back before the window; they are needed
	// to resolve attribution sessions.
	UserSessions map[string][]entities.TrackingSession
}

type IAnalyticsRepository interface {
	FetchSnapshot(ctx context.Context, window ReportWindow) (*AnalyticsSnapshot, error)
}

type AnalyticsRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		db:    db,
		cache: cache.New(time.Minute, 5*time.Minute),
	}
}

// FetchSnapshot loads the five raw collections for the window. The five
// primary reads have no ordering dependency on each other and run in
// parallel; the session-history read depends on which user ids show up in
// profiles and connections, so it runs after they return. Any failed read
// fails the whole snapshot: a silently partial report is worse than an
// explicit error.
func (r *AnalyticsRepository) FetchSnapshot(ctx context.Context, window ReportWindow) (*AnalyticsSnapshot, error) {
	cacheKey := fmt.Sprintf("snapshot:%d:%d:%d",
		window.From.Unix(), window.To.Unix(), window.PreviousFrom.Unix())
	if cached, found := r.cache.Get(cacheKey); found {
		return cached.(*AnalyticsSnapshot), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// The sparklines always cover the trailing 7 days, even for shorter
	// windows, so the session read may need to start earlier than the
	// previous period does.
	fetchFrom := window.PreviousFrom
	if sparkFrom := window.To.AddDate(0, 0, -7); sparkFrom.Before(fetchFrom) {
		fetchFrom = sparkFrom
	}

	snapshot := &AnalyticsSnapshot{
		UserSessions: make(map[string][]entities.TrackingSession),
	}

	var wg sync.WaitGroup
	var errorMutex sync.Mutex
	var errs []error

	record := func(err error, what string) {
		if err == nil {
			return
		}
		errorMutex.Lock()
		errs = append(errs, fmt.Errorf("fetching %s: %w", what, err))
		errorMutex.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := r.db.WithContext(ctx).
			Where("\"sessionStart\" >= ? AND \"sessionStart\" < ?", fetchFrom, window.To).
			Order("\"sessionStart\" ASC").
			Find(&snapshot.Sessions).Error
		record(err, "sessions")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := r.db.WithContext(ctx).
			Where("created_at >= ? AND created_at < ?", fetchFrom, window.To).
			Order("created_at ASC").
			Find(&snapshot.PageViews).Error
		record(err, "page views")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := r.db.WithContext(ctx).
			Where("created_at >= ? AND created_at < ?", fetchFrom, window.To).
			Order("created_at ASC").
			Find(&snapshot.Connections).Error
		record(err, "connection requests")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := r.db.WithContext(ctx).
			Where("created_at >= ? AND created_at < ?", fetchFrom, window.To).
			Order("created_at ASC").
			Find(&snapshot.Profiles).Error
		record(err, "profiles")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := r.db.WithContext(ctx).
			Where("date >= ? AND date < ?", window.From, window.To).
			Order("date ASC").
			Find(&snapshot.DailyMetrics).Error
		record(err, "daily metrics")
	}()

	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}

	userIDs := convertingUserIDs(snapshot)
	if len(userIDs) > 0 {
		var histories []entities.TrackingSession
		err := r.db.WithContext(ctx).
			Where("user_id IN ?", userIDs).
			Order("\"sessionStart\" DESC").
			Find(&histories).Error
		if err != nil {
			return nil, fmt.Errorf("fetching user session histories: %w", err)
		}
		for _, session := range histories {
			snapshot.UserSessions[session.UserID] = append(snapshot.UserSessions[session.UserID], session)
		}
	}

	r.cache.Set(cacheKey, snapshot, time.Minute)
	return snapshot, nil
}

// convertingUserIDs collects the distinct user ids that need a session
// history lookup: everyone who signed up or requested a connection in the
// fetched window.
func convertingUserIDs(snapshot *AnalyticsSnapshot) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, profile := range snapshot.Profiles {
		if profile.UserID != "" && !seen[profile.UserID] {
			seen[profile.UserID] = true
			ids = append(ids, profile.UserID)
		}
	}
	for _, request := range snapshot.Connections {
		if request.UserID != "" && !seen[request.UserID] {
			seen[request.UserID] = true
			ids = append(ids, request.UserID)
		}
	}
	return ids
}
