package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type ISessionRepository interface {
	GetSessions(ctx context.Context, page, limit int, from, to time.Time) ([]entities.TrackingSession, int64, error)
	FindSessionByID(ctx context.Context, id string) (*entities.TrackingSession, error)
	FindActiveSessions(ctx context.Context, cutoff time.Time) ([]entities.TrackingSession, int64, error)
}

type SessionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		db:    db,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

type sessionPage struct {
	sessions []entities.TrackingSession
	total    int64
}

// GetSessions returns one page of sessions for the window, most recent
// first, for the admin drill-down view.
func (r *SessionRepository) GetSessions(ctx context.Context, page, limit int, from, to time.Time) ([]entities.TrackingSession, int64, error) {
	cacheKey := fmt.Sprintf("sessions:%d:%d:%d:%d", page, limit, from.Unix(), to.Unix())
	if cached, found := r.cache.Get(cacheKey); found {
		result := cached.(sessionPage)
		return result.sessions, result.total, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.TrackingSession{})
	if !from.IsZero() && !to.IsZero() {
		query = query.Where("\"sessionStart\" >= ? AND \"sessionStart\" < ?", from, to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []entities.TrackingSession
	err := query.
		Order("\"sessionStart\" DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}

	r.cache.Set(cacheKey, sessionPage{sessions: sessions, total: total}, cache.DefaultExpiration)
	return sessions, total, nil
}

func (r *SessionRepository) FindSessionByID(ctx context.Context, id string) (*entities.TrackingSession, error) {
	var session entities.TrackingSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveSessions returns sessions whose last activity is after the
// idle cutoff. Not cached: the whole point of the panel is freshness.
func (r *SessionRepository) FindActiveSessions(ctx context.Context, cutoff time.Time) ([]entities.TrackingSession, int64, error) {
	var sessions []entities.TrackingSession
	err := r.db.WithContext(ctx).
		Where("\"lastActivity\" >= ?", cutoff).
		Order("\"lastActivity\" DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, int64(len(sessions)), nil
}
