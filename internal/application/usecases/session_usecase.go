package usecases

import (
	"context"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
)

type SessionUseCase struct {
	sessionRepo repositories.ISessionRepository
}

func NewSessionUseCase(sessionRepo repositories.ISessionRepository) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo: sessionRepo,
	}
}

func (uc *SessionUseCase) GetSessions(ctx context.Context, page, limit int, from, to time.Time) ([]entities.TrackingSession, int64, error) {
	return uc.sessionRepo.GetSessions(ctx, page, limit, from, to)
}

func (uc *SessionUseCase) FindSessionByID(ctx context.Context, id string) (*entities.TrackingSession, error) {
	return uc.sessionRepo.FindSessionByID(ctx, id)
}

func (uc *SessionUseCase) FindActiveSessions(ctx context.Context, cutoff time.Time) ([]entities.TrackingSession, int64, error) {
	return uc.sessionRepo.FindActiveSessions(ctx, cutoff)
}
