package usecases

import (
	"strings"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/google/uuid"
)

// Referrer patterns that mark preview, staging or local traffic. Sessions
// arriving from these never reach a report.
var devReferrerPatterns = []string{
	"localhost",
	"127.0.0.1",
	"lovable.app",
	"lovableproject.com",
	"netlify.app",
	"vercel.app",
}

// User-agent fragments of known automated browsers.
var botAgentPatterns = []string{
	"headlesschrome",
	"phantomjs",
	"puppeteer",
	"playwright",
	"selenium",
	"bot",
	"crawler",
	"spider",
}

// IsExcludedTraffic reports whether a session is bot or development
// traffic.
func IsExcludedTraffic(session *entities.TrackingSession) bool {
	referrer := strings.ToLower(session.Referrer)
	if containsAny(referrer, devReferrerPatterns) {
		return true
	}
	agent := strings.ToLower(session.UserAgent)
	return containsAny(agent, botAgentPatterns)
}

// CleanSessions drops bot/dev traffic and collapses duplicate rows per
// session id, keeping the first row encountered in input order. Duplicates
// are discarded, not merged. Empty or malformed input yields an empty
// result, never an error.
func CleanSessions(raw []entities.TrackingSession) ([]entities.TrackingSession, map[uuid.UUID]entities.TrackingSession) {
	cleaned := make([]entities.TrackingSession, 0, len(raw))
	byID := make(map[uuid.UUID]entities.TrackingSession, len(raw))

	for _, session := range raw {
		if IsExcludedTraffic(&session) {
			continue
		}
		if _, seen := byID[session.ID]; seen {
			continue
		}
		byID[session.ID] = session
		cleaned = append(cleaned, session)
	}
	return cleaned, byID
}
