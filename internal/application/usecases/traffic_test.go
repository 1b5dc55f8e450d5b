package usecases

import (
	"testing"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsExcludedTraffic(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		agent    string
		want     bool
	}{
		{"preview deploy referrer", "https://preview--listings.lovable.app/", "Mozilla/5.0", true},
		{"localhost referrer", "http://localhost:3000/", "Mozilla/5.0", true},
		{"headless browser", "", "Mozilla/5.0 HeadlessChrome/120.0", true},
		{"crawler agent", "https://google.com", "Googlebot/2.1", true},
		{"playwright agent", "", "Playwright/1.40", true},
		{"real visitor", "https://google.com", "Mozilla/5.0 (Macintosh)", false},
		{"empty session", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := entities.TrackingSession{Referrer: tt.referrer, UserAgent: tt.agent}
			assert.Equal(t, tt.want, IsExcludedTraffic(&session))
		})
	}
}

func TestCleanSessions_KeepsFirstDuplicateRow(t *testing.T) {
	id := uuid.New()
	raw := []entities.TrackingSession{
		{ID: id, Country: "United States"},
		{ID: id, Country: "Canada"},
	}

	cleaned, byID := CleanSessions(raw)
	assert.Len(t, cleaned, 1)
	assert.Equal(t, "United States", cleaned[0].Country)
	assert.Equal(t, "United States", byID[id].Country)
}

func TestCleanSessions_DropsExcludedTraffic(t *testing.T) {
	keep := entities.TrackingSession{ID: uuid.New(), UserAgent: "Mozilla/5.0"}
	raw := []entities.TrackingSession{
		{ID: uuid.New(), Referrer: "https://app.netlify.app/"},
		keep,
		{ID: uuid.New(), UserAgent: "HeadlessChrome"},
	}

	cleaned, _ := CleanSessions(raw)
	assert.Len(t, cleaned, 1)
	assert.Equal(t, keep.ID, cleaned[0].ID)
}

func TestCleanSessions_EmptyInput(t *testing.T) {
	cleaned, byID := CleanSessions(nil)
	assert.Empty(t, cleaned)
	assert.Empty(t, byID)
}
