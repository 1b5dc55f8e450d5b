package entities

import (
	"time"

	"github.com/google/uuid"
)

// TrackingSession is one browsing session captured by the marketplace
// tracking snippet. Rows are written by the hosted backend; this service
// only reads them.
type TrackingSession struct {
	ID               uuid.UUID `json:"session_id" gorm:"type:uuid;primary_key;column:session_id"`
	UserID           string    `json:"user_id" gorm:"column:user_id"`
	VisitorID        string    `json:"visitor_id" gorm:"column:visitor_id"`
	Referrer         string    `json:"referrer" gorm:"column:referrer"`
	OriginalReferrer string    `json:"original_referrer" gorm:"column:originalReferrer"`
	LandingPage      string    `json:"landing_page" gorm:"column:landingPage"`
	UtmSource        string    `json:"utm_source" gorm:"column:utmSource"`
	UtmMedium        string    `json:"utm_medium" gorm:"column:utmMedium"`
	UtmCampaign      string    `json:"utm_campaign" gorm:"column:utmCampaign"`
	UtmTerm          string    `json:"utm_term" gorm:"column:utmTerm"`
	Country          string    `json:"country" gorm:"column:country"`
	Region           string    `json:"region" gorm:"column:region"`
	City             string    `json:"city" gorm:"column:city"`
	Browser          string    `json:"browser" gorm:"column:browser"`
	OS               string    `json:"os" gorm:"column:os"`
	DeviceType       string    `json:"device_type" gorm:"column:deviceType"`
	UserAgent        string    `json:"user_agent" gorm:"column:userAgent"`
	StartedAt        time.Time `json:"started_at" gorm:"column:sessionStart"`
	LastActivity     time.Time `json:"last_activity" gorm:"column:lastActivity"`
	Duration         int64     `json:"duration" gorm:"column:duration"` // seconds
}

func (TrackingSession) TableName() string {
	return "tracking_sessions"
}

// VisitorKey is the deduplication identity for a visitor: the user id when
// the session is authenticated, else the anonymous visitor id. Empty when
// the session carries neither.
func (s *TrackingSession) VisitorKey() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.VisitorID
}
