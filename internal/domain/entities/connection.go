package entities

import (
	"time"

	"github.com/google/uuid"
)

// Connection request lifecycle statuses as written by the marketplace app.
const (
	ConnectionStatusPending   = "pending"
	ConnectionStatusConnected = "connected"
	ConnectionStatusDeclined  = "declined"
)

// ConnectionRequest is a buyer-to-seller introduction event. Milestone
// timestamps are set by the deal workflow as the introduction progresses.
type ConnectionRequest struct {
	ID                   uuid.UUID  `json:"request_id" gorm:"type:uuid;primary_key;column:request_id"`
	UserID               string     `json:"user_id" gorm:"column:user_id"`
	ListingID            uuid.UUID  `json:"listing_id" gorm:"column:listing_id"`
	Status               string     `json:"status" gorm:"column:status"`
	NdaSignedAt          *time.Time `json:"nda_signed_at" gorm:"column:nda_signed_at"`
	FeeAgreementSignedAt *time.Time `json:"fee_agreement_signed_at" gorm:"column:fee_agreement_signed_at"`
	CreatedAt            time.Time  `json:"created_at" gorm:"column:created_at"`
}

func (ConnectionRequest) TableName() string {
	return "connection_requests"
}
