package entities

import (
	"strings"
	"time"
)

// Profile is a registered marketplace user (a signup). ReferralSource holds
// the self-reported "how did you hear about us" answer from the signup form;
// ReferralDetail is its free-text complement.
type Profile struct {
	UserID         string    `json:"user_id" gorm:"primaryKey;column:user_id"`
	FirstName      string    `json:"first_name" gorm:"column:first_name"`
	LastName       string    `json:"last_name" gorm:"column:last_name"`
	Company        string    `json:"company" gorm:"column:company"`
	ReferralSource string    `json:"referral_source" gorm:"column:referralSource"`
	ReferralDetail string    `json:"referral_detail" gorm:"column:referralDetail"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
