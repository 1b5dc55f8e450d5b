package entities

import (
	"time"

	"github.com/google/uuid"
)

// PageView is one page load inside a tracking session. The first view of a
// session (by created_at) is its entry page; the view flagged as exit, or
// the last one in time order, is its exit page.
type PageView struct {
	ID         uuid.UUID `json:"view_id" gorm:"type:uuid;primary_key;column:view_id"`
	SessionID  uuid.UUID `json:"session_id" gorm:"column:session_id"`
	Path       string    `json:"path" gorm:"column:path"`
	IsExitPage bool      `json:"is_exit_page" gorm:"column:isExitPage"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (PageView) TableName() string {
	return "page_views"
}
