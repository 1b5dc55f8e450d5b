package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes adds indexes to the database to improve query performance
func AddIndexes(db *gorm.DB) error {
	// Indexes for the tracking_sessions table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_sessions_start ON tracking_sessions (\"sessionStart\")").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_sessions_user_id ON tracking_sessions (user_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_sessions_last_activity ON tracking_sessions (\"lastActivity\")").Error; err != nil {
		return err
	}

	// Indexes for the page_views table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_page_views_session_id ON page_views (session_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_page_views_created_at ON page_views (created_at)").Error; err != nil {
		return err
	}

	// Indexes for the connection_requests table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connection_requests_user_id ON connection_requests (user_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connection_requests_created_at ON connection_requests (created_at)").Error; err != nil {
		return err
	}

	// Indexes for the profiles table
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles (created_at)").Error; err != nil {
		return err
	}

	return nil
}
