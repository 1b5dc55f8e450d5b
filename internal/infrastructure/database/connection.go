package database

import (
	"context"

	"gorm.io/gorm"
)

// Context key marking that the session timezone has been set, to avoid
// recursing inside the callback.
type timezoneKey struct{}

// SetTimezoneMiddleware pins the connection's timezone so date bucketing
// in SQL matches the report timezone regardless of the server default.
func SetTimezoneMiddleware() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if _, ok := db.Statement.Context.Value(timezoneKey{}).(bool); ok {
			return
		}

		ctx := context.WithValue(db.Statement.Context, timezoneKey{}, true)
		tx := db.WithContext(ctx)
		tx.Exec("SET timezone = 'America/New_York'")
	}
}

// RegisterMiddlewares registers the GORM callbacks the service needs.
func RegisterMiddlewares(db *gorm.DB) {
	db.Callback().Query().Before("gorm:query").Register("set_timezone_before_query", SetTimezoneMiddleware())
}
