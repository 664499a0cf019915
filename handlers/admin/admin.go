// Package admin serves catalog maintenance and user inspection for admins.
package admin

import (
	"hadithhub/logger"
	"hadithhub/progress"

	"gorm.io/gorm"
)

var (
	db        *gorm.DB
	engine    *progress.Engine
	jwtSecret string
	log       = logger.Nop()
)

// Init must run before the admin routes are mounted.
func Init(conn *gorm.DB, e *progress.Engine, secret string, l *logger.Logger) {
	if conn == nil || e == nil {
		panic("database and progress engine are required before admin.Init")
	}
	db = conn
	engine = e
	jwtSecret = secret
	if l != nil {
		log = l.Named("http.admin")
	}
}
