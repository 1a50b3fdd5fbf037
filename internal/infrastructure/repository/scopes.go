package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TerminalScope returns a GORM scope that filters rows by terminal.
// Checkout records are never shared between terminals.
func TerminalScope(terminalID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("terminal_id = ?", terminalID)
	}
}

// Unexpired returns a GORM scope that hides rows past their expiry at now
func Unexpired(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at > ?", now)
	}
}
