package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey records a processed checkout submission so a retried
// request replays the stored response instead of issuing a second invoice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key          string    `gorm:"uniqueIndex:idx_idem_terminal_key;size:255;not null" json:"key"`
	TerminalID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idem_terminal_key" json:"terminal_id"`
	Endpoint     string    `gorm:"size:255;not null" json:"endpoint"`
	RequestHash  string    `gorm:"size:64" json:"request_hash"`
	ResponseCode int       `gorm:"not null" json:"response_code"`
	ResponseBody string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "checkout_idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
