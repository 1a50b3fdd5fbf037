package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// IdempotencyRepository stores processed checkout submissions per terminal
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and terminal ID
	GetByKey(ctx context.Context, key string, terminalID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
