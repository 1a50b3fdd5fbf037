package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

type memoryKey struct {
	terminalID uuid.UUID
	key        string
}

type memoryIdempotencyRepository struct {
	mu   sync.RWMutex
	keys map[memoryKey]entity.IdempotencyKey
}

// NewMemoryIdempotencyRepository creates an in-process idempotency store for
// single-instance deployments without a database. Keys do not survive a restart.
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[memoryKey]entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepository) GetByKey(_ context.Context, key string, terminalID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.RLock()
	ikey, ok := r.keys[memoryKey{terminalID: terminalID, key: key}]
	r.mu.RUnlock()

	if !ok || ikey.IsExpired() {
		return nil, nil
	}
	return &ikey, nil
}

func (r *memoryIdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	k := memoryKey{terminalID: ikey.TerminalID, key: ikey.Key}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.keys[k]; ok && !existing.IsExpired() {
		return nil
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	r.keys[k] = *ikey
	return nil
}

func (r *memoryIdempotencyRepository) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, ikey := range r.keys {
		if ikey.IsExpired() {
			delete(r.keys, k)
		}
	}
	return nil
}
