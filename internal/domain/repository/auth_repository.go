package repository

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// AuthRepository opens and closes remote backend sessions
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*entity.SessionContext, error)
	// Logout is best effort and always clears sess
	Logout(ctx context.Context, sess *entity.SessionContext)
}
