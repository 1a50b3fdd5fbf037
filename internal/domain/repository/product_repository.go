package repository

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// ProductRepository loads the catalog snapshot
type ProductRepository interface {
	ListItems(ctx context.Context, sess *entity.SessionContext) ([]entity.Product, error)
}
