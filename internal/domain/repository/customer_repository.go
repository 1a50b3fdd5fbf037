package repository

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

// CustomerRepository defines the loyalty member operations of the remote backend
type CustomerRepository interface {
	// SearchCustomers returns members whose name or phone matches term
	SearchCustomers(ctx context.Context, sess *entity.SessionContext, term string) ([]entity.Customer, error)
	CreateCustomer(ctx context.Context, sess *entity.SessionContext, in entity.NewCustomer) error
}
