package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager hands out the persistence handle each repository call runs on.
// Repositories never hold a connection of their own.
type TxManager interface {
	// Conn returns a request scoped handle for reads outside a transaction
	Conn(ctx context.Context) *gorm.DB
	// WithinTransaction runs fn in one transaction; any error or panic rolls back
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
