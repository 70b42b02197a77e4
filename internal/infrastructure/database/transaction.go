package database

import (
	"context"

	"clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) repository.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Conn(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx)
}

// WithinTransaction commits when fn returns nil. A cancelled ctx aborts the
// statement in flight and the whole transaction is rolled back.
func (m *txManager) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
