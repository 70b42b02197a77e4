package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogFilter narrows an audit listing; zero fields match everything.
type AuditLogFilter struct {
	EntityType string
	EntityID   string
	Action     string
	Limit      int
}

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	Find(ctx context.Context, db *gorm.DB, filter AuditLogFilter) ([]entity.AuditLog, error)
}
