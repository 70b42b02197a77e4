package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	return db.WithContext(ctx).Omit("User").Create(log).Error
}

// Find returns the newest entries first
func (r *auditLogRepository) Find(ctx context.Context, db *gorm.DB, filter domainRepo.AuditLogFilter) ([]entity.AuditLog, error) {
	query := db.WithContext(ctx).Preload("User.Role")
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var logs []entity.AuditLog
	if err := query.Order("created_at DESC, id DESC").Limit(filter.Limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
