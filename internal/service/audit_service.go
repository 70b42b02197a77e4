package service

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes audit rows on the caller's transaction so the trail
// commits or rolls back together with the change it describes.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID any, newValue any) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID any, oldValue, newValue any) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID any, newValue any) error {
	return s.LogUpdate(ctx, tx, actorID, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID any, oldValue, newValue any) error {
	oldSnap, err := entity.NewSnapshot(oldValue)
	if err != nil {
		return err
	}
	newSnap, err := entity.NewSnapshot(newValue)
	if err != nil {
		return err
	}

	auditLog := &entity.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityName,
		EntityID:   fmt.Sprint(entityID),
		OldValue:   oldSnap,
		NewValue:   newSnap,
	}
	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":    action,
			"entity":    entityName,
			"entity_id": auditLog.EntityID,
		}).Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}
