package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const (
	defaultAuditLogLimit = 100
	maxAuditLogLimit     = 1000
)

type AuditLogUsecase interface {
	List(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(txManager repository.TxManager, log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		txManager:    txManager,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// List returns the newest audit entries matching query, capped at maxAuditLogLimit.
func (u *auditLogUsecase) List(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	limit := query.Limit
	switch {
	case limit <= 0:
		limit = defaultAuditLogLimit
	case limit > maxAuditLogLimit:
		limit = maxAuditLogLimit
	}

	logs, err := u.auditLogRepo.Find(ctx, u.txManager.Conn(ctx), repository.AuditLogFilter{
		EntityType: query.EntityType,
		EntityID:   query.EntityID,
		Action:     query.Action,
		Limit:      limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
