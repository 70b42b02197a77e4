package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func AuditLogToResponse(log *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:         log.ID,
		Actor:      UserToResponse(log.User),
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		OldValue:   log.OldValue,
		NewValue:   log.NewValue,
		CreatedAt:  log.CreatedAt,
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, AuditLogToResponse(&logs[i]))
	}
	return responses
}
