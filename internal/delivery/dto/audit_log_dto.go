package dto

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
)

type AuditLogQuery struct {
	EntityType string `validate:"omitempty,oneof=appointment doctor user"`
	EntityID   string `validate:"omitempty,max=64"`
	Action     string `validate:"omitempty,max=100"`
	Limit      int    `validate:"gte=0"`
}

type AuditLogResponse struct {
	ID         int64           `json:"id"`
	Actor      *UserResponse   `json:"actor,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	OldValue   entity.Snapshot `json:"old_value"`
	NewValue   entity.Snapshot `json:"new_value"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
