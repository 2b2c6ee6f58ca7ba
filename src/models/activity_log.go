package models

import (
	"academy/src/types"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID       uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID    `gorm:"type:uuid;index" json:"user_id"`
	Action   string       `json:"action"`
	Entity   string       `json:"entity"`
	EntityID string       `json:"entity_id"`
	Metadata *types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps
}
