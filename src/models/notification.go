package models

import (
	"academy/src/types"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID              `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID              `gorm:"type:uuid;index" json:"user_id"`
	Type        types.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Channels    types.JSONBArray       `gorm:"type:jsonb" json:"channels,omitempty"`
	IsSent      bool                   `gorm:"default:false" json:"is_sent"`
	SentAt      *time.Time             `json:"sent_at,omitempty"`
	IsRead      bool                   `gorm:"default:false" json:"is_read"`
	RedirectUrl string                 `json:"redirect_url,omitempty"`
	Metadata    *types.JSONB           `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps
}
