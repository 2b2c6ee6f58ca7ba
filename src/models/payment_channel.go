package models

import (
	"academy/src/types"

	"github.com/google/uuid"
)

type PaymentChannel struct {
	ID       uuid.UUID                `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code     string                   `gorm:"uniqueIndex" json:"code"`
	Name     string                   `json:"name"`
	Type     types.PaymentChannelType `json:"type"`
	IsActive bool                     `gorm:"default:true" json:"is_active"`
	LogoURL  string                   `json:"logo_url,omitempty"`
	Fee      float64                  `gorm:"default:0" json:"fee"`
	Position int                      `gorm:"default:0" json:"position"`

	types.Timestamps
}
