package models

import (
	"academy/src/types"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name          string    `json:"name"`
	Slug          string    `gorm:"uniqueIndex" json:"slug"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	ImageURL      string    `json:"image_url,omitempty"`

	types.Timestamps
}
