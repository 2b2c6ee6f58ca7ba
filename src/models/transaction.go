package models

import (
	"academy/src/types"
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID            uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	InvoiceNumber string    `gorm:"uniqueIndex" json:"invoice_number"`
	UserID        uuid.UUID `gorm:"type:uuid" json:"user_id"`

	Type   types.TransactionType   `json:"type"`
	ItemID uuid.UUID               `gorm:"type:uuid" json:"item_id"`
	Status types.TransactionStatus `gorm:"default:'pending'" json:"status"`

	Amount         float64 `json:"amount"`
	OriginalAmount float64 `json:"original_amount"`
	DiscountAmount float64 `json:"discount_amount"`

	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	CustomerWhatsapp string `json:"customer_whatsapp,omitempty"`

	PaymentMethod      string                   `json:"payment_method"`
	PaymentChannelType types.PaymentChannelType `json:"payment_channel_type"`
	PaymentUrl         string                   `json:"payment_url,omitempty"`
	Reference          string                   `json:"reference,omitempty"`
	ExternalID         string                   `gorm:"index" json:"external_id"`

	ExpiresAt time.Time   `json:"expires_at"`
	PaidAt    *time.Time  `json:"paid_at,omitempty"`
	Metadata  types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
