package models

import (
	"academy/src/types"

	"github.com/google/uuid"
)

type BankAccount struct {
	ID            uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	BankName      string    `json:"bank_name"`
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	LogoURL       string    `json:"logo_url,omitempty"`
	Position      int       `gorm:"default:0" json:"position"`

	types.Timestamps
}
