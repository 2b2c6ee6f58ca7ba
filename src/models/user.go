package models

import (
	"academy/src/types"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID       `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         string          `gorm:"uniqueIndex" json:"email,omitempty"`
	Password      string          `json:"-"`
	Phone         string          `json:"phone,omitempty"`
	Whatsapp      string          `json:"whatsapp,omitempty"`
	Role          types.UserRole  `gorm:"default:'member_free'" json:"role,omitempty"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	EmailVerified bool            `json:"email_verified,omitempty"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	Metadata      *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Memberships  []UserMembership   `gorm:"foreignKey:user_id" json:"memberships,omitempty"`
	Enrollments  []CourseEnrollment `gorm:"foreignKey:user_id" json:"enrollments,omitempty"`
	Transactions []Transaction      `gorm:"foreignKey:user_id" json:"transactions,omitempty"`

	types.Timestamps
}
