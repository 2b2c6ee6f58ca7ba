package models

import (
	"academy/src/types"

	"github.com/google/uuid"
)

type Group struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Members []GroupMember `gorm:"foreignKey:group_id" json:"members,omitempty"`

	types.Timestamps
}

type GroupMember struct {
	ID      uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  uuid.UUID `gorm:"uniqueIndex:idx_user_group;type:uuid" json:"user_id"`
	GroupID uuid.UUID `gorm:"uniqueIndex:idx_user_group;type:uuid" json:"group_id"`

	User User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

type BannedUser struct {
	ID       uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid" json:"user_id"`
	Reason   string    `json:"reason,omitempty"`
	BannedBy uuid.UUID `gorm:"type:uuid" json:"banned_by"`

	User User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
