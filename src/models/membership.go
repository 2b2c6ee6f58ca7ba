package models

import (
	"academy/src/types"
	"time"

	"github.com/google/uuid"
)

type Membership struct {
	ID          uuid.UUID                `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string                   `json:"name"`
	Slug        string                   `gorm:"uniqueIndex" json:"slug"`
	Description string                   `json:"description,omitempty"`
	Price       float64                  `json:"price"`
	Duration    types.MembershipDuration `json:"duration"`
	IsActive    bool                     `gorm:"default:true" json:"is_active"`

	Courses []MembershipCourse `gorm:"foreignKey:membership_id" json:"courses,omitempty"`
	Groups  []MembershipGroup  `gorm:"foreignKey:membership_id" json:"groups,omitempty"`

	types.Timestamps
}

type MembershipCourse struct {
	ID           uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	MembershipID uuid.UUID `gorm:"uniqueIndex:idx_membership_course;type:uuid" json:"membership_id"`
	CourseID     uuid.UUID `gorm:"uniqueIndex:idx_membership_course;type:uuid" json:"course_id"`
	Position     int       `json:"position"`
	LifetimeOnly bool      `gorm:"default:false" json:"lifetime_only"`

	Course Course `gorm:"foreignKey:course_id" json:"course,omitempty"`

	types.Timestamps
}

type MembershipGroup struct {
	ID           uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	MembershipID uuid.UUID `gorm:"uniqueIndex:idx_membership_group;type:uuid" json:"membership_id"`
	GroupID      uuid.UUID `gorm:"uniqueIndex:idx_membership_group;type:uuid" json:"group_id"`

	Group Group `gorm:"foreignKey:group_id" json:"group,omitempty"`

	types.Timestamps
}

type UserMembership struct {
	ID            uuid.UUID                  `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID                  `gorm:"type:uuid" json:"user_id"`
	MembershipID  uuid.UUID                  `gorm:"type:uuid" json:"membership_id"`
	TransactionID *uuid.UUID                 `gorm:"type:uuid" json:"transaction_id,omitempty"`
	StartDate     time.Time                  `json:"start_date"`
	EndDate       *time.Time                 `json:"end_date,omitempty"`
	Status        types.UserMembershipStatus `gorm:"default:'pending'" json:"status"`
	IsActive      bool                       `gorm:"default:false" json:"is_active"`

	User       User       `gorm:"foreignKey:user_id" json:"-"`
	Membership Membership `gorm:"foreignKey:membership_id" json:"membership,omitempty"`

	types.Timestamps
}
