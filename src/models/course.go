package models

import (
	"academy/src/types"
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string    `json:"title"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	types.Timestamps
}

type CourseEnrollment struct {
	ID          uuid.UUID  `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `gorm:"uniqueIndex:idx_user_course;type:uuid" json:"user_id"`
	CourseID    uuid.UUID  `gorm:"uniqueIndex:idx_user_course;type:uuid" json:"course_id"`
	Progress    float64    `gorm:"default:0" json:"progress"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Course Course `gorm:"foreignKey:course_id" json:"course,omitempty"`

	types.Timestamps
}
