package models

import (
	"academy/src/types"
	"time"

	"github.com/google/uuid"
)

type Coupon struct {
	ID            uuid.UUID          `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code          string             `gorm:"uniqueIndex" json:"code"`
	DiscountType  types.DiscountType `json:"discount_type"`
	DiscountValue float64            `json:"discount_value"`
	Scope         types.CouponScope  `gorm:"default:'all'" json:"scope"`
	TargetID      *uuid.UUID         `gorm:"type:uuid" json:"target_id,omitempty"`
	ValidFrom     *time.Time         `json:"valid_from,omitempty"`
	ValidUntil    *time.Time         `json:"valid_until,omitempty"`
	UsageLimit    *int               `json:"usage_limit,omitempty"`
	UsageCount    int                `gorm:"default:0" json:"usage_count"`
	IsActive      bool               `gorm:"default:true" json:"is_active"`
	AffiliateID   *uuid.UUID         `gorm:"type:uuid" json:"affiliate_id,omitempty"`

	types.Timestamps
}
