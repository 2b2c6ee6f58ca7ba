package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any
type JSONBAny struct {
	Inner any
}

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBAny) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a.Inner)
	return string(valueString), err
}
func (a *JSONBAny) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	var inner any
	if err := json.Unmarshal(b, &inner); err != nil {
		return err
	}
	a.Inner = inner
	return nil
}

func (a JSONBAny) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Inner)
}
func (a *JSONBAny) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &a.Inner)
}

type Metadata map[string]any

type UserRole string

const (
	ROLE_ADMIN          UserRole = "admin"
	ROLE_MEMBER_FREE    UserRole = "member_free"
	ROLE_MEMBER_PREMIUM UserRole = "member_premium"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING TransactionStatus = "pending"
	TRANSACTION_PAID    TransactionStatus = "paid"
	TRANSACTION_EXPIRED TransactionStatus = "expired"
	TRANSACTION_FAILED  TransactionStatus = "failed"
)

type TransactionType string

const (
	TRANSACTION_PRODUCT    TransactionType = "product"
	TRANSACTION_MEMBERSHIP TransactionType = "membership"
)

type MembershipDuration string

const (
	DURATION_MONTHLY    MembershipDuration = "monthly"
	DURATION_SIX_MONTHS MembershipDuration = "six_months"
	DURATION_YEARLY     MembershipDuration = "yearly"
	DURATION_LIFETIME   MembershipDuration = "lifetime"
)

type UserMembershipStatus string

const (
	MEMBERSHIP_PENDING UserMembershipStatus = "pending"
	MEMBERSHIP_ACTIVE  UserMembershipStatus = "active"
	MEMBERSHIP_EXPIRED UserMembershipStatus = "expired"
)

type DiscountType string

const (
	DISCOUNT_PERCENTAGE DiscountType = "percentage"
	DISCOUNT_FIXED      DiscountType = "fixed"
)

type CouponScope string

const (
	COUPON_SCOPE_PRODUCT    CouponScope = "product"
	COUPON_SCOPE_MEMBERSHIP CouponScope = "membership"
	COUPON_SCOPE_ALL        CouponScope = "all"
)

type CouponRejection string

const (
	COUPON_NOT_FOUND      CouponRejection = "NOT_FOUND"
	COUPON_EXPIRED        CouponRejection = "EXPIRED"
	COUPON_SCOPE_MISMATCH CouponRejection = "SCOPE_MISMATCH"
	COUPON_ALREADY_USED   CouponRejection = "ALREADY_USED"
)

type PaymentChannelType string

const (
	CHANNEL_BANK_TRANSFER   PaymentChannelType = "bank_transfer"
	CHANNEL_EWALLET         PaymentChannelType = "ewallet"
	CHANNEL_QRIS            PaymentChannelType = "qris"
	CHANNEL_RETAIL          PaymentChannelType = "retail"
	CHANNEL_PAYLATER        PaymentChannelType = "paylater"
	CHANNEL_CARDLESS_CREDIT PaymentChannelType = "cardless_credit"
)

type PaymentPresentation string

const (
	PRESENTATION_VA_INSTRUCTIONS     PaymentPresentation = "VA_INSTRUCTIONS"
	PRESENTATION_HOSTED_REDIRECT     PaymentPresentation = "HOSTED_REDIRECT"
	PRESENTATION_MANUAL_INSTRUCTIONS PaymentPresentation = "MANUAL_INSTRUCTIONS"
)

type NotificationType string

const (
	NOTIFICATION_TRANSACTION_CREATED NotificationType = "TRANSACTION_CREATED"
	NOTIFICATION_TRANSACTION_SUCCESS NotificationType = "TRANSACTION_SUCCESS"
	NOTIFICATION_TRANSACTION_FAILED  NotificationType = "TRANSACTION_FAILED"
	NOTIFICATION_TRANSACTION_EXPIRED NotificationType = "TRANSACTION_EXPIRED"
	NOTIFICATION_GROUP_BAN           NotificationType = "GROUP_BAN"
	NOTIFICATION_GROUP_UNBAN         NotificationType = "GROUP_UNBAN"
	NOTIFICATION_MEMBERSHIP_ACTIVE   NotificationType = "MEMBERSHIP_ACTIVE"
)

type NotificationChannel string

const (
	CHANNEL_PUSHER   NotificationChannel = "pusher"
	CHANNEL_PUSH     NotificationChannel = "push"
	CHANNEL_EMAIL    NotificationChannel = "email"
	CHANNEL_WHATSAPP NotificationChannel = "whatsapp"
)

type RegisterRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CheckoutRequestBody struct {
	Type           TransactionType `json:"type" binding:"required,oneof=product membership"`
	ProductID      string          `json:"product_id,omitempty"`
	MembershipID   string          `json:"membership_id,omitempty"`
	Name           string          `json:"name" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Phone          string          `json:"phone,omitempty"`
	Whatsapp       string          `json:"whatsapp,omitempty"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	PaymentMethod  string          `json:"payment_method" binding:"required"`
	PaymentChannel string          `json:"payment_channel" binding:"required,oneof=bank_transfer ewallet qris retail paylater cardless_credit"`
}

type ValidateCouponRequestBody struct {
	Code     string      `json:"code" binding:"required"`
	TargetID string      `json:"target_id,omitempty"`
	Scope    CouponScope `json:"scope" binding:"required,oneof=product membership all"`
}

type BanUserRequestBody struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Reason string `json:"reason,omitempty"`
}

type UnbanUserRequestBody struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type CreatePaymentChannelRequestBody struct {
	Code     string             `json:"code" binding:"required"`
	Name     string             `json:"name" binding:"required"`
	Type     PaymentChannelType `json:"type" binding:"required,oneof=bank_transfer ewallet qris retail paylater cardless_credit"`
	IsActive *bool              `json:"is_active,omitempty"`
	LogoURL  string             `json:"logo_url,omitempty"`
	Fee      float64            `json:"fee,omitempty"`
	Position int                `json:"position,omitempty"`
}

type UpdatePaymentChannelRequestBody struct {
	Name     string  `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	LogoURL  string  `json:"logo_url,omitempty"`
	Fee      float64 `json:"fee,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type CreateBankAccountRequestBody struct {
	BankName      string `json:"bank_name" binding:"required"`
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	IsActive      *bool  `json:"is_active,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`
	Position      int    `json:"position,omitempty"`
}

type UpdateBankAccountRequestBody struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	IsActive      *bool  `json:"is_active,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`
	Position      *int   `json:"position,omitempty"`
}

type CreateSettingRequestBody struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value" binding:"required"`
	Group string `json:"group" binding:"required"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type PaymentChannelQueryFilters struct {
	Type string `form:"type" binding:"omitempty,oneof=bank_transfer ewallet qris retail paylater cardless_credit"`
}

type Claims struct {
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
	Email string   `json:"email"`
	jwt.RegisteredClaims
}

type ExpireTransactionJobFn func(id string)
