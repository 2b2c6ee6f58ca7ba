package utils

import (
	"academy/src/models"
	"academy/src/types"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		discountType  types.DiscountType
		discountValue float64
		expected      float64
	}{
		{"percentage rounds to nearest unit", 99999, types.DISCOUNT_PERCENTAGE, 10, 10000},
		{"percentage of even price", 100000, types.DISCOUNT_PERCENTAGE, 25, 25000},
		{"full percentage", 150000, types.DISCOUNT_PERCENTAGE, 100, 150000},
		{"fixed amount passes through", 100000, types.DISCOUNT_FIXED, 15000, 15000},
		{"fixed amount above price passes through", 10000, types.DISCOUNT_FIXED, 25000, 25000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CalculateDiscount(tc.price, tc.discountType, tc.discountValue))
		})
	}
}

func TestClampAmount(t *testing.T) {
	assert.Equal(t, float64(85000), ClampAmount(100000, 15000))
	assert.Equal(t, float64(0), ClampAmount(10000, 25000))
	assert.Equal(t, float64(0), ClampAmount(10000, 10000))
	assert.Equal(t, float64(100000), ClampAmount(100000, 0))
}

func TestResolveCoupon(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	limit := 5
	targetId := uuid.New()

	active := func() *models.Coupon {
		return &models.Coupon{
			ID:            uuid.New(),
			Code:          "WELCOME10",
			DiscountType:  types.DISCOUNT_PERCENTAGE,
			DiscountValue: 10,
			Scope:         types.COUPON_SCOPE_ALL,
			IsActive:      true,
		}
	}

	t.Run("valid coupon", func(t *testing.T) {
		assert.Nil(t, ResolveCoupon(active(), types.COUPON_SCOPE_MEMBERSHIP, targetId.String(), now))
	})

	t.Run("nil coupon", func(t *testing.T) {
		rejection := ResolveCoupon(nil, types.COUPON_SCOPE_ALL, "", now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_NOT_FOUND, *rejection)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		coupon := active()
		coupon.IsActive = false
		rejection := ResolveCoupon(coupon, types.COUPON_SCOPE_ALL, "", now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_NOT_FOUND, *rejection)
	})

	t.Run("not yet valid", func(t *testing.T) {
		coupon := active()
		coupon.ValidFrom = &tomorrow
		rejection := ResolveCoupon(coupon, types.COUPON_SCOPE_ALL, "", now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_EXPIRED, *rejection)
	})

	t.Run("already expired", func(t *testing.T) {
		coupon := active()
		coupon.ValidUntil = &yesterday
		rejection := ResolveCoupon(coupon, types.COUPON_SCOPE_ALL, "", now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_EXPIRED, *rejection)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		coupon := active()
		coupon.UsageLimit = &limit
		coupon.UsageCount = 5
		rejection := ResolveCoupon(coupon, types.COUPON_SCOPE_ALL, "", now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_ALREADY_USED, *rejection)
	})

	t.Run("usage below limit", func(t *testing.T) {
		coupon := active()
		coupon.UsageLimit = &limit
		coupon.UsageCount = 4
		assert.Nil(t, ResolveCoupon(coupon, types.COUPON_SCOPE_ALL, "", now))
	})

	t.Run("scope mismatch", func(t *testing.T) {
		coupon := active()
		coupon.Scope = types.COUPON_SCOPE_PRODUCT
		rejection := ResolveCoupon(coupon, types.COUPON_SCOPE_MEMBERSHIP, targetId.String(), now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_SCOPE_MISMATCH, *rejection)
	})

	t.Run("target mismatch", func(t *testing.T) {
		other := uuid.New()
		coupon := active()
		coupon.Scope = types.COUPON_SCOPE_MEMBERSHIP
		coupon.TargetID = &other
		rejection := ResolveCoupon(coupon, types.COUPON_SCOPE_MEMBERSHIP, targetId.String(), now)
		assert.NotNil(t, rejection)
		assert.Equal(t, types.COUPON_SCOPE_MISMATCH, *rejection)
	})

	t.Run("matching target", func(t *testing.T) {
		coupon := active()
		coupon.Scope = types.COUPON_SCOPE_MEMBERSHIP
		coupon.TargetID = &targetId
		assert.Nil(t, ResolveCoupon(coupon, types.COUPON_SCOPE_MEMBERSHIP, targetId.String(), now))
	})
}

func TestDetectPresentation(t *testing.T) {
	tests := []struct {
		name     string
		txn      models.Transaction
		expected types.PaymentPresentation
	}{
		{
			"virtual account number with bank code",
			models.Transaction{Metadata: types.JSONB{"vaNumber": "8808123456789012", "bankCode": "BCA"}},
			types.PRESENTATION_VA_INSTRUCTIONS,
		},
		{
			"hosted invoice url in va field",
			models.Transaction{Metadata: types.JSONB{"vaNumber": "https://checkout.example.com/inv_123", "bankCode": "BCA"}},
			types.PRESENTATION_HOSTED_REDIRECT,
		},
		{
			"payment url set",
			models.Transaction{PaymentUrl: "https://checkout.example.com/inv_123"},
			types.PRESENTATION_HOSTED_REDIRECT,
		},
		{
			"nothing provider-issued",
			models.Transaction{},
			types.PRESENTATION_MANUAL_INSTRUCTIONS,
		},
		{
			"va number without bank code",
			models.Transaction{Metadata: types.JSONB{"vaNumber": "8808123456789012"}},
			types.PRESENTATION_MANUAL_INSTRUCTIONS,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectPresentation(&tc.txn))
		})
	}
}

func TestCountdownSeconds(t *testing.T) {
	now := time.Now()
	assert.Equal(t, int64(3600), CountdownSeconds(now.Add(time.Hour), now))
	assert.Equal(t, int64(0), CountdownSeconds(now.Add(-time.Minute), now))
	assert.Equal(t, int64(0), CountdownSeconds(now, now))
}

func TestMembershipEndDate(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	monthly := MembershipEndDate(types.DURATION_MONTHLY, start)
	assert.NotNil(t, monthly)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), *monthly)

	sixMonths := MembershipEndDate(types.DURATION_SIX_MONTHS, start)
	assert.NotNil(t, sixMonths)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), *sixMonths)

	yearly := MembershipEndDate(types.DURATION_YEARLY, start)
	assert.NotNil(t, yearly)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *yearly)

	assert.Nil(t, MembershipEndDate(types.DURATION_LIFETIME, start))
}

func TestChannelDisplayName(t *testing.T) {
	assert.Equal(t, "Bank BCA", ChannelDisplayName("BCA"))
	assert.Equal(t, "Bank BCA", ChannelDisplayName("bca"))
	assert.Equal(t, "GoPay", ChannelDisplayName("GOPAY"))
	assert.Equal(t, "MYSTERY", ChannelDisplayName("MYSTERY"))
}

func TestResolveLogo(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/custom.png", ResolveLogo("BCA", "https://cdn.example.com/custom.png"))
	assert.Equal(t, "/assets/channels/bca.png", ResolveLogo("BCA", ""))
	assert.Equal(t, "https://placehold.co/120x40?text=MYSTERY", ResolveLogo("mystery", ""))
}
