package utils

import (
	"academy/src/config"
	"academy/src/db"
	"academy/src/lib"
	"academy/src/models"
	"academy/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var paymentChannelNames = map[string]string{
	"BCA":       "Bank BCA",
	"MANDIRI":   "Bank Mandiri",
	"BNI":       "Bank BNI",
	"BRI":       "Bank BRI",
	"BSI":       "Bank BSI",
	"CIMB":      "Bank CIMB Niaga",
	"PERMATA":   "Bank Permata",
	"OVO":       "OVO",
	"DANA":      "DANA",
	"GOPAY":     "GoPay",
	"LINKAJA":   "LinkAja",
	"SHOPEEPAY": "ShopeePay",
	"QRIS":      "QRIS",
	"ALFAMART":  "Alfamart",
	"INDOMARET": "Indomaret",
	"KREDIVO":   "Kredivo",
	"AKULAKU":   "Akulaku",
}

// ChannelDisplayName maps a channel code to its customer-facing name.
// Unknown codes fall back to the code itself.
func ChannelDisplayName(code string) string {
	if name, ok := paymentChannelNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// ResolveLogo picks a logo for a payment rail: custom upload first, then the
// bundled asset for known codes, then a generated placeholder.
func ResolveLogo(code string, logoURL string) string {
	if logoURL != "" {
		return logoURL
	}
	upper := strings.ToUpper(code)
	if _, ok := paymentChannelNames[upper]; ok {
		return fmt.Sprintf("/assets/channels/%s.png", strings.ToLower(code))
	}
	return fmt.Sprintf("https://placehold.co/120x40?text=%s", upper)
}

// CalculateDiscount computes the discount amount for a coupon against a base
// price. Percentage discounts round to the nearest unit.
func CalculateDiscount(price float64, discountType types.DiscountType, discountValue float64) float64 {
	if discountType == types.DISCOUNT_PERCENTAGE {
		return math.Round(price * discountValue / 100)
	}
	return discountValue
}

// ClampAmount applies a discount and clamps the payable amount at zero.
func ClampAmount(originalAmount float64, discountAmount float64) float64 {
	amount := originalAmount - discountAmount
	if amount < 0 {
		return 0
	}
	return amount
}

// ResolveCoupon validates a coupon row against a purchase scope and clock.
// A nil return means the coupon is applicable.
func ResolveCoupon(coupon *models.Coupon, scope types.CouponScope, targetID string, now time.Time) *types.CouponRejection {
	reject := func(r types.CouponRejection) *types.CouponRejection { return &r }
	if coupon == nil || !coupon.IsActive {
		return reject(types.COUPON_NOT_FOUND)
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return reject(types.COUPON_EXPIRED)
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return reject(types.COUPON_EXPIRED)
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return reject(types.COUPON_ALREADY_USED)
	}
	if coupon.Scope != types.COUPON_SCOPE_ALL {
		if coupon.Scope != scope {
			return reject(types.COUPON_SCOPE_MISMATCH)
		}
		if coupon.TargetID != nil && coupon.TargetID.String() != targetID {
			return reject(types.COUPON_SCOPE_MISMATCH)
		}
	}
	return nil
}

// DetectPresentation decides how a pending transaction is shown to the
// customer. A VA number that is actually a URL means the provider fell back
// to a hosted invoice, so the customer gets redirected instead.
func DetectPresentation(txn *models.Transaction) types.PaymentPresentation {
	vaNumber := ""
	bankCode := ""
	if txn.Metadata != nil {
		if v, ok := txn.Metadata["vaNumber"].(string); ok {
			vaNumber = v
		}
		if v, ok := txn.Metadata["bankCode"].(string); ok {
			bankCode = v
		}
	}
	if vaNumber != "" && bankCode != "" && !strings.HasPrefix(vaNumber, "http") {
		return types.PRESENTATION_VA_INSTRUCTIONS
	}
	if txn.PaymentUrl != "" || strings.HasPrefix(vaNumber, "http") {
		return types.PRESENTATION_HOSTED_REDIRECT
	}
	return types.PRESENTATION_MANUAL_INSTRUCTIONS
}

// CountdownSeconds returns the remaining payment window, clamped at zero.
func CountdownSeconds(expiresAt time.Time, now time.Time) int64 {
	secs := int64(expiresAt.Sub(now).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// NextInvoiceNumber issues an invoice number from the database sequence, so
// concurrent checkouts can never collide on the same number.
func NextInvoiceNumber(tx *gorm.DB) (string, error) {
	var seq int64
	if err := tx.Raw("SELECT nextval('invoice_numbers')").Scan(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%05d", time.Now().Format("20060102"), seq), nil
}

func MembershipEndDate(duration types.MembershipDuration, start time.Time) *time.Time {
	var end time.Time
	switch duration {
	case types.DURATION_MONTHLY:
		end = start.AddDate(0, 1, 0)
	case types.DURATION_SIX_MONTHS:
		end = start.AddDate(0, 6, 0)
	case types.DURATION_YEARLY:
		end = start.AddDate(1, 0, 0)
	case types.DURATION_LIFETIME:
		return nil
	default:
		return nil
	}
	return &end
}

type CheckoutResult struct {
	TransactionID string      `json:"transaction_id"`
	InvoiceNumber string      `json:"invoice_number"`
	Amount        float64     `json:"amount"`
	PaymentUrl    string      `json:"payment_url,omitempty"`
	Status        string      `json:"status"`
	ExpiresAt     time.Time   `json:"expires_at"`
	Metadata      types.JSONB `json:"metadata,omitempty"`
}

// CreateCheckoutTransaction runs the whole checkout flow: item lookup,
// coupon resolution, invoice numbering, provider calls and expiry
// scheduling. Provider failures downgrade to manual payment instructions
// rather than failing the checkout.
func CreateCheckoutTransaction(ctx context.Context, params *types.CheckoutRequestBody, userID uuid.UUID) (*CheckoutResult, error) {
	itemID := params.ProductID
	if params.Type == types.TRANSACTION_MEMBERSHIP {
		itemID = params.MembershipID
	}
	if itemID == "" {
		return nil, errors.New("missing item id for checkout")
	}
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, errors.New("invalid item id")
	}

	rd := lib.GetRedisClient()
	idemKey := fmt.Sprintf("checkout:%s:%s:%s", userID, params.Type, itemID)
	if rd != nil {
		if existingID, err := rd.Get(ctx, idemKey).Result(); err == nil {
			existingUUID, parseErr := uuid.Parse(existingID)
			var existing models.Transaction
			if parseErr == nil && db.GetDb().
				Where(&models.Transaction{ID: existingUUID, Status: types.TRANSACTION_PENDING}).
				First(&existing).
				Error == nil {
				log.Printf("Returning pending transaction %s for idempotent checkout\n", existingID)
				return &CheckoutResult{
					TransactionID: existing.ID.String(),
					InvoiceNumber: existing.InvoiceNumber,
					Amount:        existing.Amount,
					PaymentUrl:    existing.PaymentUrl,
					Status:        string(existing.Status),
					ExpiresAt:     existing.ExpiresAt,
					Metadata:      existing.Metadata,
				}, nil
			}
		}
	}

	var originalAmount float64
	var itemName string
	var membership models.Membership
	gdb := db.GetDb()
	switch params.Type {
	case types.TRANSACTION_PRODUCT:
		var product models.Product
		if err := gdb.Where(&models.Product{ID: itemUUID, IsActive: true}).First(&product).Error; err != nil {
			return nil, errors.New("product not found")
		}
		originalAmount = product.Price
		itemName = product.Name
	case types.TRANSACTION_MEMBERSHIP:
		if err := gdb.Where(&models.Membership{ID: itemUUID, IsActive: true}).First(&membership).Error; err != nil {
			return nil, errors.New("membership not found")
		}
		var active int64
		gdb.Model(&models.UserMembership{}).
			Where(&models.UserMembership{UserID: userID, MembershipID: itemUUID, Status: types.MEMBERSHIP_ACTIVE}).
			Count(&active)
		if active > 0 {
			return nil, errors.New("membership already active for this user")
		}
		originalAmount = membership.Price
		itemName = membership.Name
	default:
		return nil, errors.New("unsupported transaction type")
	}

	now := time.Now()
	var discountAmount float64
	metadata := types.JSONB{}
	var coupon models.Coupon
	hasCoupon := false
	if params.CouponCode != "" {
		if err := gdb.Where(&models.Coupon{Code: params.CouponCode}).First(&coupon).Error; err != nil {
			return nil, fmt.Errorf("coupon rejected: %s", types.COUPON_NOT_FOUND)
		}
		scope := types.CouponScope(params.Type)
		if rejection := ResolveCoupon(&coupon, scope, itemID, now); rejection != nil {
			return nil, fmt.Errorf("coupon rejected: %s", *rejection)
		}
		discountAmount = CalculateDiscount(originalAmount, coupon.DiscountType, coupon.DiscountValue)
		metadata["couponCode"] = coupon.Code
		if coupon.AffiliateID != nil {
			metadata["affiliateId"] = coupon.AffiliateID.String()
		}
		hasCoupon = true
	}
	amount := ClampAmount(originalAmount, discountAmount)

	if amount > 0 {
		minAmount := config.GetSettingInt(config.SETTING_MIN_PAYMENT_AMOUNT, 0)
		maxAmount := config.GetSettingInt(config.SETTING_MAX_PAYMENT_AMOUNT, 0)
		if minAmount > 0 && amount < float64(minAmount) {
			return nil, fmt.Errorf("amount is below the minimum payable amount of %d", minAmount)
		}
		if maxAmount > 0 && amount > float64(maxAmount) {
			return nil, fmt.Errorf("amount exceeds the maximum payable amount of %d", maxAmount)
		}
	}

	expiryHours := config.GetSettingInt(config.SETTING_PAYMENT_EXPIRY_HOURS, config.DEFAULT_PAYMENT_EXPIRY_HOURS)
	expiresAt := now.Add(time.Duration(expiryHours) * time.Hour)
	metadata["expiryHours"] = expiryHours

	txn := models.Transaction{
		UserID:             userID,
		Type:               params.Type,
		ItemID:             itemUUID,
		Status:             types.TRANSACTION_PENDING,
		Amount:             amount,
		OriginalAmount:     originalAmount,
		DiscountAmount:     discountAmount,
		CustomerName:       params.Name,
		CustomerEmail:      params.Email,
		CustomerPhone:      params.Phone,
		CustomerWhatsapp:   params.Whatsapp,
		PaymentMethod:      strings.ToUpper(params.PaymentMethod),
		PaymentChannelType: types.PaymentChannelType(params.PaymentChannel),
		ExpiresAt:          expiresAt,
		Metadata:           metadata,
	}

	err = gdb.Transaction(func(tx *gorm.DB) error {
		invoiceNumber, err := NextInvoiceNumber(tx)
		if err != nil {
			return err
		}
		txn.InvoiceNumber = invoiceNumber
		txn.ExternalID = invoiceNumber
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		if hasCoupon {
			if err := tx.
				Model(&models.Coupon{}).
				Where(&models.Coupon{ID: coupon.ID}).
				Update("usage_count", gorm.Expr("usage_count + 1")).
				Error; err != nil {
				return err
			}
		}
		if params.Type == types.TRANSACTION_MEMBERSHIP {
			txnID := txn.ID
			um := models.UserMembership{
				UserID:        userID,
				MembershipID:  itemUUID,
				TransactionID: &txnID,
				StartDate:     now,
				EndDate:       MembershipEndDate(membership.Duration, now),
				Status:        types.MEMBERSHIP_PENDING,
			}
			if err := tx.Create(&um).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if amount == 0 {
		// Fully discounted checkouts complete immediately.
		if err := MarkTransactionPaid(txn.ID.String(), "free_checkout", nil); err != nil {
			log.Printf("Failed to settle free checkout %s: %s\n", txn.ID, err.Error())
		}
		LogActivity(userID, "checkout.free", "transactions", txn.ID.String(), &metadata)
		return &CheckoutResult{
			TransactionID: txn.ID.String(),
			InvoiceNumber: txn.InvoiceNumber,
			Amount:        0,
			Status:        string(types.TRANSACTION_PAID),
			ExpiresAt:     expiresAt,
			Metadata:      metadata,
		}, nil
	}

	provider := lib.GetPaymentProvider()
	description := fmt.Sprintf("%s (%s)", itemName, txn.InvoiceNumber)
	switch txn.PaymentChannelType {
	case types.CHANNEL_BANK_TRANSFER:
		out, err := provider.CreateVirtualAccount(ctx, &lib.VirtualAccountInput{
			ExternalID:   txn.ExternalID,
			BankCode:     txn.PaymentMethod,
			CustomerName: params.Name,
			Amount:       amount,
			ExpiresAt:    expiresAt,
		})
		if err != nil {
			log.Printf("Provider VA failed for %s: %s\n", txn.ID, err.Error())
			metadata["fallback"] = true
		} else {
			metadata["vaNumber"] = out.AccountNumber
			metadata["bankCode"] = out.BankCode
			txn.Reference = out.ReferenceID
		}
	case types.CHANNEL_EWALLET:
		out, err := provider.CreateEWalletCharge(ctx, &lib.EWalletChargeInput{
			ReferenceID: txn.ExternalID,
			ChannelCode: txn.PaymentMethod,
			Amount:      amount,
			RedirectURL: fmt.Sprintf("%s/payment/%s", os.Getenv("APP_HOST"), txn.ID),
		})
		if err != nil {
			log.Printf("Provider e-wallet charge failed for %s: %s\n", txn.ID, err.Error())
			metadata["fallback"] = true
		} else {
			txn.PaymentUrl = out.CheckoutURL
			metadata["checkoutUrl"] = out.CheckoutURL
			txn.Reference = out.ReferenceID
		}
	case types.CHANNEL_QRIS:
		out, err := provider.CreateQRCode(ctx, &lib.QRCodeInput{
			ExternalID: txn.ExternalID,
			Amount:     amount,
		})
		if err != nil {
			log.Printf("Provider QR failed for %s: %s\n", txn.ID, err.Error())
			metadata["fallback"] = true
		} else {
			metadata["qrString"] = out.QRString
			txn.Reference = out.ReferenceID
		}
	default:
		out, err := provider.CreateInvoice(ctx, &lib.InvoiceInput{
			ExternalID:    txn.ExternalID,
			Amount:        amount,
			PayerEmail:    params.Email,
			Description:   description,
			DurationHours: expiryHours,
		})
		if err != nil {
			log.Printf("Provider invoice failed for %s: %s\n", txn.ID, err.Error())
			metadata["fallback"] = true
		} else {
			txn.PaymentUrl = out.InvoiceURL
			metadata["checkoutUrl"] = out.InvoiceURL
			txn.Reference = out.ReferenceID
		}
	}

	if err := gdb.
		Model(&models.Transaction{}).
		Where(&models.Transaction{ID: txn.ID}).
		Updates(map[string]any{
			"payment_url": txn.PaymentUrl,
			"reference":   txn.Reference,
			"metadata":    metadata,
		}).Error; err != nil {
		log.Printf("Failed to persist provider data for %s: %s\n", txn.ID, err.Error())
	}

	if rd != nil {
		if err := rd.Set(ctx, idemKey, txn.ID.String(), time.Duration(expiryHours)*time.Hour).Err(); err != nil {
			log.Printf("Error caching checkout key [%s]: %s\n", idemKey, err.Error())
		}
	}

	go ScheduleTransactionExpiry(&txn)
	LogActivity(userID, "checkout.create", "transactions", txn.ID.String(), &metadata)

	return &CheckoutResult{
		TransactionID: txn.ID.String(),
		InvoiceNumber: txn.InvoiceNumber,
		Amount:        amount,
		PaymentUrl:    txn.PaymentUrl,
		Status:        string(types.TRANSACTION_PENDING),
		ExpiresAt:     expiresAt,
		Metadata:      metadata,
	}, nil
}

// ScheduleTransactionExpiry enqueues a one-time job that expires the
// transaction when the payment window closes.
func ScheduleTransactionExpiry(txn *models.Transaction) {
	runsAt := txn.ExpiresAt.UTC()
	jobTask := models.JobTask{
		Name:      fmt.Sprintf("Transaction_%s_ExpiresAt", txn.ID),
		JobType:   "OneTimeJobStartDateTime",
		RunsAt:    runsAt,
		PayloadID: txn.ID.String(),
		Payload: map[string]any{
			"id":    txn.ID.String(),
			"table": "transactions",
		},
	}
	id, err := jobTask.CreateAndEnqueueJobTask(jobTask, ExpireTransaction)
	if err != nil {
		log.Printf("Error creating job for Transaction: id=%s error=%s\n", txn.ID, err.Error())
		return
	}
	log.Printf("Created job for Transaction[%s] with ID %s\n", txn.ID, id)
}

// ExpireTransaction marks a transaction EXPIRED if it is still pending.
func ExpireTransaction(id string) {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		txnID, err := uuid.Parse(id)
		if err != nil {
			return err
		}
		res := tx.
			Model(&models.Transaction{}).
			Where(&models.Transaction{ID: txnID, Status: types.TRANSACTION_PENDING}).
			Update("status", types.TRANSACTION_EXPIRED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Printf("Transaction %s expired\n", id)
			if err := tx.
				Model(&models.UserMembership{}).
				Where(&models.UserMembership{TransactionID: &txnID, Status: types.MEMBERSHIP_PENDING}).
				Update("status", types.MEMBERSHIP_EXPIRED).
				Error; err != nil {
				return err
			}
		}
		if err := tx.
			Model(&models.JobTask{}).
			Where(&models.JobTask{PayloadID: id, Status: "pending"}).
			Update("status", "done").
			Error; err != nil {
			log.Printf("Failed to close job task for %s: %s\n", id, err.Error())
		}
		return nil
	})
	if err != nil {
		log.Printf("ExpireTransaction failed for %s: %s\n", id, err.Error())
	}
}

// MarkTransactionPaid transitions a pending transaction to PAID and grants
// the purchase. Non-pending transactions are left untouched.
func MarkTransactionPaid(id string, reference string, extra types.JSONB) error {
	gdb := db.GetDb()
	txnID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Transaction{ID: txnID}).
			First(&txn).
			Error; err != nil {
			return err
		}
		if txn.Status != types.TRANSACTION_PENDING {
			log.Printf("Transaction %s is %s, skipping PAID transition\n", id, txn.Status)
			return nil
		}
		now := time.Now()
		metadata := txn.Metadata
		if metadata == nil {
			metadata = types.JSONB{}
		}
		for k, v := range extra {
			metadata[k] = v
		}
		if err := tx.
			Model(&models.Transaction{}).
			Where(&models.Transaction{ID: txnID}).
			Updates(map[string]any{
				"status":    types.TRANSACTION_PAID,
				"paid_at":   now,
				"reference": reference,
				"metadata":  metadata,
			}).Error; err != nil {
			return err
		}
		return GrantTransactionBenefits(tx, &txn)
	})
}

// GrantTransactionBenefits activates the purchased membership and enrolls
// the buyer in its courses and groups. All grants are idempotent.
func GrantTransactionBenefits(tx *gorm.DB, txn *models.Transaction) error {
	if txn.Type != types.TRANSACTION_MEMBERSHIP {
		return nil
	}
	txnID := txn.ID
	if err := tx.
		Model(&models.UserMembership{}).
		Where(&models.UserMembership{UserID: txn.UserID, TransactionID: &txnID}).
		Updates(map[string]any{
			"status":    types.MEMBERSHIP_ACTIVE,
			"is_active": true,
		}).Error; err != nil {
		return err
	}
	var membership models.Membership
	if err := tx.
		Where(&models.Membership{ID: txn.ItemID}).
		Preload("Courses").
		Preload("Groups").
		First(&membership).
		Error; err != nil {
		return err
	}
	if err := EnrollMembershipContent(tx, txn.UserID, &membership); err != nil {
		return err
	}
	if err := tx.
		Model(&models.User{}).
		Where(&models.User{ID: txn.UserID}).
		Update("role", types.ROLE_MEMBER_PREMIUM).
		Error; err != nil {
		return err
	}
	return nil
}

// EnrollMembershipContent joins a user to a membership's courses and groups.
// LIFETIME memberships include the lifetimeOnly courses as well.
func EnrollMembershipContent(tx *gorm.DB, userID uuid.UUID, membership *models.Membership) error {
	for _, mc := range membership.Courses {
		if mc.LifetimeOnly && membership.Duration != types.DURATION_LIFETIME {
			continue
		}
		enrollment := models.CourseEnrollment{UserID: userID, CourseID: mc.CourseID}
		if err := tx.
			Where(&models.CourseEnrollment{UserID: userID, CourseID: mc.CourseID}).
			FirstOrCreate(&enrollment).
			Error; err != nil {
			return err
		}
	}
	for _, mg := range membership.Groups {
		var banned int64
		tx.Model(&models.BannedUser{}).
			Where(&models.BannedUser{UserID: userID, GroupID: mg.GroupID}).
			Count(&banned)
		if banned > 0 {
			continue
		}
		member := models.GroupMember{UserID: userID, GroupID: mg.GroupID}
		if err := tx.
			Where(&models.GroupMember{UserID: userID, GroupID: mg.GroupID}).
			FirstOrCreate(&member).
			Error; err != nil {
			return err
		}
	}
	return nil
}

// SyncMembershipEnrollments backfills course and group access for every
// active membership. Safe to run repeatedly.
func SyncMembershipEnrollments() (enrolled int, skipped int, err error) {
	gdb := db.GetDb()
	var userMemberships []models.UserMembership
	if err := gdb.
		Where(&models.UserMembership{Status: types.MEMBERSHIP_ACTIVE}).
		Preload("Membership.Courses").
		Preload("Membership.Groups").
		Find(&userMemberships).
		Error; err != nil {
		return 0, 0, err
	}
	for _, um := range userMemberships {
		membership := um.Membership
		userID := um.UserID
		err := gdb.Transaction(func(tx *gorm.DB) error {
			return EnrollMembershipContent(tx, userID, &membership)
		})
		if err != nil {
			log.Printf("Sync failed for user %s membership %s: %s\n", um.UserID, um.MembershipID, err.Error())
			skipped++
			continue
		}
		enrolled++
	}
	return enrolled, skipped, nil
}

func LogActivity(userID uuid.UUID, action string, entity string, entityID string, metadata *types.JSONB) {
	gdb := db.GetDb()
	entry := models.ActivityLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metadata,
	}
	if err := gdb.Create(&entry).Error; err != nil {
		log.Printf("Failed to write activity log: %s\n", err.Error())
	}
}
