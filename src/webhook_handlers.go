package main

import (
	"academy/src/common"
	"academy/src/db"
	"academy/src/lib"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type paymentWebhookEvent struct {
	Event      string `json:"event"`
	ExternalID string `json:"external_id"`
	Data       struct {
		ID          string  `json:"id"`
		ExternalID  string  `json:"external_id"`
		ReferenceID string  `json:"reference_id"`
		Status      string  `json:"status"`
		PaidAmount  float64 `json:"paid_amount"`
		PaymentID   string  `json:"payment_id"`
	} `json:"data"`
}

func paymentWebhookRoute(router *gin.Engine) {
	apiv1 := apiv1Group(router)
	apiv1.POST("/webhooks/payment", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		// Xendit sends the verification token on every callback.
		if !lib.VerifyCallbackToken(ctx.GetHeader("x-callback-token")) {
			log.Println("Webhook rejected: callback token mismatch")
			ctx.Status(http.StatusUnauthorized)
			return
		}

		var event paymentWebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		externalID := event.Data.ExternalID
		if externalID == "" {
			externalID = event.ExternalID
		}
		if externalID == "" {
			externalID = event.Data.ReferenceID
		}
		if externalID == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing external id"})
			return
		}

		gdb := db.GetDb()
		var txn models.Transaction
		if err := gdb.Where(&models.Transaction{ExternalID: externalID}).First(&txn).Error; err != nil {
			log.Printf("Webhook for unknown transaction [%s]: %s\n", externalID, event.Event)
			ctx.Status(http.StatusNotFound)
			return
		}

		switch event.Event {
		case "invoice.paid", "payment_request.succeeded", "qr.payment":
			if err := utils.MarkTransactionPaid(txn.ID.String(), event.Data.ID, types.JSONB{
				"paidAmount": event.Data.PaidAmount,
				"paymentId":  event.Data.PaymentID,
			}); err != nil {
				log.Printf("Failed to settle transaction %s: %s\n", txn.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			go notifyTransactionStatus(txn.ID.String(), types.NOTIFICATION_TRANSACTION_SUCCESS,
				"Payment received",
				fmt.Sprintf("Your payment for invoice %s has been confirmed.", txn.InvoiceNumber))
		case "invoice.expired":
			utils.ExpireTransaction(txn.ID.String())
			go notifyTransactionStatus(txn.ID.String(), types.NOTIFICATION_TRANSACTION_EXPIRED,
				"Invoice expired",
				fmt.Sprintf("Invoice %s has expired. Please create a new order.", txn.InvoiceNumber))
		case "payment_request.failed":
			if err := gdb.
				Model(&models.Transaction{}).
				Where(&models.Transaction{ID: txn.ID, Status: types.TRANSACTION_PENDING}).
				Update("status", types.TRANSACTION_FAILED).
				Error; err != nil {
				log.Printf("Failed to mark transaction %s failed: %s\n", txn.ID, err.Error())
			}
			go notifyTransactionStatus(txn.ID.String(), types.NOTIFICATION_TRANSACTION_FAILED,
				"Payment failed",
				fmt.Sprintf("Your payment for invoice %s could not be processed.", txn.InvoiceNumber))
		default:
			log.Printf("Ignoring webhook event: %s\n", event.Event)
		}
		ctx.Status(http.StatusOK)
	})
}

func notifyTransactionStatus(txnID string, notifType types.NotificationType, title string, message string) {
	gdb := db.GetDb()
	var txn models.Transaction
	if err := gdb.Preload("User").Where("id = ?", txnID).First(&txn).Error; err != nil {
		log.Printf("Could not load transaction %s for notification: %s\n", txnID, err.Error())
		return
	}
	user := txn.User
	common.NotifyAsync(&user, &common.NotifyInput{
		Type:        notifType,
		Title:       title,
		Message:     message,
		RedirectUrl: fmt.Sprintf("/payment/%s", txn.ID),
		Channels: []types.NotificationChannel{
			types.CHANNEL_PUSHER,
			types.CHANNEL_PUSH,
			types.CHANNEL_EMAIL,
			types.CHANNEL_WHATSAPP,
		},
	})
}
