package main

import (
	"academy/src/db"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
)

// paymentPageHandlers serves the unauthenticated payment page data. The
// presentation is re-evaluated on every request so a fallback recorded at
// checkout time stays consistent with what the customer sees.
func paymentPageHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/checkout", func(ctx *gin.Context) {
			var query struct {
				TransactionID string `form:"transactionId" binding:"required,uuid"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			txnId, _ := uuid.Parse(query.TransactionID)
			db := db.GetDb()
			var txn models.Transaction
			if err := db.Where(&models.Transaction{ID: txnId}).First(&txn).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}

			presentation := utils.DetectPresentation(&txn)
			countdown := utils.CountdownSeconds(txn.ExpiresAt, time.Now())
			payload := gin.H{
				"transaction":  txn,
				"presentation": presentation,
				"countdown":    countdown,
				"channel_name": utils.ChannelDisplayName(txn.PaymentMethod),
			}
			if presentation == types.PRESENTATION_MANUAL_INSTRUCTIONS {
				var accounts []models.BankAccount
				if err := db.
					Where(&models.BankAccount{IsActive: true}).
					Order("position asc").
					Find(&accounts).
					Error; err != nil {
					log.Printf("Failed to load bank accounts: %s\n", err.Error())
				}
				payload["bank_accounts"] = accounts
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payload})
		}).
		GET("/payments/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			txnId, _ := uuid.Parse(params.ID)
			var txn models.Transaction
			if err := db.GetDb().Where(&models.Transaction{ID: txnId}).First(&txn).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			qrString, _ := txn.Metadata["qrString"].(string)
			if qrString == "" {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "no QR payload for this transaction"})
				return
			}
			qrc, err := qrcode.New(qrString)
			if err != nil {
				log.Printf("Failed to render QR for %s: %s\n", txn.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.Header("Content-Type", "image/png")
			if err := qrc.SaveTo(ctx.Writer); err != nil {
				log.Printf("Failed to write QR for %s: %s\n", txn.ID, err.Error())
			}
		})
	return g
}
