package main

import (
	"academy/src/common"
	"academy/src/db"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func transactionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId, err := uuid.Parse(ctx.GetString("id"))
			if err != nil {
				ctx.Status(http.StatusUnauthorized)
				return
			}
			result, err := utils.CreateCheckoutTransaction(ctx.Request.Context(), &body, userId)
			if err != nil {
				log.Printf("error on checkout: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			go func() {
				var user models.User
				if err := db.GetDb().Where(&models.User{ID: userId}).First(&user).Error; err != nil {
					log.Printf("Could not load user %s for notification: %s\n", userId, err.Error())
					return
				}
				common.NotifyAsync(&user, &common.NotifyInput{
					Type:    types.NOTIFICATION_TRANSACTION_CREATED,
					Title:   "Invoice created",
					Message: fmt.Sprintf("Your invoice %s for %0.f is waiting for payment.", result.InvoiceNumber, result.Amount),
					Channels: []types.NotificationChannel{
						types.CHANNEL_PUSHER,
						types.CHANNEL_EMAIL,
					},
					RedirectUrl: fmt.Sprintf("/payment/%s", result.TransactionID),
				})
			}()

			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			txnId, _ := uuid.Parse(params.ID)
			db := db.GetDb()
			var txn models.Transaction
			if err := db.Where(&models.Transaction{ID: txnId}).First(&txn).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			if txn.UserID.String() != ctx.GetString("id") && ctx.GetString("role") != string(types.ROLE_ADMIN) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this transaction"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		})
	return g
}
