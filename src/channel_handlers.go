package main

import (
	"academy/src/db"
	"academy/src/lib"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const catalogCacheTTL = 10 * time.Minute

func catalogCacheKey(channelType string) string {
	if channelType == "" {
		return "catalog:payment-channels"
	}
	return fmt.Sprintf("catalog:payment-channels:%s", channelType)
}

func invalidateCatalogCache() {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	keys := []string{catalogCacheKey("")}
	for _, t := range []types.PaymentChannelType{
		types.CHANNEL_BANK_TRANSFER,
		types.CHANNEL_EWALLET,
		types.CHANNEL_QRIS,
		types.CHANNEL_RETAIL,
		types.CHANNEL_PAYLATER,
		types.CHANNEL_CARDLESS_CREDIT,
	} {
		keys = append(keys, catalogCacheKey(string(t)))
	}
	if err := rd.Del(context.Background(), keys...).Err(); err != nil {
		log.Printf("Failed to invalidate catalog cache: %s\n", err.Error())
	}
}

type channelView struct {
	models.PaymentChannel
	DisplayName  string `json:"display_name"`
	ResolvedLogo string `json:"resolved_logo"`
}

func listActiveChannels(channelType string) ([]channelView, error) {
	rd := lib.GetRedisClient()
	cacheKey := catalogCacheKey(channelType)
	if rd != nil {
		if cached, err := rd.Get(context.Background(), cacheKey).Result(); err == nil {
			var views []channelView
			if err := json.Unmarshal([]byte(cached), &views); err == nil {
				return views, nil
			}
		}
	}
	query := db.GetDb().Where(&models.PaymentChannel{IsActive: true})
	if channelType != "" {
		query = query.Where(&models.PaymentChannel{Type: types.PaymentChannelType(channelType)})
	}
	var channels []models.PaymentChannel
	if err := query.Order("position asc").Find(&channels).Error; err != nil {
		return nil, err
	}
	views := make([]channelView, 0, len(channels))
	for _, c := range channels {
		views = append(views, channelView{
			PaymentChannel: c,
			DisplayName:    utils.ChannelDisplayName(c.Code),
			ResolvedLogo:   utils.ResolveLogo(c.Code, c.LogoURL),
		})
	}
	if rd != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := rd.Set(context.Background(), cacheKey, payload, catalogCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache catalog: %s\n", err.Error())
			}
		}
	}
	return views, nil
}

func catalogHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/payment-channels", func(ctx *gin.Context) {
			var query types.PaymentChannelQueryFilters
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			channels, err := listActiveChannels(query.Type)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": channels})
		}).
		GET("/bank-accounts", func(ctx *gin.Context) {
			var accounts []models.BankAccount
			if err := db.GetDb().
				Where(&models.BankAccount{IsActive: true}).
				Order("position asc").
				Find(&accounts).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": accounts})
		})
	return g
}

func adminCatalogHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payment-channels", func(ctx *gin.Context) {
			var body types.CreatePaymentChannelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			isActive := true
			if body.IsActive != nil {
				isActive = *body.IsActive
			}
			channel := models.PaymentChannel{
				Code:     body.Code,
				Name:     body.Name,
				Type:     body.Type,
				IsActive: isActive,
				LogoURL:  body.LogoURL,
				Fee:      body.Fee,
				Position: body.Position,
			}
			if err := db.GetDb().Create(&channel).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateCatalogCache()
			ctx.JSON(http.StatusCreated, gin.H{"data": channel})
		}).
		PUT("/payment-channels/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdatePaymentChannelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			updates := map[string]any{}
			if body.Name != "" {
				updates["name"] = body.Name
			}
			if body.IsActive != nil {
				updates["is_active"] = *body.IsActive
			}
			if body.LogoURL != "" {
				updates["logo_url"] = body.LogoURL
			}
			if body.Fee != 0 {
				updates["fee"] = body.Fee
			}
			if body.Position != nil {
				updates["position"] = *body.Position
			}
			res := db.GetDb().
				Model(&models.PaymentChannel{}).
				Where(&models.PaymentChannel{ID: id}).
				Updates(updates)
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "payment channel not found"})
				return
			}
			invalidateCatalogCache()
			ctx.Status(http.StatusOK)
		}).
		DELETE("/payment-channels/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			gdb := db.GetDb()
			var channel models.PaymentChannel
			if err := gdb.Where(&models.PaymentChannel{ID: id}).First(&channel).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "payment channel not found"})
				return
			}
			var refs int64
			gdb.Model(&models.Transaction{}).
				Where(&models.Transaction{PaymentMethod: channel.Code}).
				Count(&refs)
			if refs > 0 {
				// Historical transactions reference this channel, so it is
				// deactivated instead of removed.
				if err := gdb.
					Model(&models.PaymentChannel{}).
					Where(&models.PaymentChannel{ID: id}).
					Update("is_active", false).
					Error; err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				invalidateCatalogCache()
				ctx.JSON(http.StatusConflict, gin.H{
					"error": "channel is referenced by transactions and was deactivated instead",
				})
				return
			}
			if err := gdb.Delete(&channel).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateCatalogCache()
			ctx.Status(http.StatusNoContent)
		}).
		POST("/bank-accounts", func(ctx *gin.Context) {
			var body types.CreateBankAccountRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			isActive := true
			if body.IsActive != nil {
				isActive = *body.IsActive
			}
			account := models.BankAccount{
				BankName:      body.BankName,
				BankCode:      body.BankCode,
				AccountNumber: body.AccountNumber,
				AccountName:   body.AccountName,
				IsActive:      isActive,
				LogoURL:       body.LogoURL,
				Position:      body.Position,
			}
			if err := db.GetDb().Create(&account).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": account})
		}).
		PUT("/bank-accounts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBankAccountRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			updates := map[string]any{}
			if body.BankName != "" {
				updates["bank_name"] = body.BankName
			}
			if body.AccountNumber != "" {
				updates["account_number"] = body.AccountNumber
			}
			if body.AccountName != "" {
				updates["account_name"] = body.AccountName
			}
			if body.IsActive != nil {
				updates["is_active"] = *body.IsActive
			}
			if body.LogoURL != "" {
				updates["logo_url"] = body.LogoURL
			}
			if body.Position != nil {
				updates["position"] = *body.Position
			}
			res := db.GetDb().
				Model(&models.BankAccount{}).
				Where(&models.BankAccount{ID: id}).
				Updates(updates)
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "bank account not found"})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/bank-accounts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, _ := uuid.Parse(params.ID)
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				return tx.Delete(&models.BankAccount{ID: id}).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
