package main

import (
	"academy/src/db"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func couponHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/coupons/validate", func(ctx *gin.Context) {
			var body types.ValidateCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var coupon models.Coupon
			if err := db.GetDb().Where(&models.Coupon{Code: body.Code}).First(&coupon).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{
					"valid":  false,
					"reason": types.COUPON_NOT_FOUND,
				})
				return
			}
			if rejection := utils.ResolveCoupon(&coupon, body.Scope, body.TargetID, time.Now()); rejection != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{
					"valid":  false,
					"reason": *rejection,
				})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"valid":          true,
				"discount_type":  coupon.DiscountType,
				"discount_value": coupon.DiscountValue,
			})
		})
	return g
}
