package main

import (
	"academy/src/db"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func membershipHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/memberships", func(ctx *gin.Context) {
			var memberships []models.Membership
			if err := db.GetDb().
				Where(&models.Membership{IsActive: true}).
				Preload("Courses.Course").
				Preload("Groups.Group").
				Find(&memberships).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": memberships})
		}).
		GET("/memberships/me", func(ctx *gin.Context) {
			userId, err := uuid.Parse(ctx.GetString("id"))
			if err != nil {
				ctx.Status(http.StatusUnauthorized)
				return
			}
			var userMemberships []models.UserMembership
			if err := db.GetDb().
				Where(&models.UserMembership{UserID: userId}).
				Preload("Membership").
				Order("created_at desc").
				Find(&userMemberships).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": userMemberships})
		})
	return g
}

func adminMembershipHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/memberships/sync-enrollments", func(ctx *gin.Context) {
			enrolled, skipped, err := utils.SyncMembershipEnrollments()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			adminId, _ := uuid.Parse(ctx.GetString("id"))
			utils.LogActivity(adminId, "memberships.sync_enrollments", "memberships", "", &types.JSONB{
				"enrolled": enrolled,
				"skipped":  skipped,
			})
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"enrolled": enrolled,
				"skipped":  skipped,
			}})
		})
	return g
}
