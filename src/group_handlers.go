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
	"gorm.io/gorm"
)

func groupHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/groups/:id/ban", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.BanUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			groupId, _ := uuid.Parse(params.ID)
			userId, _ := uuid.Parse(body.UserID)
			adminId, _ := uuid.Parse(ctx.GetString("id"))

			gdb := db.GetDb()
			var group models.Group
			if err := gdb.Where(&models.Group{ID: groupId}).First(&group).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
				return
			}
			var user models.User
			if err := gdb.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}

			var banned models.BannedUser
			err := gdb.Transaction(func(tx *gorm.DB) error {
				banned = models.BannedUser{
					GroupID:  groupId,
					UserID:   userId,
					Reason:   body.Reason,
					BannedBy: adminId,
				}
				if err := tx.Create(&banned).Error; err != nil {
					return err
				}
				if err := tx.
					Where(&models.GroupMember{UserID: userId, GroupID: groupId}).
					Delete(&models.GroupMember{}).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Error banning user %s from group %s: %s\n", userId, groupId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			common.NotifyAsync(&user, &common.NotifyInput{
				Type:    types.NOTIFICATION_GROUP_BAN,
				Title:   "Removed from group",
				Message: fmt.Sprintf("You have been removed from the group %s.", group.Name),
				Channels: []types.NotificationChannel{
					types.CHANNEL_PUSHER,
					types.CHANNEL_EMAIL,
				},
			})
			utils.LogActivity(adminId, "group.ban", "groups", groupId.String(), &types.JSONB{
				"user_id": userId.String(),
				"reason":  body.Reason,
			})
			ctx.JSON(http.StatusOK, gin.H{"data": banned})
		}).
		DELETE("/groups/:id/ban", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UnbanUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			groupId, _ := uuid.Parse(params.ID)
			userId, _ := uuid.Parse(body.UserID)
			adminId, _ := uuid.Parse(ctx.GetString("id"))

			gdb := db.GetDb()
			var group models.Group
			if err := gdb.Where(&models.Group{ID: groupId}).First(&group).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
				return
			}
			res := gdb.
				Where(&models.BannedUser{UserID: userId, GroupID: groupId}).
				Delete(&models.BannedUser{})
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "user is not banned from this group"})
				return
			}

			var user models.User
			if err := gdb.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
				log.Printf("Could not load user %s for unban notification: %s\n", userId, err.Error())
			} else {
				common.NotifyAsync(&user, &common.NotifyInput{
					Type:    types.NOTIFICATION_GROUP_UNBAN,
					Title:   "Group access restored",
					Message: fmt.Sprintf("You may join the group %s again.", group.Name),
					Channels: []types.NotificationChannel{
						types.CHANNEL_PUSHER,
						types.CHANNEL_EMAIL,
					},
				})
			}
			utils.LogActivity(adminId, "group.unban", "groups", groupId.String(), &types.JSONB{
				"user_id": userId.String(),
			})
			ctx.Status(http.StatusOK)
		}).
		GET("/groups/:id/ban", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			groupId, _ := uuid.Parse(params.ID)
			var bans []models.BannedUser
			if err := db.GetDb().
				Where(&models.BannedUser{GroupID: groupId}).
				Preload("User").
				Order("created_at desc").
				Find(&bans).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bans})
		})
	return g
}
