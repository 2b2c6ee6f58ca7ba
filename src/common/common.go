package common

import (
	"academy/src/db"
	"academy/src/lib"
	"academy/src/models"
	"academy/src/types"
	"fmt"
	"log"
	"time"
)

type NotifyInput struct {
	Type        types.NotificationType
	Title       string
	Message     string
	Channels    []types.NotificationChannel
	RedirectUrl string
	Metadata    *types.JSONB
}

// Notify persists a notification for a user and fans it out over the
// requested channels. Each channel is attempted independently and a channel
// failure never fails the others.
func Notify(user *models.User, in *NotifyInput) (*models.Notification, error) {
	notification, err := createNotification(user, in)
	if err != nil {
		return nil, err
	}
	deliverNotification(user, in, notification)
	return notification, nil
}

func createNotification(user *models.User, in *NotifyInput) (*models.Notification, error) {
	channels := types.JSONBArray{}
	for _, c := range in.Channels {
		channels = append(channels, string(c))
	}
	notification := models.Notification{
		UserID:      user.ID,
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		Channels:    channels,
		RedirectUrl: in.RedirectUrl,
		Metadata:    in.Metadata,
	}
	if err := db.GetDb().Create(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func deliverNotification(user *models.User, in *NotifyInput, notification *models.Notification) {
	sent := false
	for _, channel := range in.Channels {
		var err error
		switch channel {
		case types.CHANNEL_PUSHER:
			err = lib.PusherTrigger(fmt.Sprintf("user-%s", user.ID), "notification", map[string]any{
				"id":      notification.ID.String(),
				"type":    in.Type,
				"title":   in.Title,
				"message": in.Message,
			})
		case types.CHANNEL_PUSH:
			err = lib.GetPushSender().SendPush(user.ID.String(), in.Title, in.Message, map[string]any{
				"notification_id": notification.ID.String(),
			})
		case types.CHANNEL_EMAIL:
			err = lib.GetMailer().SendMail(&lib.SendMailInput{
				From:     "noreply@academy.local",
				FromName: "Academy",
				To:       []string{user.Email},
				Subject:  in.Title,
				Body:     in.Message,
				Html:     false,
			})
		case types.CHANNEL_WHATSAPP:
			to := user.Whatsapp
			if to == "" {
				to = user.Phone
			}
			if to == "" {
				err = fmt.Errorf("user %s has no whatsapp number", user.ID)
			} else {
				err = lib.GetWhatsappSender().SendWhatsapp(to, fmt.Sprintf("%s\n\n%s", in.Title, in.Message))
			}
		}
		if err != nil {
			log.Printf("Notification %s failed on channel %s: %s\n", notification.ID, channel, err.Error())
			continue
		}
		sent = true
	}

	if sent {
		now := time.Now()
		if err := db.GetDb().
			Model(&models.Notification{}).
			Where(&models.Notification{ID: notification.ID}).
			Updates(map[string]any{"is_sent": true, "sent_at": now}).
			Error; err != nil {
			log.Printf("Failed to mark notification %s as sent: %s\n", notification.ID, err.Error())
		}
	}
}

// NotifyAsync persists the notification row before returning, so callers see
// it as soon as they respond, and defers only the channel delivery.
func NotifyAsync(user *models.User, in *NotifyInput) {
	notification, err := createNotification(user, in)
	if err != nil {
		log.Printf("Failed to persist notification for user %s: %s\n", user.ID, err.Error())
		return
	}
	go deliverNotification(user, in, notification)
}
