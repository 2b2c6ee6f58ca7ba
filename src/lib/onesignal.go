package lib

import (
	"context"
	"log"
	"os"

	onesignal "github.com/OneSignal/onesignal-go-api"
)

type PushSender interface {
	SendPush(externalUserID string, title string, message string, data map[string]any) error
}

var pushSender PushSender

func GetPushSender() PushSender {
	if pushSender != nil {
		return pushSender
	}
	appID := os.Getenv("ONESIGNAL_APP_ID")
	apiKey := os.Getenv("ONESIGNAL_API_KEY")
	if appID == "" || apiKey == "" {
		log.Println("[push] OneSignal not configured, using dev sender")
		pushSender = &DevPushSender{}
		return pushSender
	}
	pushSender = &OneSignalClient{
		appID:  appID,
		apiKey: apiKey,
		client: onesignal.NewAPIClient(onesignal.NewConfiguration()),
	}
	return pushSender
}

func NewPushSender(s PushSender) PushSender {
	pushSender = s
	return pushSender
}

type OneSignalClient struct {
	appID  string
	apiKey string
	client *onesignal.APIClient
}

func (o *OneSignalClient) SendPush(externalUserID string, title string, message string, data map[string]any) error {
	notification := *onesignal.NewNotification(o.appID)
	notification.SetIncludeExternalUserIds([]string{externalUserID})
	notification.SetHeadings(onesignal.StringMap{En: onesignal.PtrString(title)})
	notification.SetContents(onesignal.StringMap{En: onesignal.PtrString(message)})
	if data != nil {
		notification.SetData(data)
	}
	authCtx := context.WithValue(context.Background(), onesignal.AppAuth, o.apiKey)
	_, res, err := o.client.DefaultApi.
		CreateNotification(authCtx).
		Notification(notification).
		Execute()
	if err != nil {
		return err
	}
	if res != nil && res.StatusCode >= 400 {
		log.Printf("[push] onesignal returned %d\n", res.StatusCode)
	}
	return nil
}

type DevPushSender struct{}

func (s *DevPushSender) SendPush(externalUserID string, title string, message string, data map[string]any) error {
	log.Printf("[push] dev send user=%s title=%s\n", externalUserID, title)
	return nil
}
