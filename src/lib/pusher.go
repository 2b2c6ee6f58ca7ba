package lib

import (
	"errors"
	"os"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	if os.Getenv("PUSHER_APP_ID") == "" {
		return nil
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
	}
	return pusherClient
}

func NewPusherClient(c *pusher.Client) *pusher.Client {
	pusherClient = c
	return pusherClient
}

// PusherTrigger publishes an event on a channel. Returns an error when the
// client is unconfigured so callers can log and move on.
func PusherTrigger(channel string, event string, data any) error {
	client := GetPusherClient()
	if client == nil {
		return errors.New("pusher is not configured")
	}
	return client.Trigger(channel, event, data)
}
