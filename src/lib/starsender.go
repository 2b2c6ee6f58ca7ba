package lib

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

const starsenderBaseURL = "https://api.starsender.online/api"

type WhatsappSender interface {
	SendWhatsapp(to string, message string) error
}

var whatsappSender WhatsappSender

func GetWhatsappSender() WhatsappSender {
	if whatsappSender != nil {
		return whatsappSender
	}
	apiKey := os.Getenv("STARSENDER_API_KEY")
	if apiKey == "" {
		log.Println("[whatsapp] STARSENDER_API_KEY not set, using dev sender")
		whatsappSender = &DevWhatsappSender{}
		return whatsappSender
	}
	whatsappSender = &StarsenderClient{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	return whatsappSender
}

func NewWhatsappSender(s WhatsappSender) WhatsappSender {
	whatsappSender = s
	return whatsappSender
}

type StarsenderClient struct {
	apiKey string
	client *http.Client
}

func (s *StarsenderClient) SendWhatsapp(to string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"messageType": "text",
		"to":          to,
		"body":        message,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, starsenderBaseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		log.Printf("[whatsapp] starsender returned %d\n", res.StatusCode)
	}
	return nil
}

type DevWhatsappSender struct{}

func (s *DevWhatsappSender) SendWhatsapp(to string, message string) error {
	log.Printf("[whatsapp] dev send to=%s message=%s\n", to, message)
	return nil
}
