package lib

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const mailketingBaseURL = "https://apps.mailketing.co.id/api/v1"

type Mailer interface {
	SendMail(in *SendMailInput) error
}

var mailer Mailer

func GetMailer() Mailer {
	if mailer != nil {
		return mailer
	}
	if os.Getenv("MAILKETING_API_TOKEN") != "" {
		mailer = &MailketingMailer{
			token:  os.Getenv("MAILKETING_API_TOKEN"),
			client: &http.Client{Timeout: 30 * time.Second},
		}
		return mailer
	}
	if os.Getenv("SMTP_HOST") != "" {
		mailer = &SMTPMailer{}
		return mailer
	}
	log.Println("[mail] no mail provider configured, using dev mailer")
	mailer = &DevMailer{}
	return mailer
}

func NewMailer(m Mailer) Mailer {
	mailer = m
	return mailer
}

type MailketingMailer struct {
	token  string
	client *http.Client
}

func (m *MailketingMailer) SendMail(in *SendMailInput) error {
	form := url.Values{}
	form.Set("api_token", m.token)
	form.Set("from_name", in.FromName)
	form.Set("from_email", in.From)
	form.Set("recipient", strings.Join(in.To, ","))
	form.Set("subject", in.Subject)
	form.Set("content", in.Body)
	res, err := m.client.PostForm(mailketingBaseURL+"/send", form)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		log.Printf("[mail] mailketing returned %d\n", res.StatusCode)
	}
	return nil
}

type SMTPMailer struct{}

func (m *SMTPMailer) SendMail(in *SendMailInput) error {
	return SendMailSMTP(in)
}

type DevMailer struct{}

func (m *DevMailer) SendMail(in *SendMailInput) error {
	log.Printf("[mail] dev send to=%v subject=%s\n", in.To, in.Subject)
	return nil
}
