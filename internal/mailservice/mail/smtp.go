package mail

import (
	"context"
	"net/smtp"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

// GmailSMTPSender drives a plain SMTP session against smtp.gmail.com:587,
// authenticating with the sender address and an app password.
type GmailSMTPSender struct {
	Host     string
	Port     string
	password string
}

func NewGmailSMTPSender(appPassword string) *GmailSMTPSender {
	return &GmailSMTPSender{
		Host:     "smtp.gmail.com",
		Port:     "587",
		password: appPassword,
	}
}

func (s *GmailSMTPSender) Send(ctx context.Context, msg types.EmailMessage) error {
	raw := buildRawMessage(msg, randomBoundary())

	auth := smtp.PlainAuth("", msg.From, s.password, s.Host)
	recipients := append([]string{msg.To}, msg.CC...)

	if err := smtp.SendMail(s.Host+":"+s.Port, auth, msg.From, recipients, raw); err != nil {
		return &apperr.ProviderError{Provider: "gmail", Body: err.Error()}
	}
	return nil
}
