package mail

import (
	"context"
	"encoding/base64"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

type SendGridSender struct {
	client *sendgrid.Client
}

func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg types.EmailMessage) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail("Signpost", msg.From))
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", msg.To))
	for _, cc := range msg.CC {
		p.AddCCs(sgmail.NewEmail("", cc))
	}
	m.AddPersonalizations(p)

	m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))

	if msg.Attachment != nil {
		a := sgmail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment.Data))
		a.SetFilename(msg.Attachment.Filename)
		a.SetType("application/pdf")
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return &apperr.ProviderError{Provider: "sendgrid", Body: err.Error()}
	}
	if resp.StatusCode >= 300 {
		return &apperr.ProviderError{Provider: "sendgrid", Status: resp.StatusCode, Body: resp.Body}
	}
	return nil
}
