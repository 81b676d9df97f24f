package mail

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

const mailgunAPIBase = "https://api.mailgun.net/v3"

// MailgunSender posts a multipart form to the Mailgun messages endpoint.
// The sending domain is derived from the sender address's domain part, not
// configured separately.
type MailgunSender struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

func NewMailgunSender(apiKey string) *MailgunSender {
	return &MailgunSender{
		BaseURL: mailgunAPIBase,
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

func (s *MailgunSender) Send(ctx context.Context, msg types.EmailMessage) error {
	_, domain, ok := strings.Cut(msg.From, "@")
	if !ok || domain == "" {
		return apperr.Config("sender address %q has no domain part", msg.From)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	form.WriteField("from", msg.From)
	form.WriteField("to", msg.To)
	if len(msg.CC) > 0 {
		form.WriteField("cc", strings.Join(msg.CC, ","))
	}
	form.WriteField("subject", msg.Subject)
	form.WriteField("html", msg.HTMLBody)

	if msg.Attachment != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="attachment"; filename="`+msg.Attachment.Filename+`"`)
		header.Set("Content-Type", "application/pdf")
		part, err := form.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := part.Write(msg.Attachment.Data); err != nil {
			return err
		}
	}

	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/"+domain+"/messages", &buf)
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", s.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return &apperr.ProviderError{Provider: "mailgun", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return &apperr.ProviderError{Provider: "mailgun", Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
