package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

type BrevoSender struct {
	Endpoint string
	apiKey   string
	client   *http.Client
}

func NewBrevoSender(apiKey string) *BrevoSender {
	return &BrevoSender{
		Endpoint: brevoEndpoint,
		apiKey:   apiKey,
		client:   http.DefaultClient,
	}
}

type brevoAddress struct {
	Email string `json:"email"`
}

type brevoAttachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

type brevoRequest struct {
	Sender      brevoAddress      `json:"sender"`
	To          []brevoAddress    `json:"to"`
	CC          []brevoAddress    `json:"cc,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []brevoAttachment `json:"attachment,omitempty"`
}

func (s *BrevoSender) Send(ctx context.Context, msg types.EmailMessage) error {
	body := brevoRequest{
		Sender:      brevoAddress{Email: msg.From},
		To:          []brevoAddress{{Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
	}
	for _, cc := range msg.CC {
		body.CC = append(body.CC, brevoAddress{Email: cc})
	}
	if msg.Attachment != nil {
		body.Attachment = []brevoAttachment{{
			Content: base64.StdEncoding.EncodeToString(msg.Attachment.Data),
			Name:    msg.Attachment.Filename,
		}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &apperr.ProviderError{Provider: "brevo", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return &apperr.ProviderError{Provider: "brevo", Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
