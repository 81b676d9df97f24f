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

const resendEndpoint = "https://api.resend.com/emails"

type ResendSender struct {
	Endpoint string
	apiKey   string
	client   *http.Client
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{
		Endpoint: resendEndpoint,
		apiKey:   apiKey,
		client:   http.DefaultClient,
	}
}

type resendAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          string             `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	CC          []string           `json:"cc,omitempty"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

func (s *ResendSender) Send(ctx context.Context, msg types.EmailMessage) error {
	body := resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		CC:      msg.CC,
	}
	if msg.Attachment != nil {
		body.Attachments = []resendAttachment{{
			Filename: msg.Attachment.Filename,
			Content:  base64.StdEncoding.EncodeToString(msg.Attachment.Data),
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
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &apperr.ProviderError{Provider: "resend", Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return &apperr.ProviderError{Provider: "resend", Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
