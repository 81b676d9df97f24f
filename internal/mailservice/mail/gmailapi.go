package mail

import (
	"context"
	"encoding/base64"
	"errors"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/credentials"
	"github.com/signpost-app/signpost/internal/mailservice/googleauth"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

// GmailAPISender sends a raw RFC-822 message through the Gmail API. The
// message assembly is shared between the OAuth2 and service-account
// variants; only token minting differs.
type GmailAPISender struct {
	minter *googleauth.Minter

	oauth          *credentials.OAuth2
	serviceAccount *credentials.ServiceAccount
}

func NewGmailOAuth2Sender(minter *googleauth.Minter, cred credentials.OAuth2) *GmailAPISender {
	return &GmailAPISender{minter: minter, oauth: &cred}
}

func NewGmailServiceSender(minter *googleauth.Minter, cred credentials.ServiceAccount) *GmailAPISender {
	return &GmailAPISender{minter: minter, serviceAccount: &cred}
}

func (s *GmailAPISender) Send(ctx context.Context, msg types.EmailMessage) error {
	var token string
	var err error

	switch {
	case s.oauth != nil:
		token, err = s.minter.OAuth2AccessToken(ctx, *s.oauth)
	case s.serviceAccount != nil:
		var sendAs string
		token, sendAs, err = s.minter.ServiceAccountAccessToken(ctx, *s.serviceAccount)
		// A delegated service account sends as the delegated user, not as
		// the configured sender address.
		msg.From = sendAs
	default:
		return apperr.Config("gmail api sender has no credential")
	}
	if err != nil {
		return err
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})))
	if err != nil {
		return err
	}

	raw := buildRawMessage(msg, randomBoundary())
	_, err = svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.RawURLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return &apperr.ProviderError{Provider: "gmail-api", Status: gerr.Code, Body: gerr.Body}
		}
		return &apperr.ProviderError{Provider: "gmail-api", Body: err.Error()}
	}
	return nil
}
