package factory

import (
	"context"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/credentials"
	"github.com/signpost-app/signpost/internal/mailservice/googleauth"
	mailservice "github.com/signpost-app/signpost/internal/mailservice/mail"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

// NewEmailSender selects the dispatcher implementation for a provider tag.
// The credential variant must match the tag; a mismatch is a configuration
// error, never a silent fallback.
func NewEmailSender(ctx context.Context, provider credentials.Provider, cred credentials.Credential) (types.EmailSender, error) {
	switch provider {
	case credentials.ProviderSendGrid:
		key, ok := cred.(credentials.APIKey)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewSendGridSender(key.Key), nil

	case credentials.ProviderResend:
		key, ok := cred.(credentials.APIKey)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewResendSender(key.Key), nil

	case credentials.ProviderMailgun:
		key, ok := cred.(credentials.APIKey)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewMailgunSender(key.Key), nil

	case credentials.ProviderBrevo:
		key, ok := cred.(credentials.APIKey)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewBrevoSender(key.Key), nil

	case credentials.ProviderGmail:
		pw, ok := cred.(credentials.SMTPPassword)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewGmailSMTPSender(pw.Password), nil

	case credentials.ProviderGmailOAuth2:
		c, ok := cred.(credentials.OAuth2)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewGmailOAuth2Sender(googleauth.NewMinter(), c), nil

	case credentials.ProviderGmailService:
		c, ok := cred.(credentials.ServiceAccount)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewGmailServiceSender(googleauth.NewMinter(), c), nil

	case credentials.ProviderSES:
		keys, ok := cred.(credentials.AWSKeys)
		if !ok {
			return nil, mismatch(provider)
		}
		return mailservice.NewSESSender(ctx, keys)

	default:
		return nil, apperr.Config("unknown email provider: %s", provider)
	}
}

func mismatch(provider credentials.Provider) error {
	return apperr.Config("credential does not match provider %q", provider)
}
