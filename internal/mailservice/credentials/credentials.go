// Package credentials parses stored credential blobs into typed,
// provider-specific credential values. The blob is untyped JSON (or a bare
// key string) at the system boundary; past this package only typed
// variants circulate.
package credentials

import (
	"encoding/json"
	"strings"

	"github.com/signpost-app/signpost/internal/apperr"
)

// Provider tags the configured email backend. The tag decides both the
// credential shape and the dispatcher implementation.
type Provider string

const (
	ProviderSendGrid     Provider = "sendgrid"
	ProviderResend       Provider = "resend"
	ProviderMailgun      Provider = "mailgun"
	ProviderBrevo        Provider = "brevo"
	ProviderGmail        Provider = "gmail"
	ProviderGmailOAuth2  Provider = "gmail-api-oauth2"
	ProviderGmailService Provider = "gmail-api-service"
	ProviderSES          Provider = "ses"
)

// Credential is the tagged union of the credential shapes. Exactly one
// variant is valid for a given provider tag; a mismatch is a configuration
// error, never a silent fallback.
type Credential interface {
	credential()
}

// APIKey is a static key: SendGrid, Resend, Mailgun, Brevo.
type APIKey struct {
	Key string
}

// SMTPPassword is a Gmail app password paired with the sender address.
type SMTPPassword struct {
	Password string
}

// OAuth2 holds long-lived personal-Gmail credentials exchanged per send
// via the refresh-token grant.
type OAuth2 struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RefreshToken string `json:"refreshToken"`
}

// ServiceAccount holds a Workspace service-account key, optionally acting
// as DelegatedEmail through domain-wide delegation.
type ServiceAccount struct {
	ServiceAccountJSON string `json:"serviceAccountJson"`
	DelegatedEmail     string `json:"delegatedEmail"`
}

// AWSKeys is the static key pair for the SES provider.
type AWSKeys struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Region          string `json:"region"`
}

func (APIKey) credential()         {}
func (SMTPPassword) credential()   {}
func (OAuth2) credential()         {}
func (ServiceAccount) credential() {}
func (AWSKeys) credential()        {}

// Resolve decodes a stored credential blob according to the provider tag.
// Multi-field providers require every declared field to be non-blank.
func Resolve(provider Provider, blob string) (Credential, error) {
	switch provider {
	case ProviderSendGrid, ProviderResend, ProviderMailgun, ProviderBrevo:
		if strings.TrimSpace(blob) == "" {
			return nil, apperr.Config("missing field: apiKey")
		}
		return APIKey{Key: blob}, nil

	case ProviderGmail:
		if strings.TrimSpace(blob) == "" {
			return nil, apperr.Config("missing field: appPassword")
		}
		return SMTPPassword{Password: blob}, nil

	case ProviderGmailOAuth2:
		var cred OAuth2
		if err := json.Unmarshal([]byte(blob), &cred); err != nil {
			return nil, apperr.Config("invalid %s credential: %v", provider, err)
		}
		if err := requireFields([]field{
			{"clientId", cred.ClientID},
			{"clientSecret", cred.ClientSecret},
			{"refreshToken", cred.RefreshToken},
		}); err != nil {
			return nil, err
		}
		return cred, nil

	case ProviderGmailService:
		var cred ServiceAccount
		if err := json.Unmarshal([]byte(blob), &cred); err != nil {
			return nil, apperr.Config("invalid %s credential: %v", provider, err)
		}
		if strings.TrimSpace(cred.ServiceAccountJSON) == "" {
			return nil, apperr.Config("missing field: serviceAccountJson")
		}
		// delegatedEmail is optional: without it the service account sends
		// as itself.
		return cred, nil

	case ProviderSES:
		var cred AWSKeys
		if err := json.Unmarshal([]byte(blob), &cred); err != nil {
			return nil, apperr.Config("invalid %s credential: %v", provider, err)
		}
		if err := requireFields([]field{
			{"accessKeyId", cred.AccessKeyID},
			{"secretAccessKey", cred.SecretAccessKey},
			{"region", cred.Region},
		}); err != nil {
			return nil, err
		}
		return cred, nil

	default:
		return nil, apperr.Config("unknown email provider: %s", provider)
	}
}

type field struct {
	name  string
	value string
}

func requireFields(fields []field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperr.Config("missing field: %s", f.name)
		}
	}
	return nil
}
