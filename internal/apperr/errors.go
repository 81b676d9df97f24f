// Package apperr defines the error taxonomy shared by the mail dispatch
// pipeline. All four kinds are fatal for the current operation; none of
// them is retried.
package apperr

import "fmt"

// ConfigError reports an invalid or incomplete stored configuration:
// a missing credential field, an empty receiver list, a missing sender
// address. Surfaced verbatim to the caller.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

// Config builds a *ConfigError from a format string.
func Config(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// TokenError reports a rejected OAuth2 or JWT-bearer token exchange.
// Status and Body come from the token endpoint unmodified.
type TokenError struct {
	Status int
	Body   string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token endpoint error: %d %s", e.Status, e.Body)
}

// ProviderError reports an upstream rejection from an email provider.
// Body carries the provider response verbatim; Status is 0 for transports
// that do not speak HTTP (SMTP, AWS SDK).
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s error: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s error: %d %s", e.Provider, e.Status, e.Body)
}

// NotFoundError reports a missing document or settings row.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}
