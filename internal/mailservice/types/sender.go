package types

import "context"

// EmailSender is implemented once per provider. Implementations build the
// provider-native request (JSON REST, multipart form, SMTP session, or a
// raw RFC-822 message) and normalize upstream rejections into
// *apperr.ProviderError.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is constructed fresh per send and never mutated afterwards.
type EmailMessage struct {
	From     string
	To       string
	CC       []string
	Subject  string
	HTMLBody string

	Attachment *Attachment
}

// Attachment is a single PDF attachment.
type Attachment struct {
	Filename string
	Data     []byte
}
