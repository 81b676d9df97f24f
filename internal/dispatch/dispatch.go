// Package dispatch orchestrates the signed-document delivery: stamp the
// PDF, resolve the owner's provider credential, and fan the message out to
// the configured receivers.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/signpost-app/signpost/internal/apperr"
	storagetypes "github.com/signpost-app/signpost/internal/cloud_storage/types"
	"github.com/signpost-app/signpost/internal/fanout"
	"github.com/signpost-app/signpost/internal/mailservice/credentials"
	"github.com/signpost-app/signpost/internal/mailservice/factory"
	"github.com/signpost-app/signpost/internal/mailservice/templates"
	"github.com/signpost-app/signpost/internal/mailservice/types"
	"github.com/signpost-app/signpost/internal/stamper"
)

// DocumentRecord is the slice of a stored document this package consumes.
type DocumentRecord struct {
	Name              string
	FilePath          string
	SignaturePosition string
	DatePosition      string
}

// SettingsRecord is the owner's delivery configuration.
type SettingsRecord struct {
	SenderEmail     string
	ReceiverConfig  string
	EmailProvider   string
	EmailCredential string
}

type Dispatcher struct {
	storage storagetypes.ObjectStorage
	policy  *bluemonday.Policy

	// overridable in tests
	newSender func(ctx context.Context, provider credentials.Provider, cred credentials.Credential) (types.EmailSender, error)
	now       func() time.Time
}

func NewDispatcher(storage storagetypes.ObjectStorage, policy *bluemonday.Policy) *Dispatcher {
	return &Dispatcher{
		storage:   storage,
		policy:    policy,
		newSender: factory.NewEmailSender,
		now:       time.Now,
	}
}

// DispatchSignedDocument stamps the document with the captured signature
// and the current date, then delivers the result to every active receiver
// under the configured (or overridden) distribution mode.
//
// Each call is stateless and request-scoped: credentials are re-resolved,
// tokens re-minted, and nothing is retried.
func (d *Dispatcher) DispatchSignedDocument(ctx context.Context, doc DocumentRecord, settings SettingsRecord, clientName string, signatureImage []byte, modeOverride fanout.Mode) error {
	sender, receiverCfg, err := d.prepare(ctx, settings)
	if err != nil {
		return err
	}

	mode := receiverCfg.Mode
	if modeOverride != "" {
		mode = modeOverride
	}

	pdf, err := d.storage.GetObject(ctx, doc.FilePath)
	if err != nil {
		return fmt.Errorf("downloading document: %w", err)
	}

	dateStr := d.now().Format("02/01/2006")

	stamped, err := stamper.Stamp(stamper.Request{
		PDF:               pdf,
		SignaturePosition: doc.SignaturePosition,
		DatePosition:      doc.DatePosition,
		SignaturePNG:      signatureImage,
		Date:              dateStr,
	})
	if err != nil {
		return err
	}

	html, err := templates.RenderMailTemplate("signed_document", templates.MailData{
		DocumentName: d.policy.Sanitize(doc.Name),
		ClientName:   d.policy.Sanitize(clientName),
		Date:         dateStr,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Signed document: %s - %s", doc.Name, clientName)
	attachment := &types.Attachment{
		Filename: fmt.Sprintf("%s_signed_%s.pdf", doc.Name, clientName),
		Data:     stamped,
	}

	return fanout.Dispatch(receiverCfg.Entries, mode, func(to string, cc []string) error {
		return sender.Send(ctx, types.EmailMessage{
			From:       settings.SenderEmail,
			To:         to,
			CC:         cc,
			Subject:    subject,
			HTMLBody:   html,
			Attachment: attachment,
		})
	})
}

// SendTestMessage exercises the provider dispatcher without the stamper.
func (d *Dispatcher) SendTestMessage(ctx context.Context, provider credentials.Provider, credentialBlob, senderEmail, receiverEmail string) error {
	if senderEmail == "" {
		return apperr.Config("missing sender")
	}

	cred, err := credentials.Resolve(provider, credentialBlob)
	if err != nil {
		return err
	}
	sender, err := d.newSender(ctx, provider, cred)
	if err != nil {
		return err
	}

	html, err := templates.RenderMailTemplate("test_email", templates.MailData{
		Provider: string(provider),
	})
	if err != nil {
		return err
	}

	return sender.Send(ctx, types.EmailMessage{
		From:     senderEmail,
		To:       receiverEmail,
		Subject:  "Test message - document signing service",
		HTMLBody: html,
	})
}

// SendLinkMessage mails a signing link for a document to one recipient.
func (d *Dispatcher) SendLinkMessage(ctx context.Context, settings SettingsRecord, to, documentName, link string) error {
	sender, _, err := d.prepare(ctx, settings)
	if err != nil {
		return err
	}

	html, err := templates.RenderMailTemplate("link_email", templates.MailData{
		DocumentName: d.policy.Sanitize(documentName),
		Link:         link,
	})
	if err != nil {
		return err
	}

	return sender.Send(ctx, types.EmailMessage{
		From:     settings.SenderEmail,
		To:       to,
		Subject:  "Document to sign: " + documentName,
		HTMLBody: html,
	})
}

// prepare resolves the stored provider configuration into a ready sender
// plus the decoded receiver config.
func (d *Dispatcher) prepare(ctx context.Context, settings SettingsRecord) (types.EmailSender, fanout.Config, error) {
	if settings.SenderEmail == "" {
		return nil, fanout.Config{}, apperr.Config("missing sender")
	}

	provider := credentials.Provider(settings.EmailProvider)
	if provider == "" {
		provider = credentials.ProviderSendGrid
	}

	cred, err := credentials.Resolve(provider, settings.EmailCredential)
	if err != nil {
		return nil, fanout.Config{}, err
	}

	sender, err := d.newSender(ctx, provider, cred)
	if err != nil {
		return nil, fanout.Config{}, err
	}

	return sender, fanout.ParseConfig(settings.ReceiverConfig), nil
}
