package templates

import (
	"bytes"
	"errors"
	"html/template"

	_ "embed"
)

//go:embed signed_document.html
var signedDocumentTemplate string

//go:embed test_email.html
var testEmailTemplate string

//go:embed link_email.html
var linkEmailTemplate string

type MailData struct {
	DocumentName string
	ClientName   string
	Date         string
	Provider     string
	Link         string
}

func RenderMailTemplate(templateType string, emailData MailData) (string, error) {
	var raw string
	switch templateType {
	case "signed_document":
		raw = signedDocumentTemplate
	case "test_email":
		raw = testEmailTemplate
	case "link_email":
		raw = linkEmailTemplate
	default:
		return "", errors.New("no available template")
	}

	tmpl, err := template.New(templateType).Parse(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, emailData); err != nil {
		return "", err
	}

	return buf.String(), nil
}
