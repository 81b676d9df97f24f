package mail

import (
	"encoding/base64"
	"strings"

	"github.com/signpost-app/signpost/internal/mailservice/types"
	"github.com/signpost-app/signpost/pkg"
)

// buildRawMessage assembles the full RFC-822 message used by the Gmail
// API, SMTP and SES raw sends. With an attachment the message is
// multipart/mixed; without one it is a plain base64 HTML body. The layout
// is exact: Gmail validates the raw message strictly.
func buildRawMessage(msg types.EmailMessage, boundary string) []byte {
	headers := []string{
		"From: " + msg.From,
		"To: " + msg.To,
	}
	if len(msg.CC) > 0 {
		headers = append(headers, "Cc: "+strings.Join(msg.CC, ", "))
	}
	headers = append(headers,
		"Subject: "+encodeSubject(msg.Subject),
		"MIME-Version: 1.0",
	)

	htmlB64 := base64.StdEncoding.EncodeToString([]byte(msg.HTMLBody))

	if msg.Attachment == nil {
		lines := append(headers,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: base64",
			"",
			htmlB64,
		)
		return []byte(strings.Join(lines, "\r\n"))
	}

	attB64 := base64.StdEncoding.EncodeToString(msg.Attachment.Data)
	lines := append(headers,
		`Content-Type: multipart/mixed; boundary="`+boundary+`"`,
		"",
		"--"+boundary,
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: base64",
		"",
		htmlB64,
		"",
		"--"+boundary,
		`Content-Type: application/pdf; name="`+msg.Attachment.Filename+`"`,
		"Content-Transfer-Encoding: base64",
		`Content-Disposition: attachment; filename="`+msg.Attachment.Filename+`"`,
		"",
		attB64,
		"",
		"--"+boundary+"--",
	)
	return []byte(strings.Join(lines, "\r\n"))
}

// encodeSubject wraps the subject in an encoded word so non-Latin text
// survives transport.
func encodeSubject(subject string) string {
	return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(subject)) + "?="
}

func randomBoundary() string {
	token, err := pkg.RandToken(8)
	if err != nil {
		// crypto/rand never fails on supported platforms
		token = "0000000000000000"
	}
	return "boundary_" + token
}
