package mail

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signpost-app/signpost/internal/mailservice/types"
)

func TestBuildRawMessageWithAttachment(t *testing.T) {
	msg := types.EmailMessage{
		From:     "sender@corp.example",
		To:       "alice@client.example",
		CC:       []string{"bob@client.example", "carol@client.example"},
		Subject:  "Contrat signé",
		HTMLBody: "<p>done</p>",
		Attachment: &types.Attachment{
			Filename: "contract_signed.pdf",
			Data:     []byte("%PDF-1.4 fake"),
		},
	}

	raw := string(buildRawMessage(msg, "boundary_test"))
	lines := strings.Split(raw, "\r\n")

	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "From: sender@corp.example", lines[0])
	assert.Equal(t, "To: alice@client.example", lines[1])
	assert.Equal(t, "Cc: bob@client.example, carol@client.example", lines[2])
	assert.Equal(t, "Subject: =?UTF-8?B?"+base64.StdEncoding.EncodeToString([]byte("Contrat signé"))+"?=", lines[3])
	assert.Equal(t, "MIME-Version: 1.0", lines[4])
	assert.Equal(t, `Content-Type: multipart/mixed; boundary="boundary_test"`, lines[5])

	assert.Contains(t, raw, "--boundary_test\r\nContent-Type: text/html; charset=UTF-8")
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("<p>done</p>")))
	assert.Contains(t, raw, `Content-Type: application/pdf; name="contract_signed.pdf"`)
	assert.Contains(t, raw, `Content-Disposition: attachment; filename="contract_signed.pdf"`)
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")))
	assert.True(t, strings.HasSuffix(raw, "--boundary_test--"))
}

func TestBuildRawMessageWithoutAttachment(t *testing.T) {
	msg := types.EmailMessage{
		From:     "sender@corp.example",
		To:       "alice@client.example",
		Subject:  "hello",
		HTMLBody: "<p>hi</p>",
	}

	raw := string(buildRawMessage(msg, "unused"))

	assert.NotContains(t, raw, "Cc:")
	assert.NotContains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\nContent-Transfer-Encoding: base64\r\n\r\n")
	assert.True(t, strings.HasSuffix(raw, base64.StdEncoding.EncodeToString([]byte("<p>hi</p>"))))
}

func TestRandomBoundary(t *testing.T) {
	a := randomBoundary()
	b := randomBoundary()

	assert.True(t, strings.HasPrefix(a, "boundary_"))
	assert.NotEqual(t, a, b)
}
