package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/types"
)

func testMessage() types.EmailMessage {
	return types.EmailMessage{
		From:     "noreply@corp.example",
		To:       "alice@client.example",
		CC:       []string{"bob@client.example"},
		Subject:  "Signed document",
		HTMLBody: "<p>attached</p>",
		Attachment: &types.Attachment{
			Filename: "contract_signed.pdf",
			Data:     []byte("%PDF-1.4 fake"),
		},
	}
}

func TestResendSend(t *testing.T) {
	var gotAuth string
	var gotBody resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"re_1"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re-key")
	s.Endpoint = srv.URL

	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, "Bearer re-key", gotAuth)
	assert.Equal(t, "noreply@corp.example", gotBody.From)
	assert.Equal(t, "alice@client.example", gotBody.To)
	assert.Equal(t, []string{"bob@client.example"}, gotBody.CC)
	assert.Equal(t, "<p>attached</p>", gotBody.HTML)
	require.Len(t, gotBody.Attachments, 1)
	assert.Equal(t, "contract_signed.pdf", gotBody.Attachments[0].Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")), gotBody.Attachments[0].Content)
}

func TestResendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re-key")
	s.Endpoint = srv.URL

	err := s.Send(context.Background(), testMessage())

	var provErr *apperr.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "resend", provErr.Provider)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.Status)
	assert.Contains(t, provErr.Body, "invalid from")
}

func TestMailgunSend(t *testing.T) {
	var gotPath, gotUser, gotPass string
	fields := map[string]string{}
	var gotAttachment []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for name, values := range r.MultipartForm.Value {
			fields[name] = values[0]
		}
		file, _, err := r.FormFile("attachment")
		require.NoError(t, err)
		defer file.Close()
		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotAttachment = buf[:n]
		w.Write([]byte(`{"id":"<msg@corp.example>"}`))
	}))
	defer srv.Close()

	s := NewMailgunSender("mg-key")
	s.BaseURL = srv.URL

	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, "/corp.example/messages", gotPath)
	assert.Equal(t, "api", gotUser)
	assert.Equal(t, "mg-key", gotPass)
	assert.Equal(t, "noreply@corp.example", fields["from"])
	assert.Equal(t, "alice@client.example", fields["to"])
	assert.Equal(t, "bob@client.example", fields["cc"])
	assert.Equal(t, "Signed document", fields["subject"])
	assert.Equal(t, "<p>attached</p>", fields["html"])
	assert.Equal(t, []byte("%PDF-1.4 fake"), gotAttachment)
}

func TestMailgunRequiresSenderDomain(t *testing.T) {
	s := NewMailgunSender("mg-key")

	msg := testMessage()
	msg.From = "no-at-sign"
	err := s.Send(context.Background(), msg)

	var configErr *apperr.ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestBrevoSend(t *testing.T) {
	var gotKey string
	var gotBody brevoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"messageId":"<1@corp.example>"}`))
	}))
	defer srv.Close()

	s := NewBrevoSender("brevo-key")
	s.Endpoint = srv.URL

	require.NoError(t, s.Send(context.Background(), testMessage()))

	assert.Equal(t, "brevo-key", gotKey)
	assert.Equal(t, brevoAddress{Email: "noreply@corp.example"}, gotBody.Sender)
	assert.Equal(t, []brevoAddress{{Email: "alice@client.example"}}, gotBody.To)
	assert.Equal(t, []brevoAddress{{Email: "bob@client.example"}}, gotBody.CC)
	assert.Equal(t, "<p>attached</p>", gotBody.HTMLContent)
	require.Len(t, gotBody.Attachment, 1)
	assert.Equal(t, "contract_signed.pdf", gotBody.Attachment[0].Name)
}

func TestBrevoRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	s := NewBrevoSender("bad-key")
	s.Endpoint = srv.URL

	err := s.Send(context.Background(), testMessage())

	var provErr *apperr.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "brevo", provErr.Provider)
	assert.Equal(t, http.StatusUnauthorized, provErr.Status)
}
