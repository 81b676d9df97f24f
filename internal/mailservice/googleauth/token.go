// Package googleauth mints short-lived Gmail access tokens. Two flows:
// the OAuth2 refresh-token grant for personal accounts and the RS256
// JWT-bearer grant for Workspace service accounts. Neither flow caches
// anything; every send performs a fresh exchange.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/signpost-app/signpost/internal/apperr"
	"github.com/signpost-app/signpost/internal/mailservice/credentials"
)

const (
	// GoogleTokenURL is the production token endpoint; tests point
	// Minter.TokenURL at a local server.
	GoogleTokenURL = "https://oauth2.googleapis.com/token"

	gmailSendScope = "https://www.googleapis.com/auth/gmail.send"
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// Minter exchanges long-lived credentials for bearer tokens.
type Minter struct {
	TokenURL string
	Client   *http.Client
}

func NewMinter() *Minter {
	return &Minter{
		TokenURL: GoogleTokenURL,
		Client:   http.DefaultClient,
	}
}

// OAuth2AccessToken runs the refresh-token grant and returns the access
// token for a single send.
func (m *Minter) OAuth2AccessToken(ctx context.Context, cred credentials.OAuth2) (string, error) {
	conf := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  m.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.Client)
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return "", &apperr.TokenError{Status: rerr.Response.StatusCode, Body: string(rerr.Body)}
		}
		return "", err
	}

	return tok.AccessToken, nil
}

type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// ServiceAccountAccessToken runs the JWT-bearer grant. It returns the
// access token and the address the message must be sent as: the delegated
// user when domain-wide delegation is configured, otherwise the service
// account itself.
func (m *Minter) ServiceAccountAccessToken(ctx context.Context, cred credentials.ServiceAccount) (token, sendAs string, err error) {
	var sa serviceAccountKey
	if err := json.Unmarshal([]byte(cred.ServiceAccountJSON), &sa); err != nil {
		return "", "", apperr.Config("invalid service account key: %v", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return "", "", apperr.Config("invalid service account key: missing client_email or private_key")
	}

	assertion, err := m.signAssertion(sa, cred.DelegatedEmail, time.Now())
	if err != nil {
		return "", "", err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode/100 != 2 {
		return "", "", &apperr.TokenError{Status: resp.StatusCode, Body: string(body)}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", "", err
	}

	sendAs = sa.ClientEmail
	if cred.DelegatedEmail != "" {
		sendAs = cred.DelegatedEmail
	}
	return tokenResp.AccessToken, sendAs, nil
}

// signAssertion builds the RS256 JWT for the bearer grant. Domain-wide
// delegation is expressed purely through the sub claim.
func (m *Minter) signAssertion(sa serviceAccountKey, delegatedEmail string, now time.Time) (string, error) {
	sub := sa.ClientEmail
	if delegatedEmail != "" {
		sub = delegatedEmail
	}

	claims := jwt.MapClaims{
		"iss":   sa.ClientEmail,
		"sub":   sub,
		"scope": gmailSendScope,
		"aud":   m.TokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	// Stored keys often come with escaped newlines.
	pemKey := strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return "", apperr.Config("invalid service account private key: %v", err)
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}
