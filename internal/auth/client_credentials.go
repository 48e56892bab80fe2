package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/clean-energy-tools/openadr-3-client/pkg/errs"
	"github.com/clean-energy-tools/openadr-3-client/pkg/transport"
)

const grantTypeClientCredentials = "client_credentials"

// tokenErrorResponse is the RFC 6749 error body.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ClientCredentials performs the OAuth2 client-credentials grant.
type ClientCredentials struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	transport    transport.Transport
}

var _ Authenticator = (*ClientCredentials)(nil)

// NewClientCredentials creates an authenticator posting to tokenURL through t.
func NewClientCredentials(tokenURL, clientID, clientSecret, scope string, t transport.Transport) *ClientCredentials {
	return &ClientCredentials{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		transport:    t,
	}
}

// Authenticate requests a new access token.
func (c *ClientCredentials) Authenticate(ctx context.Context) (Credential, error) {
	form := url.Values{}
	form.Set("grant_type", grantTypeClientCredentials)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	if c.scope != "" {
		form.Set("scope", c.scope)
	}

	status, body, err := c.transport.Execute(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.tokenURL,
		Header: http.Header{
			"Content-Type": {"application/x-www-form-urlencoded"},
			"Accept":       {"application/json"},
		},
		Body:  []byte(form.Encode()),
		Route: "/auth/token",
	})
	if err != nil {
		return Credential{}, errs.Wrap(errs.KindAuthentication, "auth.ClientCredentials", fmt.Errorf("token request: %w", err))
	}

	if status < 200 || status >= 300 {
		return Credential{}, errs.Wrap(errs.KindAuthentication, "auth.ClientCredentials", tokenError(status, body))
	}

	var cred Credential
	if err := json.Unmarshal(body, &cred); err != nil {
		return Credential{}, errs.Wrap(errs.KindAuthentication, "auth.ClientCredentials", fmt.Errorf("decode token response: %w", err))
	}
	if cred.TokenType == "" {
		cred.TokenType = "Bearer"
	}
	if err := checkCredential(cred); err != nil {
		return Credential{}, errs.Wrap(errs.KindAuthentication, "auth.ClientCredentials", err)
	}
	return cred, nil
}

func tokenError(status int, body []byte) error {
	var te tokenErrorResponse
	if json.Unmarshal(body, &te) == nil && te.Error != "" {
		if te.ErrorDescription != "" {
			return fmt.Errorf("token endpoint returned %d: %s: %s", status, te.Error, te.ErrorDescription)
		}
		return fmt.Errorf("token endpoint returned %d: %s", status, te.Error)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) <= 256 {
		return fmt.Errorf("token endpoint returned %d: %s", status, msg)
	}
	return fmt.Errorf("token endpoint returned %d", status)
}
