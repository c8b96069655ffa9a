package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTokenURL = "https://oauth2.googleapis.com/token"

// Token is the stored OAuth token blob
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// Valid reports whether the access token is present and unexpired
func (t *Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && (t.Expiry.IsZero() || now.Before(t.Expiry))
}

// Exchanger trades an authorization code for a token
type Exchanger struct {
	http         *resty.Client
	clientID     string
	clientSecret string
	redirectURI  string
}

// NewExchanger creates an OAuth code exchanger.
// tokenURL may be empty for the Google default.
func NewExchanger(tokenURL, clientID, clientSecret, redirectURI string) *Exchanger {
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	return &Exchanger{
		http:         resty.New().SetBaseURL(tokenURL).SetTimeout(15 * time.Second),
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Exchange trades an authorization code for a serialized token blob
func (e *Exchanger) Exchange(ctx context.Context, code string) ([]byte, error) {
	var out tokenResponse
	resp, err := e.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"code":          code,
			"client_id":     e.clientID,
			"client_secret": e.clientSecret,
			"redirect_uri":  e.redirectURI,
			"grant_type":    "authorization_code",
		}).
		SetResult(&out).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("token exchange failed: %s", resp.Status())
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token")
	}

	token := Token{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}
	if out.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return json.Marshal(&token)
}

// ParseToken deserializes a stored token blob
func ParseToken(blob []byte) (*Token, error) {
	var t Token
	if err := json.Unmarshal(blob, &t); err != nil {
		return nil, fmt.Errorf("parse token blob: %w", err)
	}
	return &t, nil
}
