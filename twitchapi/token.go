package twitchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// expiryMargin is subtracted from the platform-reported token lifetime so a
// token is never presented while it could expire mid-request.
const expiryMargin = 60 * time.Second

// AuthenticationError reports a token exchange that returned no usable
// access token. Body carries the raw response payload for diagnostics.
type AuthenticationError struct {
	Status string
	Body   string
}

func (e *AuthenticationError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("twitch token exchange failed: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("twitch token response missing access_token: %s", e.Body)
}

// TokenSource fetches and caches a Twitch app access (client credentials) token.
// A single slot holds the token plus its expiry; the expiry already includes
// the safety margin, so callers reuse the token while now < expiresAt.
type TokenSource struct {
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Get returns a valid (fresh or cached) app access token.
func (ts *TokenSource) Get(ctx context.Context) (string, error) {
	ts.mu.RLock()
	if ts.token != "" && time.Now().Before(ts.expiresAt) {
		tok := ts.token
		ts.mu.RUnlock()
		return tok, nil
	}
	ts.mu.RUnlock()
	return ts.refresh(ctx)
}

// SetToken seeds the cache slot directly. Intended for tests.
func (ts *TokenSource) SetToken(token string, expiresAt time.Time) {
	ts.mu.Lock()
	ts.token = token
	ts.expiresAt = expiresAt
	ts.mu.Unlock()
}

func (ts *TokenSource) refresh(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != "" && time.Now().Before(ts.expiresAt) {
		return ts.token, nil
	}
	if ts.ClientID == "" || ts.ClientSecret == "" {
		return "", errors.New("missing client id/secret for twitch app token")
	}
	q := url.Values{}
	q.Set("client_id", ts.ClientID)
	q.Set("client_secret", ts.ClientSecret)
	q.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://id.twitch.tv/oauth2/token?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	hc := ts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &AuthenticationError{Status: resp.Status, Body: string(b)}
	}
	var at struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(b, &at); err != nil {
		return "", fmt.Errorf("decode twitch token response: %w", err)
	}
	if at.AccessToken == "" {
		return "", &AuthenticationError{Body: string(b)}
	}
	ts.token = at.AccessToken
	ts.expiresAt = time.Now().Add(time.Duration(at.ExpiresIn)*time.Second - expiryMargin)
	return ts.token, nil
}
