// Package twitchapi contains minimal helpers to interact with Twitch Helix APIs
// for live-status queries, using an app access token.
package twitchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// MaxLoginsPerRequest is the documented Helix limit on repeated user_login
// query parameters per streams request.
const MaxLoginsPerRequest = 100

// Stream is one entry of the Helix streams response.
type Stream struct {
	UserName  string `json:"user_name"`
	Title     string `json:"title"`
	GameName  string `json:"game_name"`
	StartedAt string `json:"started_at"`
}

// HelixClient provides the minimal methods needed for live-status checks.
type HelixClient struct {
	AppTokenSource *TokenSource
	ClientID       string
	HTTPClient     *http.Client
}

func (hc *HelixClient) http() *http.Client {
	if hc.HTTPClient != nil {
		return hc.HTTPClient
	}
	return http.DefaultClient
}

// GetStreams returns the currently live streams among the given logins.
// Logins absent from the result are offline. At most MaxLoginsPerRequest
// logins may be passed; chunking larger rosters is the caller's job.
func (hc *HelixClient) GetStreams(ctx context.Context, logins []string) ([]Stream, error) {
	if len(logins) == 0 {
		return nil, fmt.Errorf("logins empty")
	}
	if len(logins) > MaxLoginsPerRequest {
		return nil, fmt.Errorf("too many logins in one request: %d > %d", len(logins), MaxLoginsPerRequest)
	}
	tok, err := hc.AppTokenSource.Get(ctx)
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.twitch.tv/helix/streams", nil)
	q := req.URL.Query()
	for _, l := range logins {
		q.Add("user_login", l)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Client-Id", hc.ClientID)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := hc.http().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitch streams request failed: %s", resp.Status)
	}
	var body struct {
		Data []Stream `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Data, nil
}
