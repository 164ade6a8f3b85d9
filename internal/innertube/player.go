package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PlayerClient issues player queries, one HTTP round trip per call.
type PlayerClient struct {
	httpClient *http.Client
	locale     Locale
	now        func() time.Time
}

// NewPlayerClient wraps an HTTP client. A zero Locale falls back to DefaultLocale.
func NewPlayerClient(httpClient *http.Client, locale Locale) *PlayerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PlayerClient{
		httpClient: httpClient,
		locale:     locale,
		now:        time.Now,
	}
}

// Player queries the player endpoint as persona p and decodes the response.
// Non-OK playability is not an error here; callers decide what it means.
func (c *PlayerClient) Player(ctx context.Context, p Persona, params PlayerParams) (*PlayerResponse, error) {
	if params.Locale == (Locale{}) {
		params.Locale = c.locale
	}
	body, err := json.Marshal(NewPlayerRequest(p, params))
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint()+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header = SignHeaders(p, params.Cookie, c.now())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{Client: p.Name, StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var playerResp PlayerResponse
	if err := json.Unmarshal(respBody, &playerResp); err != nil {
		return nil, &DecodeError{Client: p.Name, Err: err}
	}
	if playerResp.PlayabilityStatus == nil {
		return nil, &DecodeError{Client: p.Name, Err: ErrMissingPlayability}
	}
	return &playerResp, nil
}
