package innertube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// VisitorDataURL serves the service-worker bootstrap data that embeds an
// anonymous visitor id.
const VisitorDataURL = "https://music.youtube.com/sw.js_data"

const swDataGuardLen = len(")]}'\n")

var ErrVisitorDataNotFound = errors.New("visitor data not found")

// FetchVisitorData downloads sw.js_data and extracts the visitor id.
func FetchVisitorData(ctx context.Context, httpClient *http.Client, endpoint string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = VisitorDataURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Origin", OriginYouTubeMusic)
	req.Header.Set("Referer", RefererYouTubeMusic)
	req.Header.Set("User-Agent", WebRemix.UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch visitor data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPStatusError{Client: "sw.js_data", StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return ParseVisitorData(body)
}

// ParseVisitorData reads the visitor id from a raw sw.js_data body: the
// anti-JSON guard is dropped, then the first "Cgt"/"Cgs" string of [0][2]
// is returned.
func ParseVisitorData(body []byte) (string, error) {
	if len(body) <= swDataGuardLen {
		return "", ErrVisitorDataNotFound
	}
	var root []json.RawMessage
	if err := json.Unmarshal(body[swDataGuardLen:], &root); err != nil {
		return "", fmt.Errorf("decode sw.js_data: %w", err)
	}
	if len(root) == 0 {
		return "", ErrVisitorDataNotFound
	}
	var first []json.RawMessage
	if err := json.Unmarshal(root[0], &first); err != nil || len(first) < 3 {
		return "", ErrVisitorDataNotFound
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(first[2], &entries); err != nil {
		return "", ErrVisitorDataNotFound
	}
	for _, raw := range entries {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			continue
		}
		if strings.HasPrefix(s, "Cgt") || strings.HasPrefix(s, "Cgs") {
			return s, nil
		}
	}
	return "", ErrVisitorDataNotFound
}
