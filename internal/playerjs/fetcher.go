package playerjs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const (
	DefaultBaseURL   = "https://www.youtube.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultLocale    = "en_US"
	maxPageBytes     = 16 << 20
)

var ErrPlayerURLNotFound = errors.New("player js url not found")

// Fetcher locates and downloads player JS.
type Fetcher interface {
	PlayerURL(ctx context.Context, videoID string) (string, error)
	PlayerJS(ctx context.Context, playerPath string) (string, error)
}

// FetcherConfig holds the tunables of the default fetcher. Zero values
// fall back to the public site, a desktop user agent and en_US.
type FetcherConfig struct {
	BaseURL   string
	UserAgent string
	Headers   http.Header
	Locale    string
}

type httpFetcher struct {
	client *http.Client
	cache  Cache
	cfg    FetcherConfig
}

var (
	ytcfgPlayerPattern = regexp.MustCompile(`"PLAYER_JS_URL"\s*:\s*"([^"]+)"`)
	jsURLPattern       = regexp.MustCompile(`"jsUrl"\s*:\s*"([^"]+)"`)
	playerPathPattern  = regexp.MustCompile(`(/s/player/[A-Za-z0-9_-]+/[A-Za-z0-9._/-]*/base\.js)`)
	playerKeyPattern   = regexp.MustCompile(`^/s/player/([A-Za-z0-9_-]+)/(.+)$`)
	localeSegment      = regexp.MustCompile(`(?i)(player(?:_[a-z0-9]+)?\.vflset)/[a-z]{2,3}_[a-z]{2,3}/base\.js$`)
	nonAlnum           = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

func NewFetcher(client *http.Client, cache Cache, cfg FetcherConfig) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if cache == nil {
		cache = NewMemoryCache(DefaultCacheTTL)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	return &httpFetcher{client: client, cache: cache, cfg: cfg}
}

// PlayerURL scrapes the watch page for the player path, trying ytcfg,
// the player context config, then any base.js reference. The iframe API
// script is the last resort.
func (f *httpFetcher) PlayerURL(ctx context.Context, videoID string) (string, error) {
	watch := strings.TrimRight(f.cfg.BaseURL, "/") + "/watch?v=" + url.QueryEscape(videoID)
	page, err := f.get(ctx, watch)
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}
	if p, ok := findPlayerPath(page); ok {
		return p, nil
	}

	iframe, err := f.get(ctx, strings.TrimRight(f.cfg.BaseURL, "/")+"/iframe_api")
	if err != nil {
		return "", fmt.Errorf("iframe api: %w", err)
	}
	if p, ok := findPlayerPath(iframe); ok {
		return p, nil
	}
	return "", ErrPlayerURLNotFound
}

func findPlayerPath(page []byte) (string, bool) {
	for _, re := range []*regexp.Regexp{ytcfgPlayerPattern, jsURLPattern} {
		if m := re.FindSubmatch(page); len(m) > 1 {
			return strings.ReplaceAll(string(m[1]), `\/`, "/"), true
		}
	}
	if m := playerPathPattern.FindSubmatch(page); len(m) > 1 {
		return string(m[1]), true
	}
	return "", false
}

// PlayerJS downloads a player body. Locale variants of one player share a
// cache entry; the preferred locale is fetched first, then the path as given.
func (f *httpFetcher) PlayerJS(ctx context.Context, playerPath string) (string, error) {
	normalized := f.normalize(playerPath)
	key := cacheKey(normalized)
	if body, ok := f.cache.Get(key); ok {
		return body, nil
	}

	candidates := []string{normalized}
	if playerPath != normalized {
		candidates = append(candidates, playerPath)
	}
	var lastErr error
	for _, candidate := range candidates {
		body, err := f.get(ctx, f.absolute(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		f.cache.Set(key, string(body))
		return string(body), nil
	}
	return "", fmt.Errorf("player js %s: %w", playerPath, lastErr)
}

func (f *httpFetcher) absolute(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(f.cfg.BaseURL, "/") + p
}

func (f *httpFetcher) normalize(p string) string {
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}
	if localeSegment.MatchString(p) {
		return localeSegment.ReplaceAllString(p, "${1}/"+f.cfg.Locale+"/base.js")
	}
	return p
}

func cacheKey(p string) string {
	m := playerKeyPattern.FindStringSubmatch(p)
	if len(m) < 3 {
		return p
	}
	return m[1] + ":" + nonAlnum.ReplaceAllString(m[2], "_")
}

func (f *httpFetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	for k, vs := range f.cfg.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", target, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}
