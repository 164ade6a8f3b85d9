package client

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/logging"
	"github.com/famomatic/ytstream/internal/metrics"
	"github.com/famomatic/ytstream/internal/orchestrator"
	"github.com/famomatic/ytstream/internal/playerjs"
	"github.com/famomatic/ytstream/internal/session"
	"github.com/famomatic/ytstream/internal/stream"
)

// Client resolves playable stream URLs. It is safe for concurrent use; all
// calls share one HTTP client and one visitor id.
type Client struct {
	config   Config
	log      logrus.FieldLogger
	catalog  innertube.Catalog
	visitor  *session.VisitorCache
	resolver *orchestrator.Resolver
}

// New creates a new stream client.
func New(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = defaultHTTPClient(config.ProxyURL)
	}
	log := logging.OrDiscard(config.Logger)
	catalog := config.Catalog
	if catalog == nil {
		catalog = innertube.DefaultCatalog()
	}
	catalog = innertube.WithoutFallbacks(catalog, config.SkipPersonas...)

	httpClient := config.HTTPClient
	visitorURL := config.visitorDataURL()
	visitor := session.NewVisitorCache(func(ctx context.Context) (string, error) {
		return innertube.FetchVisitorData(ctx, httpClient, visitorURL)
	})
	if config.VisitorData != "" {
		visitor.Set(config.VisitorData)
	}

	signature := config.SignatureResolver
	if signature == nil {
		fetcher := playerjs.NewFetcher(httpClient, playerjs.NewMemoryCache(playerjs.DefaultCacheTTL), playerjs.FetcherConfig{
			BaseURL: config.PlayerJSBaseURL,
		})
		signature = playerjs.NewSignatureResolver(fetcher, log)
	}

	onEvent := config.OnExtractionEvent
	if config.MetricsRegisterer != nil {
		rec := metrics.NewRecorder()
		if err := rec.Register(config.MetricsRegisterer); err != nil {
			log.WithError(err).Warn("metrics not registered")
		} else {
			onEvent = metrics.Chain(rec.Observe, onEvent)
		}
	}

	var validator orchestrator.StreamValidator
	if !config.DisableValidation {
		validator = stream.NewValidator(httpClient, mediaHeaders(), log)
	}

	resolver := orchestrator.NewResolver(orchestrator.Config{
		Catalog:   catalog,
		Player:    innertube.NewPlayerClient(httpClient, config.Locale),
		Signature: signature,
		Validator: validator,
		Visitor:   visitor,
		Network:   config.Network,
		Logger:    log,
		OnEvent:   onEvent,
	})

	return &Client{
		config:   config,
		log:      log,
		catalog:  catalog,
		visitor:  visitor,
		resolver: resolver,
	}
}

// Resolve returns playable stream URLs for req. Failures are *Error.
func (c *Client) Resolve(ctx context.Context, req Request) (*PlaybackResult, error) {
	videoID, err := ExtractVideoID(req.VideoID)
	if err != nil {
		return nil, mapError(err)
	}
	playlistID := req.PlaylistID
	if playlistID == "" {
		if id, err := ExtractPlaylistID(req.VideoID); err == nil {
			playlistID = id
		}
	}

	ctx, cancel := withDefaultTimeout(ctx, c.config.requestTimeout())
	defer cancel()

	pb, err := c.resolver.Resolve(ctx, orchestrator.Request{
		VideoID:      videoID,
		PlaylistID:   playlistID,
		AudioQuality: req.AudioQuality,
		VideoQuality: req.VideoQuality,
		Cookie:       req.Cookie,
		VisitorData:  req.VisitorDataOverride,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toPlaybackResult(pb), nil
}

// Personas lists the catalog in cascade order, primary first.
func (c *Client) Personas() []PersonaInfo {
	seq := c.catalog.Sequence()
	out := make([]PersonaInfo, 0, len(seq))
	for i, p := range seq {
		out = append(out, toPersonaInfo(p, i == 0))
	}
	return out
}

// VisitorData returns the cached visitor id, fetching it if needed.
func (c *Client) VisitorData(ctx context.Context) (string, error) {
	return c.visitor.Get(ctx)
}

// SetVisitorData replaces the shared visitor id. Empty clears it so the next
// resolution fetches a fresh one.
func (c *Client) SetVisitorData(v string) {
	c.visitor.Set(v)
}

// RefreshVisitorData fetches a new visitor id. The cached one is kept if
// the fetch fails.
func (c *Client) RefreshVisitorData(ctx context.Context) (string, error) {
	return c.visitor.Refresh(ctx)
}

// HTTPClient returns the client shared by all upstream calls.
func (c *Client) HTTPClient() *http.Client {
	return c.config.HTTPClient
}
