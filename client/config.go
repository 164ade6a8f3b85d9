package client

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/orchestrator"
)

// DefaultRequestTimeout bounds one Resolve call when the caller's context
// carries no deadline.
const DefaultRequestTimeout = 45 * time.Second

// Config holds configuration for the stream client. The zero value is
// usable.
type Config struct {
	// HTTPClient is shared by player queries, visitor scraping, player JS
	// fetches and stream validation. If nil, one is built from ProxyURL.
	HTTPClient *http.Client

	// ProxyURL is ignored when HTTPClient is set.
	ProxyURL string

	// RequestTimeout applies when the caller's context has no deadline.
	// Zero means DefaultRequestTimeout; negative disables it.
	RequestTimeout time.Duration

	// Locale is sent as gl/hl in every player query. Defaults to US/en.
	Locale innertube.Locale

	// VisitorData seeds the shared visitor id instead of scraping it.
	VisitorData string

	// VisitorDataURL overrides the service worker data endpoint.
	VisitorDataURL string

	// Catalog overrides the persona cascade.
	Catalog innertube.Catalog

	// SkipPersonas drops fallbacks by catalog ID or client name.
	SkipPersonas []string

	// SignatureResolver overrides the player JS based resolver.
	SignatureResolver orchestrator.SignatureResolver

	// PlayerJSBaseURL overrides the host the watch page and player JS are
	// fetched from.
	PlayerJSBaseURL string

	// Network reports metered connections. Defaults to unmetered.
	Network orchestrator.NetworkOracle

	// DisableValidation accepts the first persona that yields streams
	// without probing them.
	DisableValidation bool

	// Logger defaults to a discarding logger.
	Logger logrus.FieldLogger

	// MetricsRegisterer, when set, receives the resolver's collectors.
	MetricsRegisterer prometheus.Registerer

	// OnExtractionEvent observes every resolver event.
	OnExtractionEvent innertube.ExtractionEventHandler
}

func (c Config) requestTimeout() time.Duration {
	if c.RequestTimeout == 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

func (c Config) visitorDataURL() string {
	if c.VisitorDataURL == "" {
		return innertube.VisitorDataURL
	}
	return c.VisitorDataURL
}
