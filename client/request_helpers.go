package client

import (
	"context"
	"net/http"
	"time"

	"github.com/famomatic/ytstream/internal/innertube"
)

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// mediaHeaders are sent with stream validation probes. Media hosts reject
// requests that do not look like they come from the music web player.
func mediaHeaders() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", innertube.WebRemix.UserAgent)
	h.Set("Origin", innertube.OriginYouTubeMusic)
	h.Set("Referer", innertube.RefererYouTubeMusic)
	return h
}
