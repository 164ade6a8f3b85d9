package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famomatic/ytstream/internal/innertube"
)

func TestRecorderCountsEvents(t *testing.T) {
	r := NewRecorder()
	reg := prometheus.NewRegistry()
	require.NoError(t, r.Register(reg))

	r.Observe(innertube.ExtractionEvent{Stage: "attempt", Phase: "not_playable", Client: "android_vr"})
	r.Observe(innertube.ExtractionEvent{Stage: "attempt", Phase: "accepted", Client: "web_remix"})
	r.Observe(innertube.ExtractionEvent{Stage: "attempt", Phase: "accepted", Client: "web_remix"})
	r.Observe(innertube.ExtractionEvent{Stage: "resolve", Phase: "success", Elapsed: 300 * time.Millisecond})
	r.Observe(innertube.ExtractionEvent{Stage: "validate", Phase: "rejected"})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.attempts.WithLabelValues("android_vr", "not_playable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.attempts.WithLabelValues("web_remix", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))

	assert.Error(t, r.Register(reg), "duplicate registration")
}

func TestChainSkipsNil(t *testing.T) {
	var got []string
	h := Chain(nil, func(ev innertube.ExtractionEvent) { got = append(got, ev.Stage) }, nil)
	h(innertube.ExtractionEvent{Stage: "resolve"})
	assert.Equal(t, []string{"resolve"}, got)
}

func TestHandlerExposesSeries(t *testing.T) {
	r := NewRecorder()
	reg := prometheus.NewRegistry()
	require.NoError(t, r.Register(reg))
	r.Observe(innertube.ExtractionEvent{Stage: "resolve", Phase: "failure"})

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `ytstream_resolutions_total{result="failure"} 1`))
}
