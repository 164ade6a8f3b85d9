package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famomatic/ytstream/client"
	"github.com/famomatic/ytstream/internal/logging"
	"github.com/famomatic/ytstream/internal/types"
)

type stubResolver struct {
	cfg  client.Config
	reqs []client.Request
	res  *client.PlaybackResult
	err  error
}

func (s *stubResolver) Resolve(_ context.Context, req client.Request) (*client.PlaybackResult, error) {
	s.reqs = append(s.reqs, req)
	return s.res, s.err
}

func (s *stubResolver) Personas() []client.PersonaInfo {
	return []client.PersonaInfo{
		{ID: "ANDROID_VR_1_43_32", ClientName: "ANDROID_VR", ClientVersion: "1.43.32", Primary: true},
		{ID: "TVHTML5", ClientName: "TVHTML5", ClientVersion: "7.20250312.16.00", LoginRequired: true},
	}
}

func sampleResult() *client.PlaybackResult {
	return &client.PlaybackResult{
		VideoDetails:     &client.VideoDetails{VideoID: "jNQXAC9IVRw", Title: "Me at the zoo", Author: "jawed", LengthSeconds: 19},
		ExpiresInSeconds: 21540,
		ExpiresAt:        time.Now().Add(6 * time.Hour),
		Audio: client.Stream{
			URL:    "https://cdn.example/videoplayback?itag=251",
			Format: client.FormatInfo{Itag: 251, MimeType: "audio/webm", Bitrate: 130000, ContentLength: 2_500_000},
		},
		ClientName: "ANDROID_VR",
	}
}

func run(t *testing.T, stub *stubResolver, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	cmd := NewRootCommand(WithFs(fs), WithResolverFactory(func(cfg client.Config) Resolver {
		stub.cfg = cfg
		return stub
	}))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPersonasTable(t *testing.T) {
	out, err := run(t, &stubResolver{}, nil, "personas")
	require.NoError(t, err)
	assert.Contains(t, out, "ANDROID_VR_1_43_32")
	assert.Contains(t, out, "required")
}

func TestResolveJSON(t *testing.T) {
	stub := &stubResolver{res: sampleResult()}
	out, err := run(t, stub, nil, "resolve", "jNQXAC9IVRw", "--json", "-a", "high", "-q", "720")
	require.NoError(t, err)

	var got client.PlaybackResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 251, got.Audio.Format.Itag)

	require.Len(t, stub.reqs, 1)
	assert.Equal(t, types.AudioQualityHigh, stub.reqs[0].AudioQuality)
	require.NotNil(t, stub.reqs[0].VideoQuality)
	assert.Equal(t, types.VideoQuality720p, *stub.reqs[0].VideoQuality)
}

func TestResolveHumanOutput(t *testing.T) {
	out, err := run(t, &stubResolver{res: sampleResult()}, nil, "resolve", "jNQXAC9IVRw")
	require.NoError(t, err)
	assert.Contains(t, out, "Me at the zoo - jawed (19s)")
	assert.Contains(t, out, "2.5 MB")
	assert.Contains(t, out, "130 kbps")
	assert.Contains(t, out, "from now")
}

func TestResolveRejectsBadQuality(t *testing.T) {
	stub := &stubResolver{res: sampleResult()}
	_, err := run(t, stub, nil, "resolve", "jNQXAC9IVRw", "-q", "999")
	assert.Error(t, err)
	assert.Empty(t, stub.reqs)
}

func TestConfigFromEnvAndFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/ytstream.yaml", []byte("gl: KR\nhl: ko\nmetered: true\n"), 0o644))
	t.Setenv("YTSTREAM_VISITOR_DATA", "CgtFromEnv")

	stub := &stubResolver{}
	_, err := run(t, stub, fs, "--config", "/etc/ytstream.yaml", "personas")
	require.NoError(t, err)

	assert.Equal(t, "KR", stub.cfg.Locale.GL)
	assert.Equal(t, "ko", stub.cfg.Locale.HL)
	assert.Equal(t, "CgtFromEnv", stub.cfg.VisitorData)
	assert.Empty(t, stub.cfg.SkipPersonas)
	require.NotNil(t, stub.cfg.Network)
	assert.True(t, stub.cfg.Network.IsMetered())
}

func TestMissingExplicitConfigFails(t *testing.T) {
	_, err := run(t, &stubResolver{}, nil, "--config", "/nope.yaml", "personas")
	assert.Error(t, err)
}

func TestCookiesFileFeedsRequest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cookies.txt",
		[]byte(".youtube.com\tTRUE\t/\tTRUE\t0\tSAPISID\tabc\n"), 0o600))

	stub := &stubResolver{res: sampleResult()}
	_, err := run(t, stub, fs, "resolve", "jNQXAC9IVRw", "--cookies-file", "/cookies.txt")
	require.NoError(t, err)
	require.Len(t, stub.reqs, 1)
	assert.Equal(t, "SAPISID=abc", stub.reqs[0].Cookie)
}

func TestHandlerResolve(t *testing.T) {
	stub := &stubResolver{res: sampleResult()}
	h := newHandler(stub, "SID=x", prometheus.NewRegistry(), logging.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/resolve?videoId=jNQXAC9IVRw&audioQuality=low&videoQuality=auto&visitorDataOverride=CgtOverride", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.Len(t, stub.reqs, 1)
	assert.Equal(t, types.AudioQualityLow, stub.reqs[0].AudioQuality)
	assert.Equal(t, types.VideoQualityAuto, *stub.reqs[0].VideoQuality)
	assert.Equal(t, "SID=x", stub.reqs[0].Cookie)
	assert.Equal(t, "CgtOverride", stub.reqs[0].VisitorDataOverride)
}

func TestHandlerErrors(t *testing.T) {
	stub := &stubResolver{err: &client.Error{Code: client.CodeNotPlayable, Message: "unplayable status=LOGIN_REQUIRED"}}
	h := newHandler(stub, "", prometheus.NewRegistry(), logging.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/resolve?videoId=jNQXAC9IVRw", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, client.CodeNotPlayable, body.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/resolve", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/resolve?videoId=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "ytstream_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	rec := httptest.NewRecorder()
	newHandler(&stubResolver{}, "", reg, logging.Discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ytstream_test_total 1")
}

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv, logging.Discard()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSkipPersonaFlag(t *testing.T) {
	stub := &stubResolver{}
	_, err := run(t, stub, nil, "personas", "--skip-persona", "web,ios")
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "ios"}, stub.cfg.SkipPersonas)
}
