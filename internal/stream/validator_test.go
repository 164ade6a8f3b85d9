package stream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestValidateSuccess(t *testing.T) {
	var method, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		ua = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewValidator(srv.Client(), nil, quietLogger())
	assert.True(t, v.Validate(context.Background(), srv.URL+"/videoplayback?id=1"))
	assert.Equal(t, http.MethodHead, method)
	assert.Equal(t, defaultUserAgent, ua)
}

func TestValidateRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	v := NewValidator(srv.Client(), nil, quietLogger())
	assert.False(t, v.Validate(context.Background(), srv.URL))
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: no such host")
}

func TestValidateSwallowsTransportErrors(t *testing.T) {
	v := NewValidator(&http.Client{Transport: failingTransport{}}, nil, quietLogger())
	assert.False(t, v.Validate(context.Background(), "https://rr1---sn.googlevideo.com/videoplayback"))
	assert.False(t, v.Validate(context.Background(), "://bad-url"))
}

func TestValidateSendsConfiguredHeaders(t *testing.T) {
	var referer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
	}))
	defer srv.Close()

	h := http.Header{}
	h.Set("Referer", "https://music.youtube.com/")
	v := NewValidator(srv.Client(), h, quietLogger())
	assert.True(t, v.Validate(context.Background(), srv.URL))
	assert.Equal(t, "https://music.youtube.com/", referer)
}
