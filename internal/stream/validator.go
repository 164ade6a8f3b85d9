package stream

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Validator checks that a resolved stream URL answers before it is handed
// out. Its verdict is advisory: every failure is reported as false.
type Validator struct {
	client  *http.Client
	headers http.Header
	log     logrus.FieldLogger
}

// NewValidator returns a Validator. Extra headers are sent with every probe.
func NewValidator(client *http.Client, headers http.Header, log logrus.FieldLogger) *Validator {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Validator{client: client, headers: headers.Clone(), log: log}
}

// Validate issues one HEAD request and reports a 2xx answer.
func (v *Validator) Validate(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		v.log.WithError(err).Debug("stream validation: bad request")
		return false
	}
	for k, vals := range v.headers {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.WithError(err).Debug("stream validation failed")
		return false
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	v.log.WithFields(logrus.Fields{"status": resp.StatusCode, "ok": ok}).Debug("stream validation result")
	return ok
}
