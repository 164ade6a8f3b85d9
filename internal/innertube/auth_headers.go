package innertube

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const sessionCookieName = "SAPISID"

// ParseCookie splits a raw "k=v; k=v" cookie string. Parts without a key or
// without "=" are dropped; the result is empty, never nil, on garbage input.
func ParseCookie(cookie string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(cookie, "; ") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// SignHeaders returns the request headers for one player call. Cookie and
// Authorization are only attached for personas that accept a login.
func SignHeaders(p Persona, cookie string, now time.Time) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("X-Goog-Api-Format-Version", "1")
	h.Set("X-YouTube-Client-Name", strconv.Itoa(p.ContextNameID))
	h.Set("X-YouTube-Client-Version", p.Version)
	h.Set("X-Origin", p.origin())
	h.Set("Referer", p.referer())
	if p.UserAgent != "" {
		h.Set("User-Agent", p.UserAgent)
	}

	if cookie == "" || !p.LoginSupported {
		return h
	}
	h.Set("Cookie", cookie)
	sid, ok := ParseCookie(cookie)[sessionCookieName]
	if !ok || sid == "" {
		return h
	}
	h.Set("Authorization", "SAPISIDHASH "+sidHash(now.Unix(), sid, p.origin()))
	return h
}

func sidHash(ts int64, sid string, origin string) string {
	stamp := strconv.FormatInt(ts, 10)
	sum := sha1.Sum([]byte(stamp + " " + sid + " " + origin))
	return stamp + "_" + hex.EncodeToString(sum[:])
}
