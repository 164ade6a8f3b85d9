package cookies

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ParseNetscape reads a cookies.txt export. Each record is seven
// tab-separated fields: domain, subdomain flag, path, secure, expiry,
// name, value. The "#HttpOnly_" domain prefix used by curl is honored.
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var out []*http.Cookie
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		httpOnly := false
		if rest, ok := strings.CutPrefix(line, "#HttpOnly_"); ok {
			line, httpOnly = rest, true
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		f := strings.Split(line, "\t")
		if len(f) < 7 {
			continue
		}
		c := &http.Cookie{
			Domain:   f[0],
			Path:     f[2],
			Secure:   strings.EqualFold(f[3], "TRUE"),
			Name:     f[5],
			Value:    strings.TrimSpace(f[6]),
			HttpOnly: httpOnly,
		}
		if exp, err := strconv.ParseInt(f[4], 10, 64); err == nil && exp > 0 {
			c.Expires = time.Unix(exp, 0)
		}
		out = append(out, c)
	}
	return out, sc.Err()
}

// HeaderFor renders the cookies that apply to host as a Cookie header
// value. Expired cookies are dropped; session cookies (no expiry) are kept.
func HeaderFor(cs []*http.Cookie, host string, now time.Time) string {
	var parts []string
	for _, c := range cs {
		if !domainMatch(c.Domain, host) {
			continue
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func domainMatch(domain, host string) bool {
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// LoadFile reads a cookies.txt file from fsys and returns the Cookie
// header for host.
func LoadFile(fsys afero.Fs, path, host string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("open cookies file: %w", err)
	}
	defer f.Close()

	cs, err := ParseNetscape(f)
	if err != nil {
		return "", fmt.Errorf("parse cookies file %s: %w", path, err)
	}
	return HeaderFor(cs, host, time.Now()), nil
}
