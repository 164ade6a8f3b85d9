package playerjs

import (
	"context"
	"net/url"
	"sync"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/logging"
)

const (
	// maxPlayerURLs bounds the video id to player path memo.
	maxPlayerURLs = 512
	// maxDecipherers bounds the per-player runtimes; players rotate rarely.
	maxDecipherers = 8
)

// SignatureResolver turns ciphered formats into playable URLs by running
// the current player's transforms. Every failure is reported as mo.None;
// callers treat that as "no URL for this format".
type SignatureResolver struct {
	fetcher Fetcher
	log     logrus.FieldLogger

	mu          sync.Mutex
	playerPaths map[string]string
	decipherers map[string]*Decipherer
}

func NewSignatureResolver(fetcher Fetcher, log logrus.FieldLogger) *SignatureResolver {
	return &SignatureResolver{
		fetcher:     fetcher,
		log:         logging.OrDiscard(log),
		playerPaths: make(map[string]string),
		decipherers: make(map[string]*Decipherer),
	}
}

func (r *SignatureResolver) ResolveSignatureTimestamp(ctx context.Context, videoID string) mo.Option[int] {
	d, err := r.decipherer(ctx, videoID)
	if err != nil {
		r.log.WithError(err).WithField("video_id", videoID).Debug("player js unavailable for signature timestamp")
		return mo.None[int]()
	}
	sts, err := d.SignatureTimestamp()
	if err != nil {
		r.log.WithError(err).Debug("signature timestamp not found")
		return mo.None[int]()
	}
	return mo.Some(sts)
}

// ResolveStreamURL returns the format's URL with its signature applied and
// its n parameter transformed. A failed n transform keeps the original n.
func (r *SignatureResolver) ResolveStreamURL(ctx context.Context, f innertube.Format, videoID string) mo.Option[string] {
	log := r.log.WithFields(logrus.Fields{"video_id": videoID, "itag": f.Itag})

	raw := f.URL
	var sig, sigParam string
	if raw == "" {
		cipher := f.CipherData()
		if cipher == "" {
			return mo.None[string]()
		}
		q, err := url.ParseQuery(cipher)
		if err != nil {
			log.WithError(err).Debug("malformed signature cipher")
			return mo.None[string]()
		}
		raw, sig, sigParam = q.Get("url"), q.Get("s"), q.Get("sp")
		if raw == "" || sig == "" {
			return mo.None[string]()
		}
		if sigParam == "" {
			sigParam = "signature"
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		log.WithError(err).Debug("malformed stream url")
		return mo.None[string]()
	}
	query := u.Query()
	n := query.Get("n")
	if sig == "" && n == "" {
		return mo.Some(raw)
	}

	d, err := r.decipherer(ctx, videoID)
	if err != nil {
		if sig != "" {
			log.WithError(err).Debug("player js unavailable for signature")
			return mo.None[string]()
		}
		log.WithError(err).Warn("n transform skipped")
		return mo.Some(raw)
	}

	if sig != "" {
		deciphered, err := d.DecipherSignature(sig)
		if err != nil {
			log.WithError(err).Debug("signature decipher failed")
			return mo.None[string]()
		}
		query.Set(sigParam, deciphered)
	}
	if n != "" {
		if decoded, err := d.DecipherN(n); err != nil {
			log.WithError(err).Warn("n transform failed, keeping original")
		} else {
			query.Set("n", decoded)
		}
	}
	u.RawQuery = query.Encode()
	return mo.Some(u.String())
}

// decipherer returns the Decipherer for the player serving videoID. No lock
// is held across network calls; concurrent misses may fetch twice.
func (r *SignatureResolver) decipherer(ctx context.Context, videoID string) (*Decipherer, error) {
	r.mu.Lock()
	path, ok := r.playerPaths[videoID]
	r.mu.Unlock()

	if !ok {
		p, err := r.fetcher.PlayerURL(ctx, videoID)
		if err != nil {
			return nil, err
		}
		path = p
		r.mu.Lock()
		if len(r.playerPaths) >= maxPlayerURLs {
			r.playerPaths = make(map[string]string)
		}
		r.playerPaths[videoID] = path
		r.mu.Unlock()
	}

	r.mu.Lock()
	d, ok := r.decipherers[path]
	r.mu.Unlock()
	if ok {
		return d, nil
	}

	body, err := r.fetcher.PlayerJS(ctx, path)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.decipherers[path]; ok {
		return existing, nil
	}
	d = NewDecipherer(body)
	if len(r.decipherers) >= maxDecipherers {
		r.decipherers = make(map[string]*Decipherer)
	}
	r.decipherers[path] = d
	return d, nil
}
