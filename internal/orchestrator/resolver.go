package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/famomatic/ytstream/internal/formats"
	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/logging"
	"github.com/famomatic/ytstream/internal/types"
)

// PlayerQuerier performs one player query as one persona.
type PlayerQuerier interface {
	Player(ctx context.Context, p innertube.Persona, params innertube.PlayerParams) (*innertube.PlayerResponse, error)
}

// SignatureResolver recovers signature timestamps and playable URLs.
// Implementations report every failure as mo.None.
type SignatureResolver interface {
	ResolveSignatureTimestamp(ctx context.Context, videoID string) mo.Option[int]
	ResolveStreamURL(ctx context.Context, format innertube.Format, videoID string) mo.Option[string]
}

type StreamValidator interface {
	Validate(ctx context.Context, url string) bool
}

// VisitorSource supplies the shared visitor id.
type VisitorSource interface {
	Get(ctx context.Context) (string, error)
}

// Attempt outcomes reported through ExtractionEvent.Phase for Stage "attempt".
const (
	OutcomeAccepted         = "accepted"
	OutcomeSkippedLogin     = "skipped_login"
	OutcomeQueryFailed      = "query_failed"
	OutcomeNotPlayable      = "not_playable"
	OutcomeNoExpiry         = "no_expiry"
	OutcomeNoAudio          = "no_audio"
	OutcomeAudioUnresolved  = "audio_unresolved"
	OutcomeNoVideo          = "no_video"
	OutcomeVideoUnresolved  = "video_unresolved"
	OutcomeValidationFailed = "validation_failed"
)

type Config struct {
	Catalog   innertube.Catalog
	Player    PlayerQuerier
	Signature SignatureResolver
	// Validator nil accepts every candidate without probing.
	Validator StreamValidator
	Visitor   VisitorSource
	Network   types.NetworkOracle
	Logger    logrus.FieldLogger
	OnEvent   innertube.ExtractionEventHandler
	Now       func() time.Time
}

// Resolver drives the persona cascade. It is safe for concurrent use; one
// Resolve call never runs two personas at once.
type Resolver struct {
	catalog   innertube.Catalog
	player    PlayerQuerier
	signature SignatureResolver
	validator StreamValidator
	visitor   VisitorSource
	network   types.NetworkOracle
	log       logrus.FieldLogger
	onEvent   innertube.ExtractionEventHandler
	now       func() time.Time
}

func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		catalog:   cfg.Catalog,
		player:    cfg.Player,
		signature: cfg.Signature,
		validator: cfg.Validator,
		visitor:   cfg.Visitor,
		network:   cfg.Network,
		log:       logging.OrDiscard(cfg.Logger),
		onEvent:   cfg.OnEvent,
		now:       cfg.Now,
	}
	if r.catalog == nil {
		r.catalog = innertube.DefaultCatalog()
	}
	if r.signature == nil {
		r.signature = DirectURLResolver{}
	}
	if r.network == nil {
		r.network = types.StaticNetwork(false)
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

type Request struct {
	VideoID      string
	PlaylistID   string
	AudioQuality types.AudioQuality
	// VideoQuality nil requests audio only.
	VideoQuality *types.VideoQuality
	Cookie       string
	// VisitorData overrides the shared visitor id for this call.
	VisitorData string
}

type Stream struct {
	Format innertube.Format
	URL    string
}

// Playback is the result of a successful resolution.
type Playback struct {
	AudioConfig      *innertube.AudioConfig
	VideoDetails     *innertube.VideoDetails
	PlaybackTracking *innertube.PlaybackTracking
	ExpiresInSeconds int64
	ExpiresAt        time.Time
	Audio            Stream
	Video            *Stream
	ClientName       string
	ClientID         string
}

// attempt is rebuilt for every persona so nothing selected for a rejected
// persona leaks into the next one.
type attempt struct {
	persona  innertube.Persona
	response *innertube.PlayerResponse
	expires  *int64
	audio    *Stream
	video    *Stream
}

// metadata is captured first-wins across attempts.
type metadata struct {
	audioConfig *innertube.AudioConfig
	details     *innertube.VideoDetails
	tracking    *innertube.PlaybackTracking
}

func (m *metadata) capture(resp *innertube.PlayerResponse) {
	if m.audioConfig == nil && resp.PlayerConfig != nil {
		m.audioConfig = resp.PlayerConfig.AudioConfig
	}
	if m.details == nil {
		m.details = resp.VideoDetails
	}
	if m.tracking == nil {
		m.tracking = resp.PlaybackTracking
	}
}

// Resolve runs the cascade for one video.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Playback, error) {
	started := r.now()
	pb, err := r.resolve(ctx, req)

	ev := innertube.ExtractionEvent{Stage: "resolve", Elapsed: r.now().Sub(started)}
	if err != nil {
		ev.Phase = "failure"
		ev.Detail = string(KindOf(err))
		if ev.Detail == "" {
			ev.Detail = "error"
		}
	} else {
		ev.Phase = "success"
		ev.Client = pb.ClientID
	}
	r.emit(ev)
	return pb, err
}

func (r *Resolver) resolve(ctx context.Context, req Request) (*Playback, error) {
	log := r.log.WithField("video_id", req.VideoID)
	if req.AudioQuality == "" {
		req.AudioQuality = types.AudioQualityAuto
	}

	visitorData := req.VisitorData
	if visitorData == "" && r.visitor != nil {
		v, err := r.visitor.Get(ctx)
		if err != nil {
			log.WithError(err).Debug("visitor data unavailable")
		}
		visitorData = v
	}

	sts := r.signature.ResolveSignatureTimestamp(ctx, req.VideoID)
	if v, ok := sts.Get(); ok {
		log.WithField("signature_timestamp", v).Debug("signature timestamp resolved")
	}

	wantsVideo := req.VideoQuality != nil
	metered := r.network.IsMetered()
	params := innertube.PlayerParams{
		VideoID:            req.VideoID,
		PlaylistID:         req.PlaylistID,
		Cookie:             req.Cookie,
		VisitorData:        visitorData,
		SignatureTimestamp: sts,
	}

	var (
		meta     metadata
		last     *innertube.PlayerResponse
		cur      attempt
		sequence = r.catalog.Sequence()
	)
	for i, persona := range sequence {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur = attempt{persona: persona}
		primary := i == 0
		final := i == len(sequence)-1
		plog := log.WithField("client", persona.ID)

		if !primary && persona.LoginRequired && req.Cookie == "" {
			plog.Debug("skipping login-required client without cookie")
			r.attemptEvent(persona, OutcomeSkippedLogin, "")
			continue
		}

		resp, err := r.player.Player(ctx, persona, params)
		if err != nil {
			if primary {
				r.attemptEvent(persona, OutcomeQueryFailed, err.Error())
				return nil, &ResolveError{Kind: KindQueryFailed, Client: persona.Name, Err: err}
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			plog.WithError(err).Warn("player query failed")
			r.attemptEvent(persona, OutcomeQueryFailed, err.Error())
			last = nil
			continue
		}
		last = resp
		cur.response = resp
		meta.capture(resp)

		if !resp.PlayabilityStatus.IsOK() {
			plog.WithFields(logrus.Fields{
				"status": resp.PlayabilityStatus.Status,
				"reason": resp.PlayabilityStatus.Reason,
			}).Debug("player response not playable")
			r.attemptEvent(persona, OutcomeNotPlayable, resp.PlayabilityStatus.Status)
			continue
		}

		if resp.StreamingData == nil || resp.StreamingData.ExpiresInSeconds == nil {
			plog.Debug("missing stream expire time")
			r.attemptEvent(persona, OutcomeNoExpiry, "")
			continue
		}
		expires := resp.StreamingData.ExpiresInSeconds.Int64()
		cur.expires = &expires

		outcome, ok := r.selectStreams(ctx, &cur, req, wantsVideo, metered)
		if !ok {
			plog.WithField("outcome", outcome).Debug("no usable stream")
			r.attemptEvent(persona, outcome, "")
			continue
		}

		if final {
			plog.Debug("accepting last client without validation")
			r.attemptEvent(persona, OutcomeAccepted, "unvalidated")
			break
		}
		if r.validate(ctx, cur.audio.URL) {
			plog.Debug("stream validated")
			r.attemptEvent(persona, OutcomeAccepted, "")
			break
		}
		plog.Debug("stream validation failed")
		r.attemptEvent(persona, OutcomeValidationFailed, "")
	}

	switch {
	case last == nil:
		return nil, &ResolveError{Kind: KindBadPlayerResponse}
	case !last.PlayabilityStatus.IsOK():
		return nil, &ResolveError{
			Kind:   KindNotPlayable,
			Status: last.PlayabilityStatus.Status,
			Reason: last.PlayabilityStatus.Reason,
		}
	case cur.expires == nil:
		return nil, &ResolveError{Kind: KindMissingExpiry, Client: cur.persona.Name}
	case cur.audio == nil:
		return nil, &ResolveError{Kind: KindNoAudioStream, Client: cur.persona.Name}
	case wantsVideo && cur.video == nil:
		return nil, &ResolveError{Kind: KindNoVideoStream, Client: cur.persona.Name}
	}

	log.WithField("client", cur.persona.ID).Info("stream resolved")
	return &Playback{
		AudioConfig:      meta.audioConfig,
		VideoDetails:     meta.details,
		PlaybackTracking: meta.tracking,
		ExpiresInSeconds: *cur.expires,
		ExpiresAt:        r.now().Add(time.Duration(*cur.expires) * time.Second),
		Audio:            *cur.audio,
		Video:            cur.video,
		ClientName:       cur.persona.DisplayName(),
		ClientID:         cur.persona.ID,
	}, nil
}

// selectStreams fills the attempt's audio and, when wanted, video stream.
// On failure it returns the attempt outcome to report.
func (r *Resolver) selectStreams(ctx context.Context, cur *attempt, req Request, wantsVideo, metered bool) (string, bool) {
	adaptive := cur.response.StreamingData.AdaptiveFormats

	audioFormat, ok := formats.SelectAudio(adaptive, req.AudioQuality, metered)
	if !ok {
		return OutcomeNoAudio, false
	}
	audioURL, ok := r.signature.ResolveStreamURL(ctx, audioFormat, req.VideoID).Get()
	if !ok {
		return OutcomeAudioUnresolved, false
	}
	cur.audio = &Stream{Format: audioFormat, URL: audioURL}

	if !wantsVideo {
		return "", true
	}
	videoFormat, ok := formats.SelectVideo(adaptive, *req.VideoQuality, metered)
	if !ok {
		return OutcomeNoVideo, false
	}
	videoURL, ok := r.signature.ResolveStreamURL(ctx, videoFormat, req.VideoID).Get()
	if !ok {
		return OutcomeVideoUnresolved, false
	}
	cur.video = &Stream{Format: videoFormat, URL: videoURL}
	return "", true
}

func (r *Resolver) validate(ctx context.Context, url string) bool {
	if r.validator == nil {
		return true
	}
	started := r.now()
	ok := r.validator.Validate(ctx, url)
	phase := "success"
	if !ok {
		phase = "failure"
	}
	r.emit(innertube.ExtractionEvent{Stage: "validate", Phase: phase, Elapsed: r.now().Sub(started)})
	return ok
}

func (r *Resolver) attemptEvent(p innertube.Persona, outcome, detail string) {
	r.emit(innertube.ExtractionEvent{Stage: "attempt", Phase: outcome, Client: p.ID, Detail: detail})
}

func (r *Resolver) emit(ev innertube.ExtractionEvent) {
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

// DirectURLResolver is the SignatureResolver used when none is configured:
// it only returns URLs that upstream sent in the clear.
type DirectURLResolver struct{}

func (DirectURLResolver) ResolveSignatureTimestamp(context.Context, string) mo.Option[int] {
	return mo.None[int]()
}

func (DirectURLResolver) ResolveStreamURL(_ context.Context, f innertube.Format, _ string) mo.Option[string] {
	if f.URL == "" {
		return mo.None[string]()
	}
	return mo.Some(f.URL)
}

// NetworkOracle is re-exported so callers configuring a Resolver need not
// import the types package.
type NetworkOracle = types.NetworkOracle
