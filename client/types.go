package client

import (
	"time"

	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/orchestrator"
	"github.com/famomatic/ytstream/internal/types"
)

type (
	AudioQuality = types.AudioQuality
	VideoQuality = types.VideoQuality
)

const (
	AudioQualityAuto = types.AudioQualityAuto
	AudioQualityLow  = types.AudioQualityLow
	AudioQualityHigh = types.AudioQualityHigh

	VideoQualityAuto = types.VideoQualityAuto
)

// Request asks for playable streams of one video.
type Request struct {
	// VideoID is a bare id or any supported URL.
	VideoID    string
	PlaylistID string
	// AudioQuality defaults to AUTO.
	AudioQuality AudioQuality
	// VideoQuality nil requests audio only.
	VideoQuality *VideoQuality
	// Cookie is a raw Cookie header. Empty means anonymous.
	Cookie string
	// VisitorDataOverride replaces the shared visitor id for this call only.
	VisitorDataOverride string
}

// PlaybackResult is the public result of a resolution.
type PlaybackResult struct {
	AudioConfig      *AudioConfig      `json:"audioConfig,omitempty"`
	VideoDetails     *VideoDetails     `json:"videoDetails,omitempty"`
	PlaybackTracking *PlaybackTracking `json:"playbackTracking,omitempty"`
	ExpiresInSeconds int64             `json:"expiresInSeconds"`
	ExpiresAt        time.Time         `json:"expiresAt"`
	Audio            Stream            `json:"audio"`
	Video            *Stream           `json:"video,omitempty"`
	// ClientName is the upstream client name of the accepted persona.
	ClientName string `json:"clientName"`
}

type AudioConfig struct {
	LoudnessDb           *float64 `json:"loudnessDb,omitempty"`
	PerceptualLoudnessDb *float64 `json:"perceptualLoudnessDb,omitempty"`
}

type VideoDetails struct {
	VideoID        string `json:"videoId"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	ChannelID      string `json:"channelId"`
	LengthSeconds  int64  `json:"lengthSeconds"`
	MusicVideoType string `json:"musicVideoType,omitempty"`
	ViewCount      int64  `json:"viewCount"`
}

type PlaybackTracking struct {
	VideostatsPlaybackURL  string `json:"videostatsPlaybackUrl,omitempty"`
	VideostatsWatchtimeURL string `json:"videostatsWatchtimeUrl,omitempty"`
	AtrURL                 string `json:"atrUrl,omitempty"`
}

// Stream is one selected format with its playable URL.
type Stream struct {
	URL    string     `json:"url"`
	Format FormatInfo `json:"format"`
}

// FormatInfo is the normalized public format model.
type FormatInfo struct {
	Itag             int     `json:"itag"`
	MimeType         string  `json:"mimeType"`
	Bitrate          int     `json:"bitrate"`
	Width            int     `json:"width,omitempty"`
	Height           int     `json:"height,omitempty"`
	FPS              int     `json:"fps,omitempty"`
	ContentLength    int64   `json:"contentLength,omitempty"`
	Quality          string  `json:"quality,omitempty"`
	QualityLabel     string  `json:"qualityLabel,omitempty"`
	AudioQuality     string  `json:"audioQuality,omitempty"`
	AudioSampleRate  int64   `json:"audioSampleRate,omitempty"`
	AudioChannels    int     `json:"audioChannels,omitempty"`
	ApproxDurationMs int64   `json:"approxDurationMs,omitempty"`
	LoudnessDb       float64 `json:"loudnessDb,omitempty"`
	AudioTrackID     string  `json:"audioTrackId,omitempty"`
}

// PersonaInfo describes one catalog entry.
type PersonaInfo struct {
	ID             string `json:"id"`
	ClientName     string `json:"clientName"`
	ClientVersion  string `json:"clientVersion"`
	Primary        bool   `json:"primary"`
	LoginSupported bool   `json:"loginSupported"`
	LoginRequired  bool   `json:"loginRequired"`
	Embedded       bool   `json:"embedded"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func toFormatInfo(f innertube.Format) FormatInfo {
	out := FormatInfo{
		Itag:             f.Itag,
		MimeType:         f.MimeType,
		Bitrate:          f.Bitrate,
		Width:            deref(f.Width),
		Height:           deref(f.Height),
		FPS:              deref(f.FPS),
		ContentLength:    f.ContentLength.Int64(),
		Quality:          f.Quality,
		QualityLabel:     f.QualityLabel,
		AudioQuality:     f.AudioQuality,
		AudioSampleRate:  f.AudioSampleRate.Int64(),
		AudioChannels:    deref(f.AudioChannels),
		ApproxDurationMs: f.ApproxDurationMs.Int64(),
		LoudnessDb:       deref(f.LoudnessDb),
	}
	if f.AudioTrack != nil {
		out.AudioTrackID = f.AudioTrack.ID
	}
	return out
}

func toStream(s orchestrator.Stream) Stream {
	return Stream{URL: s.URL, Format: toFormatInfo(s.Format)}
}

func trackingURL(t *innertube.TrackingURL) string {
	if t == nil {
		return ""
	}
	return t.BaseURL
}

func toPlaybackResult(pb *orchestrator.Playback) *PlaybackResult {
	out := &PlaybackResult{
		ExpiresInSeconds: pb.ExpiresInSeconds,
		ExpiresAt:        pb.ExpiresAt,
		Audio:            toStream(pb.Audio),
		ClientName:       pb.ClientName,
	}
	if pb.Video != nil {
		v := toStream(*pb.Video)
		out.Video = &v
	}
	if ac := pb.AudioConfig; ac != nil {
		out.AudioConfig = &AudioConfig{LoudnessDb: ac.LoudnessDb, PerceptualLoudnessDb: ac.PerceptualLoudnessDb}
	}
	if d := pb.VideoDetails; d != nil {
		out.VideoDetails = &VideoDetails{
			VideoID:        d.VideoID,
			Title:          d.Title,
			Author:         d.Author,
			ChannelID:      d.ChannelID,
			LengthSeconds:  d.LengthSeconds.Int64(),
			MusicVideoType: d.MusicVideoType,
			ViewCount:      d.ViewCount.Int64(),
		}
	}
	if t := pb.PlaybackTracking; t != nil {
		out.PlaybackTracking = &PlaybackTracking{
			VideostatsPlaybackURL:  trackingURL(t.VideostatsPlaybackURL),
			VideostatsWatchtimeURL: trackingURL(t.VideostatsWatchtimeURL),
			AtrURL:                 trackingURL(t.AtrURL),
		}
	}
	return out
}

func toPersonaInfo(p innertube.Persona, primary bool) PersonaInfo {
	return PersonaInfo{
		ID:             p.ID,
		ClientName:     p.DisplayName(),
		ClientVersion:  p.Version,
		Primary:        primary,
		LoginSupported: p.LoginSupported,
		LoginRequired:  p.LoginRequired,
		Embedded:       p.Embedded,
	}
}
