package innertube

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// PlayerResponse is the subset of the /player payload the resolver reads.
// Everything except PlayabilityStatus is optional.
type PlayerResponse struct {
	PlayabilityStatus *PlayabilityStatus `json:"playabilityStatus"`
	PlayerConfig      *PlayerConfig      `json:"playerConfig"`
	StreamingData     *StreamingData     `json:"streamingData"`
	VideoDetails      *VideoDetails      `json:"videoDetails"`
	PlaybackTracking  *PlaybackTracking  `json:"playbackTracking"`
}

type PlayabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (p *PlayabilityStatus) IsOK() bool {
	return p != nil && p.Status == "OK"
}

type PlayerConfig struct {
	AudioConfig *AudioConfig `json:"audioConfig"`
}

type AudioConfig struct {
	LoudnessDb           *float64 `json:"loudnessDb"`
	PerceptualLoudnessDb *float64 `json:"perceptualLoudnessDb"`
}

type StreamingData struct {
	Formats          []Format `json:"formats"`
	AdaptiveFormats  []Format `json:"adaptiveFormats"`
	ExpiresInSeconds *FlexInt `json:"expiresInSeconds"`
}

type Format struct {
	Itag             int         `json:"itag"`
	URL              string      `json:"url"`
	MimeType         string      `json:"mimeType"`
	Bitrate          int         `json:"bitrate"`
	Width            *int        `json:"width"`
	Height           *int        `json:"height"`
	ContentLength    *FlexInt    `json:"contentLength"`
	Quality          string      `json:"quality"`
	FPS              *int        `json:"fps"`
	QualityLabel     string      `json:"qualityLabel"`
	AverageBitrate   *int        `json:"averageBitrate"`
	AudioQuality     string      `json:"audioQuality"`
	ApproxDurationMs *FlexInt    `json:"approxDurationMs"`
	AudioSampleRate  *FlexInt    `json:"audioSampleRate"`
	AudioChannels    *int        `json:"audioChannels"`
	LoudnessDb       *float64    `json:"loudnessDb"`
	LastModified     *FlexInt    `json:"lastModified"`
	SignatureCipher  string      `json:"signatureCipher"`
	Cipher           string      `json:"cipher"`
	AudioTrack       *AudioTrack `json:"audioTrack"`
}

type AudioTrack struct {
	DisplayName  string `json:"displayName"`
	ID           string `json:"id"`
	IsAutoDubbed *bool  `json:"isAutoDubbed"`
}

// IsAudio reports an audio-only adaptive format.
func (f Format) IsAudio() bool {
	return f.Width == nil
}

func (f Format) IsVideo() bool {
	return f.Width != nil && f.Height != nil
}

// IsOriginal reports whether the audio track is not an automatic dub.
func (f Format) IsOriginal() bool {
	return f.AudioTrack == nil || f.AudioTrack.IsAutoDubbed == nil || !*f.AudioTrack.IsAutoDubbed
}

// CipherData returns whichever cipher field upstream populated.
func (f Format) CipherData() string {
	if f.SignatureCipher != "" {
		return f.SignatureCipher
	}
	return f.Cipher
}

type VideoDetails struct {
	VideoID        string   `json:"videoId"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	ChannelID      string   `json:"channelId"`
	LengthSeconds  *FlexInt `json:"lengthSeconds"`
	MusicVideoType string   `json:"musicVideoType"`
	ViewCount      *FlexInt `json:"viewCount"`
}

type PlaybackTracking struct {
	VideostatsPlaybackURL  *TrackingURL `json:"videostatsPlaybackUrl"`
	VideostatsWatchtimeURL *TrackingURL `json:"videostatsWatchtimeUrl"`
	AtrURL                 *TrackingURL `json:"atrUrl"`
}

type TrackingURL struct {
	BaseURL string `json:"baseUrl"`
}

// FlexInt decodes integers that upstream sends either as JSON numbers or as
// decimal strings.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("flexint %q: %w", raw, err)
	}
	*n = FlexInt(v)
	return nil
}

// Int64 returns the value, treating a nil pointer as zero.
func (n *FlexInt) Int64() int64 {
	if n == nil {
		return 0
	}
	return int64(*n)
}
