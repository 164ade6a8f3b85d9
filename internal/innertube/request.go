package innertube

import "github.com/samber/mo"

// Locale is the gl/hl pair sent in the client context.
type Locale struct {
	GL string
	HL string
}

// DefaultLocale is used when the caller does not configure one.
var DefaultLocale = Locale{GL: "US", HL: "en"}

type PlayerRequest struct {
	Context         Context          `json:"context"`
	VideoID         string           `json:"videoId"`
	PlaylistID      string           `json:"playlistId,omitempty"`
	PlaybackContext *PlaybackContext `json:"playbackContext,omitempty"`
	ContentCheckOk  bool             `json:"contentCheckOk"`
	RacyCheckOk     bool             `json:"racyCheckOk"`
}

type Context struct {
	Client     ClientInfo  `json:"client"`
	ThirdParty *ThirdParty `json:"thirdParty,omitempty"`
}

type ClientInfo struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	OsName            string `json:"osName,omitempty"`
	OsVersion         string `json:"osVersion,omitempty"`
	DeviceMake        string `json:"deviceMake,omitempty"`
	DeviceModel       string `json:"deviceModel,omitempty"`
	AndroidSdkVersion string `json:"androidSdkVersion,omitempty"`
	UserAgent         string `json:"userAgent,omitempty"`
	GL                string `json:"gl"`
	HL                string `json:"hl"`
	VisitorData       string `json:"visitorData,omitempty"`
}

type ThirdParty struct {
	EmbedUrl string `json:"embedUrl"`
}

type PlaybackContext struct {
	ContentPlaybackContext ContentPlaybackContext `json:"contentPlaybackContext"`
}

type ContentPlaybackContext struct {
	SignatureTimestamp int `json:"signatureTimestamp"`
}

// PlayerParams are the per-call inputs of a player query.
type PlayerParams struct {
	VideoID            string
	PlaylistID         string
	Cookie             string
	VisitorData        string
	SignatureTimestamp mo.Option[int]
	Locale             Locale
}

// NewPlayerRequest builds the player body for one persona.
func NewPlayerRequest(p Persona, params PlayerParams) *PlayerRequest {
	locale := params.Locale
	if locale.GL == "" {
		locale.GL = DefaultLocale.GL
	}
	if locale.HL == "" {
		locale.HL = DefaultLocale.HL
	}

	req := &PlayerRequest{
		VideoID:        params.VideoID,
		PlaylistID:     params.PlaylistID,
		ContentCheckOk: true,
		RacyCheckOk:    true,
		Context: Context{
			Client: ClientInfo{
				ClientName:        p.Name,
				ClientVersion:     p.Version,
				OsName:            p.OSName,
				OsVersion:         p.OSVersion,
				DeviceMake:        p.DeviceMake,
				DeviceModel:       p.DeviceModel,
				AndroidSdkVersion: p.AndroidSDKVersion,
				UserAgent:         p.UserAgent,
				GL:                locale.GL,
				HL:                locale.HL,
				VisitorData:       params.VisitorData,
			},
		},
	}

	if p.Embedded {
		req.Context.ThirdParty = &ThirdParty{EmbedUrl: embedURLPrefix + params.VideoID}
	}
	if sts, ok := params.SignatureTimestamp.Get(); ok && p.UseSignatureTimestamp {
		req.PlaybackContext = &PlaybackContext{
			ContentPlaybackContext: ContentPlaybackContext{SignatureTimestamp: sts},
		}
	}
	return req
}
