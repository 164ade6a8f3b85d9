package types

import (
	"fmt"
	"strconv"
	"strings"
)

// AudioQuality is the caller's audio bitrate preference.
type AudioQuality string

const (
	AudioQualityAuto AudioQuality = "AUTO"
	AudioQualityLow  AudioQuality = "LOW"
	AudioQualityHigh AudioQuality = "HIGH"
)

// ParseAudioQuality accepts AUTO, LOW or HIGH in any case. Empty means AUTO.
func ParseAudioQuality(s string) (AudioQuality, error) {
	switch q := AudioQuality(strings.ToUpper(strings.TrimSpace(s))); q {
	case "":
		return AudioQualityAuto, nil
	case AudioQualityAuto, AudioQualityLow, AudioQualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("unknown audio quality %q", s)
	}
}

// VideoQuality is a target height in pixels, or VideoQualityAuto.
type VideoQuality int

const (
	VideoQualityAuto  VideoQuality = -1
	VideoQuality144p  VideoQuality = 144
	VideoQuality240p  VideoQuality = 240
	VideoQuality360p  VideoQuality = 360
	VideoQuality480p  VideoQuality = 480
	VideoQuality720p  VideoQuality = 720
	VideoQuality1080p VideoQuality = 1080
	VideoQuality1440p VideoQuality = 1440
	VideoQuality2160p VideoQuality = 2160
)

// VideoQualityLadder lists the supported concrete targets, lowest first.
var VideoQualityLadder = []VideoQuality{
	VideoQuality144p,
	VideoQuality240p,
	VideoQuality360p,
	VideoQuality480p,
	VideoQuality720p,
	VideoQuality1080p,
	VideoQuality1440p,
	VideoQuality2160p,
}

func (q VideoQuality) String() string {
	if q == VideoQualityAuto {
		return "AUTO"
	}
	return strconv.Itoa(int(q)) + "p"
}

// Resolve maps AUTO to a concrete height for the current network.
func (q VideoQuality) Resolve(metered bool) VideoQuality {
	if q != VideoQualityAuto {
		return q
	}
	if metered {
		return VideoQuality720p
	}
	return VideoQuality1080p
}

// ParseVideoQuality accepts "auto", "-1", "720" or "720p".
func ParseVideoQuality(s string) (VideoQuality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "auto" || s == "-1" {
		return VideoQualityAuto, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "p"))
	if err != nil {
		return 0, fmt.Errorf("unknown video quality %q", s)
	}
	for _, q := range VideoQualityLadder {
		if int(q) == n {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unsupported video height %d", n)
}
