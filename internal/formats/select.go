package formats

import (
	"strings"

	"github.com/samber/lo"

	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/types"
)

// WebMBonus nudges WebM/Opus ahead of MP4/AAC at similar bitrates without
// overriding a real bitrate gap.
const WebMBonus = 10240

// AudioScore ranks one audio format under a preference; higher is better.
func AudioScore(f innertube.Format, quality types.AudioQuality, metered bool) int {
	direction := 1
	if quality == types.AudioQualityLow || (quality == types.AudioQualityAuto && metered) {
		direction = -1
	}
	score := f.Bitrate * direction
	if strings.HasPrefix(f.MimeType, "audio/webm") {
		score += WebMBonus
	}
	return score
}

// SelectAudio picks the best original-track audio-only format. On equal
// scores the earliest format wins.
func SelectAudio(formats []innertube.Format, quality types.AudioQuality, metered bool) (innertube.Format, bool) {
	candidates := lo.Filter(formats, func(f innertube.Format, _ int) bool {
		return f.IsAudio() && f.IsOriginal()
	})
	if len(candidates) == 0 {
		return innertube.Format{}, false
	}
	return lo.MaxBy(candidates, func(a, b innertube.Format) bool {
		return AudioScore(a, quality, metered) > AudioScore(b, quality, metered)
	}), true
}

// SelectVideo picks the tallest video format not exceeding the target height.
// AUTO targets 720p on metered networks and 1080p otherwise.
func SelectVideo(formats []innertube.Format, quality types.VideoQuality, metered bool) (innertube.Format, bool) {
	target := int(quality.Resolve(metered))
	candidates := lo.Filter(formats, func(f innertube.Format, _ int) bool {
		return f.IsVideo() && *f.Height <= target
	})
	if len(candidates) == 0 {
		return innertube.Format{}, false
	}
	return lo.MaxBy(candidates, func(a, b innertube.Format) bool {
		return *a.Height > *b.Height
	}), true
}
