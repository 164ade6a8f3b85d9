package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/types"
)

func audio(itag, bitrate int, mime string) innertube.Format {
	return innertube.Format{Itag: itag, Bitrate: bitrate, MimeType: mime}
}

func video(itag, width, height int) innertube.Format {
	return innertube.Format{Itag: itag, Width: &width, Height: &height, MimeType: "video/mp4"}
}

func dubbed(f innertube.Format) innertube.Format {
	yes := true
	f.AudioTrack = &innertube.AudioTrack{ID: "de.3", IsAutoDubbed: &yes}
	return f
}

func TestSelectAudioWebMBonusDoesNotBeatBitrateGap(t *testing.T) {
	formats := []innertube.Format{
		audio(251, 128000, `audio/webm; codecs="opus"`),
		audio(140, 160000, `audio/mp4; codecs="mp4a.40.2"`),
	}
	got, ok := SelectAudio(formats, types.AudioQualityHigh, false)
	require.True(t, ok)
	assert.Equal(t, 140, got.Itag)
}

func TestSelectAudioWebMBonusBreaksNearTie(t *testing.T) {
	formats := []innertube.Format{
		audio(251, 128000, `audio/webm; codecs="opus"`),
		audio(140, 130000, `audio/mp4; codecs="mp4a.40.2"`),
	}
	got, ok := SelectAudio(formats, types.AudioQualityHigh, false)
	require.True(t, ok)
	assert.Equal(t, 251, got.Itag)
}

func TestSelectAudioDirection(t *testing.T) {
	formats := []innertube.Format{
		audio(140, 130000, "audio/mp4"),
		audio(139, 48000, "audio/mp4"),
		audio(141, 256000, "audio/mp4"),
	}
	cases := []struct {
		name    string
		quality types.AudioQuality
		metered bool
		want    int
	}{
		{"low", types.AudioQualityLow, false, 139},
		{"low metered", types.AudioQualityLow, true, 139},
		{"high", types.AudioQualityHigh, true, 141},
		{"auto metered", types.AudioQualityAuto, true, 139},
		{"auto unmetered", types.AudioQualityAuto, false, 141},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SelectAudio(formats, tc.quality, tc.metered)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Itag)
		})
	}
}

func TestSelectAudioSkipsVideoAndDubbedTracks(t *testing.T) {
	formats := []innertube.Format{
		video(137, 1920, 1080),
		dubbed(audio(251, 999999, "audio/webm")),
		audio(140, 130000, "audio/mp4"),
	}
	got, ok := SelectAudio(formats, types.AudioQualityHigh, false)
	require.True(t, ok)
	assert.Equal(t, 140, got.Itag)
}

func TestSelectAudioFirstMaximumWins(t *testing.T) {
	formats := []innertube.Format{
		audio(1, 128000, "audio/mp4"),
		audio(2, 128000, "audio/mp4"),
	}
	got, ok := SelectAudio(formats, types.AudioQualityHigh, false)
	require.True(t, ok)
	assert.Equal(t, 1, got.Itag)
}

func TestSelectAudioNone(t *testing.T) {
	_, ok := SelectAudio([]innertube.Format{video(137, 1920, 1080)}, types.AudioQualityAuto, false)
	assert.False(t, ok)
	_, ok = SelectAudio(nil, types.AudioQualityAuto, false)
	assert.False(t, ok)
}

func TestSelectVideoAutoTargets(t *testing.T) {
	formats := []innertube.Format{
		video(136, 1280, 720),
		video(137, 1920, 1080),
		video(313, 3840, 2160),
	}
	got, ok := SelectVideo(formats, types.VideoQualityAuto, true)
	require.True(t, ok)
	assert.Equal(t, 136, got.Itag)

	got, ok = SelectVideo(formats, types.VideoQualityAuto, false)
	require.True(t, ok)
	assert.Equal(t, 137, got.Itag)
}

func TestSelectVideoExcludesTallerEvenIfOnlyCandidate(t *testing.T) {
	_, ok := SelectVideo([]innertube.Format{video(137, 1920, 1080)}, types.VideoQuality720p, false)
	assert.False(t, ok)
}

func TestSelectVideoIgnoresFormatsWithoutHeight(t *testing.T) {
	w := 1280
	formats := []innertube.Format{
		{Itag: 1, Width: &w, MimeType: "video/mp4"},
		audio(140, 130000, "audio/mp4"),
		video(134, 640, 360),
	}
	got, ok := SelectVideo(formats, types.VideoQuality480p, false)
	require.True(t, ok)
	assert.Equal(t, 134, got.Itag)
}

func TestSelectVideoFirstTallestWins(t *testing.T) {
	formats := []innertube.Format{
		video(244, 854, 480),
		video(135, 854, 480),
	}
	got, ok := SelectVideo(formats, types.VideoQuality480p, false)
	require.True(t, ok)
	assert.Equal(t, 244, got.Itag)
}
