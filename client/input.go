package client

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern    = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	playlistIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{2,}$`)
	pathIDPrefixes    = []string{"/embed/", "/v/", "/shorts/", "/live/", "/e/"}
)

func isYouTubeHost(host string) bool {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be", "youtube-nocookie.com":
		return true
	}
	return false
}

func parseInputURL(s string) (*url.URL, bool) {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

// ExtractVideoID accepts a bare id or a watch, short link, embed, shorts,
// live or music URL.
func ExtractVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &InvalidInputError{Input: input, Reason: "empty"}
	}
	if videoIDPattern.MatchString(s) {
		return s, nil
	}
	u, ok := parseInputURL(s)
	if !ok {
		return "", &InvalidInputError{Input: input, Reason: "malformed"}
	}
	if !isYouTubeHost(u.Host) {
		return "", &InvalidInputError{Input: input, Reason: "unsupported_host"}
	}

	candidate := u.Query().Get("v")
	if strings.EqualFold(strings.TrimPrefix(u.Host, "www."), "youtu.be") {
		candidate = strings.Trim(u.Path, "/")
	}
	for _, prefix := range pathIDPrefixes {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			candidate, _, _ = strings.Cut(rest, "/")
		}
	}
	if !videoIDPattern.MatchString(candidate) {
		return "", &InvalidInputError{Input: input, Reason: "missing_video_id"}
	}
	return candidate, nil
}

// ExtractPlaylistID accepts a bare playlist id or any URL with a list
// parameter.
func ExtractPlaylistID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &InvalidInputError{Input: input, Reason: "empty"}
	}
	if !strings.ContainsAny(s, "/?=.") && playlistIDPattern.MatchString(s) {
		return s, nil
	}
	u, ok := parseInputURL(s)
	if !ok || !isYouTubeHost(u.Host) {
		return "", &InvalidInputError{Input: input, Reason: "unsupported_host"}
	}
	list := u.Query().Get("list")
	if !playlistIDPattern.MatchString(list) {
		return "", &InvalidInputError{Input: input, Reason: "missing_playlist_id"}
	}
	return list, nil
}
