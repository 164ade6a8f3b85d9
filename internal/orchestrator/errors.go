package orchestrator

import (
	"errors"
	"fmt"
)

// ErrorKind tags a terminal resolution failure.
type ErrorKind string

const (
	KindQueryFailed       ErrorKind = "query_failed"
	KindBadPlayerResponse ErrorKind = "bad_player_response"
	KindNotPlayable       ErrorKind = "not_playable"
	KindMissingExpiry     ErrorKind = "missing_expiry"
	KindNoAudioStream     ErrorKind = "no_audio_stream"
	KindNoVideoStream     ErrorKind = "no_video_stream"
)

// ResolveError is the only error type Resolve returns for a completed
// cascade. Context cancellation is returned unwrapped.
type ResolveError struct {
	Kind   ErrorKind
	Client string
	Status string
	Reason string
	Err    error
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case KindQueryFailed:
		return fmt.Sprintf("player query failed client=%s: %v", e.Client, e.Err)
	case KindBadPlayerResponse:
		return "bad stream player response"
	case KindNotPlayable:
		if e.Reason != "" {
			return fmt.Sprintf("unplayable status=%s: %s", e.Status, e.Reason)
		}
		return fmt.Sprintf("unplayable status=%s", e.Status)
	case KindMissingExpiry:
		return "missing stream expire time"
	case KindNoAudioStream:
		return "could not find audio stream"
	case KindNoVideoStream:
		return "could not find video stream"
	default:
		return fmt.Sprintf("resolve failed kind=%s", e.Kind)
	}
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a ResolveError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
