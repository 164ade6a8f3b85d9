package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/famomatic/ytstream/internal/orchestrator"
)

// ErrorCode is the stable classification reported to callers and over HTTP.
type ErrorCode string

const (
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeQueryFailed       ErrorCode = "QUERY_FAILED"
	CodeBadPlayerResponse ErrorCode = "BAD_PLAYER_RESPONSE"
	CodeNotPlayable       ErrorCode = "NOT_PLAYABLE"
	CodeMissingExpiry     ErrorCode = "MISSING_EXPIRY"
	CodeNoAudioStream     ErrorCode = "NO_AUDIO_STREAM"
	CodeNoVideoStream     ErrorCode = "NO_VIDEO_STREAM"
	CodeException         ErrorCode = "YT_STREAM_EXCEPTION"
)

var (
	// ErrInvalidInput indicates malformed input (not a video ID/url).
	ErrInvalidInput = errors.New("invalid input")
	// ErrQueryFailed indicates the primary player query failed.
	ErrQueryFailed = errors.New("player query failed")
	// ErrBadPlayerResponse indicates no player response was obtained.
	ErrBadPlayerResponse = errors.New("bad stream player response")
	// ErrNotPlayable indicates upstream refused playback.
	ErrNotPlayable = errors.New("not playable")
	// ErrMissingExpiry indicates the streaming data had no expiry.
	ErrMissingExpiry = errors.New("missing stream expire time")
	// ErrNoAudioStream indicates no usable audio stream.
	ErrNoAudioStream = errors.New("could not find audio stream")
	// ErrNoVideoStream indicates no usable video stream.
	ErrNoVideoStream = errors.New("could not find video stream")
)

var codeSentinels = map[ErrorCode]error{
	CodeInvalidInput:      ErrInvalidInput,
	CodeQueryFailed:       ErrQueryFailed,
	CodeBadPlayerResponse: ErrBadPlayerResponse,
	CodeNotPlayable:       ErrNotPlayable,
	CodeMissingExpiry:     ErrMissingExpiry,
	CodeNoAudioStream:     ErrNoAudioStream,
	CodeNoVideoStream:     ErrNoVideoStream,
}

// Error is returned by Client.Resolve for every failure.
type Error struct {
	Code    ErrorCode
	Message string
	// Client is the persona the failure is attributed to, if any.
	Client string
	// Status and Reason carry upstream playability details for NOT_PLAYABLE.
	Status string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's code.
func (e *Error) Is(target error) bool {
	s, ok := codeSentinels[e.Code]
	return ok && s == target
}

// InvalidInputError details why input was rejected.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ClassifyError returns the ErrorCode for any error produced by this package.
func ClassifyError(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	if errors.Is(err, ErrInvalidInput) {
		return CodeInvalidInput
	}
	return CodeException
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, ErrInvalidInput) {
		return &Error{Code: CodeInvalidInput, Message: err.Error(), Err: err}
	}

	var re *orchestrator.ResolveError
	if !errors.As(err, &re) {
		msg := err.Error()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			msg = "resolution aborted: " + msg
		}
		return &Error{Code: CodeException, Message: msg, Err: err}
	}

	out := &Error{Message: re.Error(), Client: re.Client, Err: err}
	switch re.Kind {
	case orchestrator.KindQueryFailed:
		out.Code = CodeQueryFailed
	case orchestrator.KindBadPlayerResponse:
		out.Code = CodeBadPlayerResponse
	case orchestrator.KindNotPlayable:
		out.Code = CodeNotPlayable
		out.Status, out.Reason = re.Status, re.Reason
	case orchestrator.KindMissingExpiry:
		out.Code = CodeMissingExpiry
	case orchestrator.KindNoAudioStream:
		out.Code = CodeNoAudioStream
	case orchestrator.KindNoVideoStream:
		out.Code = CodeNoVideoStream
	default:
		out.Code = CodeException
	}
	return out
}
