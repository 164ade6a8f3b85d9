package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/famomatic/ytstream/internal/orchestrator"
)

func TestMapErrorKinds(t *testing.T) {
	tests := []struct {
		kind     orchestrator.ErrorKind
		code     ErrorCode
		sentinel error
	}{
		{orchestrator.KindQueryFailed, CodeQueryFailed, ErrQueryFailed},
		{orchestrator.KindBadPlayerResponse, CodeBadPlayerResponse, ErrBadPlayerResponse},
		{orchestrator.KindNotPlayable, CodeNotPlayable, ErrNotPlayable},
		{orchestrator.KindMissingExpiry, CodeMissingExpiry, ErrMissingExpiry},
		{orchestrator.KindNoAudioStream, CodeNoAudioStream, ErrNoAudioStream},
		{orchestrator.KindNoVideoStream, CodeNoVideoStream, ErrNoVideoStream},
	}
	for _, tt := range tests {
		err := mapError(fmt.Errorf("wrapped: %w", &orchestrator.ResolveError{Kind: tt.kind}))
		if got := ClassifyError(err); got != tt.code {
			t.Fatalf("%s: ClassifyError()=%q want=%q", tt.kind, got, tt.code)
		}
		if !errors.Is(err, tt.sentinel) {
			t.Fatalf("%s: errors.Is(%v, sentinel) = false", tt.kind, err)
		}
		if errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: must not match ErrInvalidInput", tt.kind)
		}
	}
}

func TestMapErrorNotPlayableCarriesReason(t *testing.T) {
	err := mapError(&orchestrator.ResolveError{Kind: orchestrator.KindNotPlayable, Status: "UNPLAYABLE", Reason: "Video unavailable"})
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ce.Status != "UNPLAYABLE" || ce.Reason != "Video unavailable" {
		t.Fatalf("unexpected detail: %+v", ce)
	}
}

func TestMapErrorUnknown(t *testing.T) {
	for _, in := range []error{errors.New("boom"), context.Canceled} {
		err := mapError(in)
		if got := ClassifyError(err); got != CodeException {
			t.Fatalf("ClassifyError(%v)=%q want=%q", in, got, CodeException)
		}
		if !errors.Is(err, in) {
			t.Fatalf("cause %v should stay reachable", in)
		}
	}
	if mapError(nil) != nil {
		t.Fatalf("mapError(nil) should be nil")
	}
}

func TestClassifyInvalidInput(t *testing.T) {
	_, err := ExtractVideoID("")
	if got := ClassifyError(err); got != CodeInvalidInput {
		t.Fatalf("ClassifyError()=%q", got)
	}
	if got := ClassifyError(mapError(err)); got != CodeInvalidInput {
		t.Fatalf("mapped ClassifyError()=%q", got)
	}
}
