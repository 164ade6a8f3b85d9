package innertube

import (
	"errors"
	"fmt"
)

// ErrMissingPlayability is returned when a payload decodes but carries no
// playabilityStatus, the one field every player response must have.
var ErrMissingPlayability = errors.New("player response missing playabilityStatus")

// HTTPStatusError indicates a non-2xx InnerTube response.
type HTTPStatusError struct {
	Client     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("innertube http status=%d client=%s", e.StatusCode, e.Client)
}

// DecodeError wraps a payload that could not be read as a player response.
type DecodeError struct {
	Client string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode player response client=%s: %v", e.Client, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
