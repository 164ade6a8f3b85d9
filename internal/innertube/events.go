package innertube

import "time"

// ExtractionEvent represents one resolution lifecycle event.
type ExtractionEvent struct {
	Stage   string
	Phase   string
	Client  string
	Detail  string
	Elapsed time.Duration
}

// ExtractionEventHandler handles events emitted by the resolver.
type ExtractionEventHandler func(ExtractionEvent)
