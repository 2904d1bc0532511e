package pipeline

import "errors"

var (
	// ErrStopped is returned by Submit once shutdown has started.
	ErrStopped = errors.New("pipeline stopped")

	// ErrConsumerRunning is returned when a second consumer is started.
	// The pipeline is single-consumer by construction.
	ErrConsumerRunning = errors.New("pipeline already has a consumer")

	// ErrWidthMismatch is returned by New when the normalizer width differs
	// from the code book width.
	ErrWidthMismatch = errors.New("normalizer width does not match code book")
)
