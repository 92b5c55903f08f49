package services

import "errors"

// Failure taxonomy for the answer pipeline. Callers branch with errors.Is;
// everything else wraps one of these with fmt.Errorf and %w.
var (
	ErrMalformedRecord      = errors.New("malformed record")
	ErrIndexUnavailable     = errors.New("vector index unavailable")
	ErrEmbeddingService     = errors.New("embedding service call failed")
	ErrSynthesisUnavailable = errors.New("synthesis service unavailable")
)
