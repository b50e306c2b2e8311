package decay

import "errors"

// Sentinel errors for graph construction and collapse. Callers branch with
// errors.Is; returned errors carry the offending particle as context.
var (
	// ErrMalformedRange indicates a parent or daughter range that does not
	// fit inside the event's particle collection. The input is corrupt;
	// ranges are never clamped.
	ErrMalformedRange = errors.New("decay: malformed range")

	// ErrCyclicAncestry indicates a particle that is its own ancestor,
	// directly (self reference) or through a longer cycle.
	ErrCyclicAncestry = errors.New("decay: cyclic ancestry")

	// ErrInvalidThreshold indicates a negative, NaN or infinite collapse
	// threshold.
	ErrInvalidThreshold = errors.New("decay: invalid threshold")

	// ErrResolverMismatch indicates a resolver built for a different
	// particle collection than the one handed to NewHandler.
	ErrResolverMismatch = errors.New("decay: resolver does not match particle collection")
)
