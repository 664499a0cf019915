package progress

import "errors"

var (
	// ErrAccountNotInitialized means InitAccount was never run for the user.
	ErrAccountNotInitialized = errors.New("progress: user stats not initialized")
	// ErrCatalogUnavailable means the achievement catalog could not be loaded;
	// no achievements were processed in this pass.
	ErrCatalogUnavailable = errors.New("progress: achievement catalog unavailable")
	// ErrEvaluationTimeout means the pass ran out of time before the catalog
	// was loaded.
	ErrEvaluationTimeout = errors.New("progress: evaluation deadline exceeded")
	ErrUnknownActivity   = errors.New("progress: unknown activity kind")
	ErrInvalidSubject    = errors.New("progress: invalid subject id")
	ErrNegativeXP        = errors.New("progress: experience credit must not be negative")
)
