package domain

import "context"

// Analyzer is the boundary to the external thermodynamic/kinematic analysis
// capability. Implementations do not live in this package; the production
// implementation delegates to the SHARPpy sidecar over HTTP, and tests
// substitute a fake.
type Analyzer interface {
	// Analyze computes severe weather indices for a validated profile.
	// Index presence in the result is best-effort. A delegate that cannot
	// serve the request at all returns an error wrapping ErrAnalysisUnavailable.
	Analyze(ctx context.Context, profile SoundingProfile) (DerivedIndices, error)
}
