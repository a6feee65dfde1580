package service

import "context"

// ArtifactStore persists per-chunk debug artifacts. Writes are best-effort
// from the orchestrator's point of view; a failure is logged, never fatal.
type ArtifactStore interface {
	// SaveChunk stores the payload as the artifact for the given chunk index.
	SaveChunk(ctx context.Context, index int, payload any) error

	// Close releases the underlying bucket.
	Close() error
}
