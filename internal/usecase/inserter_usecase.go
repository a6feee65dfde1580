package usecase

import "context"

// InsertResult aggregates the per-record outcomes of one insert batch.
// Failures are counted, never raised; the pipeline always moves on.
type InsertResult struct {
	Inserted         int
	SkippedInvalid   int
	SkippedDuplicate int
	Failed           int
}

// InserterUsecase validates field ranges, skips duplicates and writes each
// surviving record's aggregate in one atomic transaction.
type InserterUsecase interface {
	Insert(ctx context.Context, records []GeneratedListing) (InsertResult, error)
}
