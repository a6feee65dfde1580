package usecase

import (
	"context"
	"time"

	"hearth/internal/domain/entity"
)

// RunSummary is the terminal report of one generation run.
type RunSummary struct {
	Requested    int
	Generated    int
	Inserted     int
	SkippedDupes int
	FailedChunks []int
	Elapsed      time.Duration
	SuccessRate  float64 // inserted / requested
}

// StoreReport describes the stored dataset; produced by the validate-only path.
type StoreReport struct {
	TotalListings  int64
	ByPropertyType map[entity.PropertyType]int64
	MinPrice       int64
	MaxPrice       int64
	AvgPrice       float64
	PhotoCount     int64
}

// SeederUsecase drives the whole pipeline: planning, chunked generation,
// artifact persistence, insertion and the final summary.
type SeederUsecase interface {
	// Run executes the full pipeline for total listings, calling the
	// completion endpoint in slices of batchSize.
	Run(ctx context.Context, total, batchSize int) (*RunSummary, error)

	// Report inspects the stored dataset without generating anything.
	Report(ctx context.Context) (*StoreReport, error)
}
