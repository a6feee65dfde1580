package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"
	"hearth/internal/usecase"
)

func TestSeederService_Run_SingleChunkHappyPath(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(3)}
	generator := &fakeGenerator{
		handler: func(_ int, requests []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			records := make([]usecase.GeneratedListing, 0, len(requests))
			for i := range requests {
				records = append(records, validRecord(i+1))
			}

			return records, nil
		},
	}
	inserter := &fakeInserter{}
	artifacts := &fakeArtifactStore{}
	svc := NewSeederService(planner, generator, inserter, artifacts, &fakeListingRepository{}, testLogger(), 3, 0)

	summary, err := svc.Run(context.Background(), 3, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Requested)
	assert.Equal(t, 3, summary.Generated)
	assert.Equal(t, 3, summary.Inserted)
	assert.Empty(t, summary.FailedChunks)
	assert.InDelta(t, 1.0, summary.SuccessRate, 0.001)
	assert.Positive(t, summary.Elapsed)

	require.Len(t, generator.calls, 1)
	assert.Len(t, generator.calls[0], 3)
	require.Len(t, inserter.batches, 1)
	assert.Equal(t, []int{0}, artifacts.saved)
}

func TestSeederService_Run_SplitsIntoChunks(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(5)}
	generator := &fakeGenerator{
		handler: func(_ int, requests []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			records := make([]usecase.GeneratedListing, 0, len(requests))
			for i := range requests {
				records = append(records, validRecord(i+1))
			}

			return records, nil
		},
	}
	inserter := &fakeInserter{}
	artifacts := &fakeArtifactStore{}
	svc := NewSeederService(planner, generator, inserter, artifacts, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(context.Background(), 5, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Generated)
	require.Len(t, generator.calls, 3)
	assert.Len(t, generator.calls[0], 2)
	assert.Len(t, generator.calls[1], 2)
	assert.Len(t, generator.calls[2], 1)
	assert.Equal(t, []int{0, 1, 2}, artifacts.saved)
}

func TestSeederService_Run_RecordsFailedChunkAndContinues(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(4)}
	generator := &fakeGenerator{
		handler: func(call int, requests []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			if call == 0 {
				return nil, assert.AnError
			}

			records := make([]usecase.GeneratedListing, 0, len(requests))
			for i := range requests {
				records = append(records, validRecord(i+1))
			}

			return records, nil
		},
	}
	inserter := &fakeInserter{}
	artifacts := &fakeArtifactStore{}
	svc := NewSeederService(planner, generator, inserter, artifacts, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(context.Background(), 4, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, summary.FailedChunks)
	assert.Equal(t, 2, summary.Generated)
	assert.Equal(t, 2, summary.Inserted)
	assert.InDelta(t, 0.5, summary.SuccessRate, 0.001)
	// No artifact for the failed chunk.
	assert.Equal(t, []int{1}, artifacts.saved)
}

func TestSeederService_Run_EmptyGenerationCountsAsFailedChunk(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(2)}
	generator := &fakeGenerator{
		handler: func(int, []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			return nil, nil
		},
	}
	svc := NewSeederService(planner, generator, &fakeInserter{}, &fakeArtifactStore{}, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, summary.FailedChunks)
	assert.Zero(t, summary.Inserted)
	assert.Zero(t, summary.SuccessRate)
}

func TestSeederService_Run_ArtifactFailureDoesNotBlockInsert(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(2)}
	generator := &fakeGenerator{
		handler: func(int, []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			return []usecase.GeneratedListing{validRecord(1), validRecord(2)}, nil
		},
	}
	inserter := &fakeInserter{}
	artifacts := &fakeArtifactStore{err: assert.AnError}
	svc := NewSeederService(planner, generator, inserter, artifacts, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Empty(t, summary.FailedChunks)
	require.Len(t, inserter.batches, 1)
}

func TestSeederService_Run_AccumulatesDuplicateSkips(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(2)}
	generator := &fakeGenerator{
		handler: func(int, []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			return []usecase.GeneratedListing{validRecord(1), validRecord(2)}, nil
		},
	}
	inserter := &fakeInserter{result: usecase.InsertResult{Inserted: 1, SkippedDuplicate: 1}}
	svc := NewSeederService(planner, generator, inserter, &fakeArtifactStore{}, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.SkippedDupes)
	assert.InDelta(t, 0.5, summary.SuccessRate, 0.001)
}

func TestSeederService_Run_InsertFailureMarksChunkAndContinues(t *testing.T) {
	planner := &fakePlanner{requests: testRequests(4)}
	generator := &fakeGenerator{
		handler: func(int, []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			return []usecase.GeneratedListing{validRecord(1), validRecord(2)}, nil
		},
	}
	inserter := &fakeInserter{
		handler: func(call int, records []usecase.GeneratedListing) (usecase.InsertResult, error) {
			if call == 0 {
				return usecase.InsertResult{}, assert.AnError
			}

			return usecase.InsertResult{Inserted: len(records)}, nil
		},
	}
	svc := NewSeederService(planner, generator, inserter, &fakeArtifactStore{}, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(context.Background(), 4, 2)
	require.NoError(t, err)

	// A transient store failure costs one chunk, not the run.
	assert.Equal(t, []int{0}, summary.FailedChunks)
	assert.Len(t, generator.calls, 2)
	require.Len(t, inserter.batches, 2)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 4, summary.Generated)
	assert.Positive(t, summary.Elapsed)
}

func TestSeederService_Run_CancelledContextStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	planner := &fakePlanner{requests: testRequests(4)}
	generator := &fakeGenerator{
		handler: func(int, []entity.GenerationRequest) ([]usecase.GeneratedListing, error) {
			cancel()

			return nil, ctx.Err()
		},
	}
	svc := NewSeederService(planner, generator, &fakeInserter{}, &fakeArtifactStore{}, &fakeListingRepository{}, testLogger(), 2, 0)

	summary, err := svc.Run(ctx, 4, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Len(t, generator.calls, 1)
}

func TestSeederService_Report(t *testing.T) {
	repo := &fakeListingRepository{
		total: 42,
		byType: map[entity.PropertyType]int64{
			entity.PropertyTypeSingleFamily: 30,
			entity.PropertyTypeCondo:        8,
			entity.PropertyTypeTownhouse:    4,
		},
		priceStats: repository.PriceStats{Min: 560_000, Max: 2_350_000, Avg: 1_180_000.5},
		photoCount: 168,
	}
	svc := NewSeederService(&fakePlanner{}, &fakeGenerator{}, &fakeInserter{}, &fakeArtifactStore{}, repo, testLogger(), 2, 0)

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), report.TotalListings)
	assert.Equal(t, int64(30), report.ByPropertyType[entity.PropertyTypeSingleFamily])
	assert.Equal(t, int64(560_000), report.MinPrice)
	assert.Equal(t, int64(2_350_000), report.MaxPrice)
	assert.InDelta(t, 1_180_000.5, report.AvgPrice, 0.001)
	assert.Equal(t, int64(168), report.PhotoCount)
}
