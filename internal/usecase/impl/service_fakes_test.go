package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"
	"hearth/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// fakeCompletion scripts the completion endpoint. The handler receives the
// zero-based call index and the prompts.
type fakeCompletion struct {
	mu      sync.Mutex
	prompts []string
	handler func(call int, systemPrompt, userPrompt string) (string, error)
}

func (f *fakeCompletion) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	call := len(f.prompts)
	f.prompts = append(f.prompts, userPrompt)
	f.mu.Unlock()

	return f.handler(call, systemPrompt, userPrompt)
}

type fakePacer struct {
	waits int
	err   error
}

func (f *fakePacer) Wait(context.Context) error {
	f.waits++

	return f.err
}

type fakeArtifactStore struct {
	saved   []int
	payload map[int]any
	err     error
}

func (f *fakeArtifactStore) SaveChunk(_ context.Context, index int, payload any) error {
	if f.err != nil {
		return f.err
	}
	if f.payload == nil {
		f.payload = make(map[int]any)
	}
	f.saved = append(f.saved, index)
	f.payload[index] = payload

	return nil
}

func (f *fakeArtifactStore) Close() error { return nil }

// fakeListingRepository tracks created aggregates in memory and doubles as the
// read side for report tests.
type fakeListingRepository struct {
	existing  map[string]bool
	created   []*entity.Listing
	createErr error
	existsErr error

	total      int64
	byType     map[entity.PropertyType]int64
	priceStats repository.PriceStats
	photoCount int64
}

func (f *fakeListingRepository) Create(_ context.Context, listing *entity.Listing) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, listing)

	return nil
}

func (f *fakeListingRepository) ExistsByMLSNumber(_ context.Context, mlsNumber string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}

	return f.existing[mlsNumber], nil
}

func (f *fakeListingRepository) FindByMLSNumber(_ context.Context, mlsNumber string) (*entity.Listing, error) {
	for _, listing := range f.created {
		if listing.MLSNumber == mlsNumber {
			return listing, nil
		}
	}

	return nil, repository.ErrListingNotFound
}

func (f *fakeListingRepository) Count(context.Context) (int64, error) { return f.total, nil }

func (f *fakeListingRepository) CountByPropertyType(context.Context) (map[entity.PropertyType]int64, error) {
	return f.byType, nil
}

func (f *fakeListingRepository) PriceStats(context.Context) (*repository.PriceStats, error) {
	stats := f.priceStats

	return &stats, nil
}

func (f *fakeListingRepository) CountPhotos(context.Context) (int64, error) {
	return f.photoCount, nil
}

// fakeTxManager runs the callback against a factory that hands out the shared
// fake repository, so "transactional" writes land in the same place.
type fakeTxManager struct {
	repo     *fakeListingRepository
	executed int
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	f.executed++

	return fn(fakeRepoFactory{repo: f.repo})
}

type fakeRepoFactory struct {
	repo *fakeListingRepository
}

func (f fakeRepoFactory) NewListingRepository() repository.ListingRepository { return f.repo }

type fakePlanner struct {
	requests []entity.GenerationRequest
}

func (f *fakePlanner) Plan(n int) []entity.GenerationRequest {
	if len(f.requests) >= n {
		return f.requests[:n]
	}

	return f.requests
}

type fakeGenerator struct {
	calls   [][]entity.GenerationRequest
	handler func(call int, requests []entity.GenerationRequest) ([]usecase.GeneratedListing, error)
}

func (f *fakeGenerator) GenerateBatch(_ context.Context, requests []entity.GenerationRequest, _ int) ([]usecase.GeneratedListing, error) {
	call := len(f.calls)
	f.calls = append(f.calls, requests)

	return f.handler(call, requests)
}

type fakeInserter struct {
	batches [][]usecase.GeneratedListing
	result  usecase.InsertResult
	err     error
	handler func(call int, records []usecase.GeneratedListing) (usecase.InsertResult, error)
}

func (f *fakeInserter) Insert(_ context.Context, records []usecase.GeneratedListing) (usecase.InsertResult, error) {
	call := len(f.batches)
	f.batches = append(f.batches, records)
	if f.handler != nil {
		return f.handler(call, records)
	}
	if f.err != nil {
		return usecase.InsertResult{}, f.err
	}
	if f.result != (usecase.InsertResult{}) {
		return f.result, nil
	}

	return usecase.InsertResult{Inserted: len(records)}, nil
}

// validRecord builds a payload that passes both schema and range validation.
// The suffix keeps MLS numbers unique within a test.
func validRecord(suffix int) usecase.GeneratedListing {
	return usecase.GeneratedListing{
		MLSNumber:    fmt.Sprintf("AP-%07d", suffix),
		Address:      fmt.Sprintf("%d Harbor View Ave", 100+suffix),
		ZipCode:      "94607",
		Latitude:     37.85,
		Longitude:    -122.25,
		Bedrooms:     3,
		Bathrooms:    2.5,
		Sqft:         1850,
		YearBuilt:    1952,
		PropertyType: "single_family",
		Stories:      2,
		Price:        1_250_000,
	}
}

// envelopeJSON marshals records into the response shape the generator expects.
func envelopeJSON(records ...usecase.GeneratedListing) string {
	payload, err := json.Marshal(map[string]any{"properties": records})
	if err != nil {
		panic(err)
	}

	return string(payload)
}
