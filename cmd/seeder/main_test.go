package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"hearth/internal/usecase"
)

type stubSeeder struct {
	summary   *usecase.RunSummary
	runErr    error
	report    *usecase.StoreReport
	reportErr error
}

func (s *stubSeeder) Run(context.Context, int, int) (*usecase.RunSummary, error) {
	return s.summary, s.runErr
}

func (s *stubSeeder) Report(context.Context) (*usecase.StoreReport, error) {
	return s.report, s.reportErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAndReport_CompletedRunExitsZero(t *testing.T) {
	seeder := &stubSeeder{summary: &usecase.RunSummary{Requested: 10, Generated: 10, Inserted: 10, SuccessRate: 1.0}}

	code := runAndReport(context.Background(), runOptions{count: 10, batchSize: 5}, seeder, discardLogger())

	assert.Equal(t, 0, code)
}

func TestRunAndReport_AllChunksFailedStillExitsZero(t *testing.T) {
	// The run reached its terminal state; per-chunk losses live in the
	// summary, not the exit code.
	seeder := &stubSeeder{summary: &usecase.RunSummary{
		Requested:    10,
		FailedChunks: []int{0, 1, 2, 3, 4},
	}}

	code := runAndReport(context.Background(), runOptions{count: 10, batchSize: 2}, seeder, discardLogger())

	assert.Equal(t, 0, code)
}

func TestRunAndReport_RunErrorExitsNonZero(t *testing.T) {
	seeder := &stubSeeder{runErr: assert.AnError}

	code := runAndReport(context.Background(), runOptions{count: 10, batchSize: 5}, seeder, discardLogger())

	assert.Equal(t, 1, code)
}

func TestRunAndReport_ValidateOnlyUsesReportPath(t *testing.T) {
	seeder := &stubSeeder{report: &usecase.StoreReport{TotalListings: 7}}

	code := runAndReport(context.Background(), runOptions{validateOnly: true}, seeder, discardLogger())

	assert.Equal(t, 0, code)
}

func TestRunAndReport_ReportErrorExitsNonZero(t *testing.T) {
	seeder := &stubSeeder{reportErr: assert.AnError}

	code := runAndReport(context.Background(), runOptions{validateOnly: true}, seeder, discardLogger())

	assert.Equal(t, 1, code)
}
