package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"hearth/internal/domain/repository"
	"hearth/internal/domain/service"
	"hearth/internal/usecase"
)

type seederService struct {
	planner   usecase.PlannerUsecase
	generator usecase.GeneratorUsecase
	inserter  usecase.InserterUsecase
	artifacts service.ArtifactStore
	listings  repository.ListingRepository
	logger    *slog.Logger

	chunkSize  int
	chunkDelay time.Duration
}

// NewSeederService assembles the pipeline. chunkSize caps how many listings
// one generate+insert cycle covers; chunkDelay is the idle gap between cycles.
func NewSeederService(
	planner usecase.PlannerUsecase,
	generator usecase.GeneratorUsecase,
	inserter usecase.InserterUsecase,
	artifacts service.ArtifactStore,
	listings repository.ListingRepository,
	logger *slog.Logger,
	chunkSize int,
	chunkDelay time.Duration,
) usecase.SeederUsecase {
	if chunkSize <= 0 {
		chunkSize = 20
	}

	return &seederService{
		planner:    planner,
		generator:  generator,
		inserter:   inserter,
		artifacts:  artifacts,
		listings:   listings,
		logger:     logger,
		chunkSize:  chunkSize,
		chunkDelay: chunkDelay,
	}
}

// Run plans total listings and pushes them through the pipeline one chunk at a
// time. A chunk whose generation yields nothing or whose insert walk fails is
// recorded as failed and the run moves on; only context cancellation stops it
// early.
func (s *seederService) Run(ctx context.Context, total, batchSize int) (*usecase.RunSummary, error) {
	start := time.Now()
	requests := s.planner.Plan(total)
	summary := &usecase.RunSummary{Requested: total}

	s.logger.Info("seeding run started",
		slog.Int("total", total),
		slog.Int("batchSize", batchSize),
		slog.Int("chunkSize", s.chunkSize))

	chunkIndex := 0
	for offset := 0; offset < len(requests); offset += s.chunkSize {
		if chunkIndex > 0 && s.chunkDelay > 0 {
			if err := sleepCtx(ctx, s.chunkDelay); err != nil {
				return s.finish(summary, start), err
			}
		}

		end := min(offset+s.chunkSize, len(requests))
		chunk := requests[offset:end]

		records, err := s.generator.GenerateBatch(ctx, chunk, batchSize)
		if err != nil && ctx.Err() != nil {
			return s.finish(summary, start), err
		}
		if err != nil || len(records) == 0 {
			summary.FailedChunks = append(summary.FailedChunks, chunkIndex)
			s.logger.Warn("chunk produced no records",
				slog.Int("chunk", chunkIndex),
				slog.Any("error", err))
			chunkIndex++

			continue
		}
		summary.Generated += len(records)

		// Artifact persistence is best effort; the chunk still gets inserted
		// when the write fails.
		if err := s.artifacts.SaveChunk(ctx, chunkIndex, records); err != nil {
			s.logger.Warn("chunk artifact write failed",
				slog.Int("chunk", chunkIndex),
				slog.Any("error", err))
		}

		inserted, err := s.inserter.Insert(ctx, records)
		if err != nil {
			if ctx.Err() != nil {
				return s.finish(summary, start), err
			}
			summary.FailedChunks = append(summary.FailedChunks, chunkIndex)
			s.logger.Warn("chunk insert failed",
				slog.Int("chunk", chunkIndex),
				slog.Any("error", err))
			chunkIndex++

			continue
		}
		summary.Inserted += inserted.Inserted
		summary.SkippedDupes += inserted.SkippedDuplicate

		s.logger.Info("chunk complete",
			slog.Int("chunk", chunkIndex),
			slog.Int("generated", len(records)),
			slog.Int("inserted", inserted.Inserted),
			slog.Int("skippedInvalid", inserted.SkippedInvalid),
			slog.Int("skippedDuplicate", inserted.SkippedDuplicate),
			slog.Int("failed", inserted.Failed))

		chunkIndex++
	}

	summary = s.finish(summary, start)
	s.logger.Info("seeding run finished",
		slog.Int("requested", summary.Requested),
		slog.Int("generated", summary.Generated),
		slog.Int("inserted", summary.Inserted),
		slog.Int("skippedDupes", summary.SkippedDupes),
		slog.Int("failedChunks", len(summary.FailedChunks)),
		slog.Duration("elapsed", summary.Elapsed),
		slog.Float64("successRate", summary.SuccessRate))

	return summary, nil
}

func (s *seederService) finish(summary *usecase.RunSummary, start time.Time) *usecase.RunSummary {
	summary.Elapsed = time.Since(start)
	if summary.Requested > 0 {
		summary.SuccessRate = float64(summary.Inserted) / float64(summary.Requested)
	}

	return summary
}

// Report reads the stored dataset without touching the completion endpoint.
func (s *seederService) Report(ctx context.Context) (*usecase.StoreReport, error) {
	total, err := s.listings.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count listings")
	}

	byType, err := s.listings.CountByPropertyType(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count by property type")
	}

	prices, err := s.listings.PriceStats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "price stats")
	}

	photos, err := s.listings.CountPhotos(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count photos")
	}

	return &usecase.StoreReport{
		TotalListings:  total,
		ByPropertyType: byType,
		MinPrice:       prices.Min,
		MaxPrice:       prices.Max,
		AvgPrice:       prices.Avg,
		PhotoCount:     photos,
	}, nil
}
