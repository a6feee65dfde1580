package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/service"
	"hearth/internal/usecase"
)

// completionEnvelope is the top-level shape every completion response must
// carry: a single "properties" array.
type completionEnvelope struct {
	Properties []usecase.GeneratedListing `json:"properties"`
}

type generatorService struct {
	completion service.CompletionService
	pacer      usecase.Pacer
	validate   *validator.Validate
	logger     *slog.Logger
	slicePause time.Duration
}

// NewGeneratorService wires the completion client behind the pacer. slicePause
// is the idle gap between consecutive slices; tests pass zero.
func NewGeneratorService(
	completion service.CompletionService,
	pacer usecase.Pacer,
	logger *slog.Logger,
	slicePause time.Duration,
) usecase.GeneratorUsecase {
	return &generatorService{
		completion: completion,
		pacer:      pacer,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
		slicePause: slicePause,
	}
}

// GenerateBatch walks requests in slices of batchSize, one completion call per
// slice. A slice that fails to parse or validate is dropped and logged; the
// other slices are unaffected. Only context cancellation aborts the walk.
func (s *generatorService) GenerateBatch(
	ctx context.Context,
	requests []entity.GenerationRequest,
	batchSize int,
) ([]usecase.GeneratedListing, error) {
	if batchSize <= 0 {
		batchSize = len(requests)
	}

	records := make([]usecase.GeneratedListing, 0, len(requests))
	for start := 0; start < len(requests); start += batchSize {
		if start > 0 && s.slicePause > 0 {
			if err := sleepCtx(ctx, s.slicePause); err != nil {
				return records, err
			}
		}

		end := min(start+batchSize, len(requests))
		slice := requests[start:end]

		if err := s.pacer.Wait(ctx); err != nil {
			return records, errors.Wrap(err, "rate limiter wait")
		}

		parsed, err := s.generateSlice(ctx, slice)
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			s.logger.Warn("slice generation failed, skipping",
				slog.Int("offset", start),
				slog.Int("size", len(slice)),
				slog.Any("error", err))

			continue
		}

		records = append(records, parsed...)
	}

	return records, nil
}

func (s *generatorService) generateSlice(
	ctx context.Context,
	slice []entity.GenerationRequest,
) ([]usecase.GeneratedListing, error) {
	raw, err := s.completion.Complete(ctx, SystemPrompt(), BuildPrompt(slice))
	if err != nil {
		return nil, errors.Wrap(err, "completion call")
	}

	var envelope completionEnvelope
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &envelope); err != nil {
		s.logger.Debug("unparseable completion response", slog.String("raw", truncate(raw, 500)))

		return nil, errors.Wrap(err, "decode completion response")
	}

	if len(envelope.Properties) == 0 {
		return nil, errors.New("completion response holds no properties")
	}

	for i, record := range envelope.Properties {
		if err := s.validate.Struct(record); err != nil {
			s.logger.Debug("schema-invalid completion response",
				slog.Int("record", i),
				slog.String("raw", truncate(raw, 500)))

			return nil, errors.Wrapf(err, "record %d failed schema validation", i)
		}
	}

	return envelope.Properties, nil
}

// stripCodeFence removes a surrounding markdown fence (```json or bare ```)
// that models emit despite instructions. Unfenced input passes through.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")

	return strings.TrimSpace(trimmed)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
