// Command seeder generates synthetic Alder Point listings through a completion
// endpoint and persists them to PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"hearth/config"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/service"
	"hearth/internal/infra/artifact"
	"hearth/internal/infra/llm"
	logs "hearth/internal/infra/log"
	"hearth/internal/infra/persistence/postgres"
	"hearth/internal/usecase"
	"hearth/internal/usecase/impl"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

type runOptions struct {
	count        int
	batchSize    int
	validateOnly bool
}

type runParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Options runOptions
	DB      *gorm.DB
	Seeder  usecase.SeederUsecase
	Logger  *slog.Logger
}

func main() {
	opts := runOptions{}
	flag.IntVar(&opts.count, "count", 100, "total number of listings to generate")
	flag.IntVar(&opts.batchSize, "batch-size", 10, "listings requested per completion call")
	flag.BoolVar(&opts.validateOnly, "validate-only", false, "report on the stored dataset instead of generating")
	flag.Parse()

	fx.New(
		fx.Supply(opts),
		injectInfra(),
		injectUsecase(),
		fx.Invoke(
			runPipeline,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		postgres.NewTransactionManager,
		postgres.NewListingRepository,
		llm.NewClient,
		func(cfg *config.Config) usecase.Pacer {
			rpm := 0
			if cfg.LLM != nil {
				rpm = cfg.LLM.RequestsPerMinute
			}

			return llm.NewRateLimiter(rpm)
		},
		func(cfg *config.Config) (service.ArtifactStore, error) {
			dir := "./generated"
			if cfg.Seeder != nil && cfg.Seeder.ArtifactDir != "" {
				dir = cfg.Seeder.ArtifactDir
			}

			return artifact.NewChunkStore(dir)
		},
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		func() usecase.PlannerUsecase {
			return impl.NewPlannerService(nil)
		},
		func(
			completion service.CompletionService,
			pacer usecase.Pacer,
			logger *slog.Logger,
			cfg *config.Config,
		) usecase.GeneratorUsecase {
			pause := time.Second
			if cfg.LLM != nil && cfg.LLM.SlicePause > 0 {
				pause = cfg.LLM.SlicePause
			}

			return impl.NewGeneratorService(completion, pacer, logger, pause)
		},
		impl.NewInserterService,
		func(
			planner usecase.PlannerUsecase,
			generator usecase.GeneratorUsecase,
			inserter usecase.InserterUsecase,
			artifacts service.ArtifactStore,
			listings repository.ListingRepository,
			logger *slog.Logger,
			cfg *config.Config,
		) usecase.SeederUsecase {
			chunkSize := 0
			var chunkDelay time.Duration
			if cfg.Seeder != nil {
				chunkSize = cfg.Seeder.ChunkSize
				chunkDelay = cfg.Seeder.ChunkDelay
			}

			return impl.NewSeederService(planner, generator, inserter, artifacts, listings, logger, chunkSize, chunkDelay)
		},
	)
}

func runPipeline(ctx context.Context, params runParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := execute(ctx, params)
				if err := params.Shutdown(fx.ExitCode(code)); err != nil {
					params.Logger.Error("failed to shutdown gracefully", slog.Any("error", err))
				}
			}()

			return nil
		},
	})
}

func execute(ctx context.Context, params runParams) int {
	if err := postgres.RunMigrations(params.DB); err != nil {
		params.Logger.Error("schema migration failed", slog.Any("error", err))

		return 1
	}

	return runAndReport(ctx, params.Options, params.Seeder, params.Logger)
}

// runAndReport drives the pipeline and maps its outcome to a process exit
// code. Only top-level failures exit non-zero; a completed run exits zero even
// when every chunk failed, since per-chunk losses are reported in the summary.
func runAndReport(ctx context.Context, opts runOptions, seeder usecase.SeederUsecase, logger *slog.Logger) int {
	if opts.validateOnly {
		report, err := seeder.Report(ctx)
		if err != nil {
			logger.Error("store report failed", slog.Any("error", err))

			return 1
		}
		printReport(report)

		return 0
	}

	summary, err := seeder.Run(ctx, opts.count, opts.batchSize)
	if err != nil {
		logger.Error("seeding run failed", slog.Any("error", err))

		return 1
	}
	printSummary(summary)

	return 0
}

func printSummary(summary *usecase.RunSummary) {
	fmt.Printf("\nSeeding complete in %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("  requested:       %d\n", summary.Requested)
	fmt.Printf("  generated:       %d\n", summary.Generated)
	fmt.Printf("  inserted:        %d\n", summary.Inserted)
	fmt.Printf("  skipped (dupes): %d\n", summary.SkippedDupes)
	fmt.Printf("  failed chunks:   %d\n", len(summary.FailedChunks))
	fmt.Printf("  success rate:    %.1f%%\n", summary.SuccessRate*100)
}

func printReport(report *usecase.StoreReport) {
	fmt.Printf("\nStored dataset\n")
	fmt.Printf("  listings: %d\n", report.TotalListings)
	for propertyType, count := range report.ByPropertyType {
		fmt.Printf("    %-14s %d\n", propertyType+":", count)
	}
	fmt.Printf("  price min/avg/max: %d / %.0f / %d\n", report.MinPrice, report.AvgPrice, report.MaxPrice)
	fmt.Printf("  photos: %d\n", report.PhotoCount)
}
