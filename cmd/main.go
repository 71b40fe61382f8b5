package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/datasim/internal/config"
	"github.com/UnknownOlympus/datasim/internal/generator"
	"github.com/UnknownOlympus/datasim/internal/metrics"
	"github.com/UnknownOlympus/datasim/internal/repository"
	"github.com/UnknownOlympus/datasim/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	os.Exit(run(os.Stdout))
}

// run performs one generation run and returns the process exit code.
// User-facing messages go to stdout.
func run(stdout io.Writer) int {
	// The context only bounds the optional database round-trip.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env, stdout).With("run_id", uuid.NewString())

	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	seed := cfg.Seed
	if !cfg.HasSeed {
		seed = generator.TimeSeed(time.Now())
	}
	logger.DebugContext(ctx, "Random source seeded", "seed", seed, "fixed", cfg.HasSeed)
	gen := generator.New(generator.NewSource(seed))

	var repo repository.Interface
	if cfg.Database.Enabled() {
		dtb, err := repository.NewDatabase(ctx,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			fmt.Fprintf(stdout, "failed to connect to mirror database: %v\n", err)
			return 1
		}
		defer dtb.Close()
		repo = repository.NewRepository(dtb, logger)
	}

	var progress service.Progress
	if cfg.Progress {
		progress = progressbar.NewOptions(generator.RecordCount,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating records"),
			progressbar.OptionShowCount(),
		)
	}

	genService := service.NewGenerationService(logger, gen, appMetrics, repo, progress)

	summary, err := genService.Run(ctx, cfg.OutputPath)
	writeMetrics(ctx, logger, cfg.MetricsFile, reg)
	if err != nil {
		fmt.Fprintf(stdout, "failed to generate dataset: %v\n", err)
		return 1
	}

	logger.InfoContext(ctx, "Generation finished",
		"path", summary.Path,
		"size", humanize.Bytes(uint64(summary.Bytes)), //nolint:gosec // sizes are never negative
		"duration", summary.Duration,
		"mirrored", summary.Mirrored,
	)
	fmt.Fprintf(stdout, "generated %d records to %s\n", summary.Records, summary.Path)

	return 0
}

// writeMetrics dumps the registry to path when one is configured. Failures are
// logged and do not change the exit code.
func writeMetrics(ctx context.Context, log *slog.Logger, path string, reg *prometheus.Registry) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path, reg); err != nil {
		log.ErrorContext(ctx, "Failed to export metrics", "path", path, "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
