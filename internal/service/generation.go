package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/UnknownOlympus/datasim/internal/dataset"
	"github.com/UnknownOlympus/datasim/internal/generator"
	"github.com/UnknownOlympus/datasim/internal/metrics"
	"github.com/UnknownOlympus/datasim/internal/models"
	"github.com/UnknownOlympus/datasim/internal/repository"
)

// Progress receives a tick for every record written.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(num int) error
	Finish() error
}

// Summary describes a finished generation run.
type Summary struct {
	Path     string        // Path of the dataset file.
	Records  int           // Records written to the file.
	Bytes    int64         // Size of the file in bytes.
	Mirrored int64         // Rows copied into the database mirror, zero when disabled.
	Duration time.Duration // Time spent writing the file.
}

// GenerationService produces the dataset file and, optionally, mirrors it
// into the database.
type GenerationService struct {
	log      *slog.Logger         // Logger for logging service activities
	gen      *generator.Generator // Source of records
	metrics  *metrics.Metrics     // Metrics for tracking the run
	repo     repository.Interface // Database mirror, nil when disabled
	progress Progress             // Progress reporter, nil when disabled
}

// NewGenerationService creates a new instance of GenerationService.
// repo and progress may be nil.
func NewGenerationService(
	log *slog.Logger,
	gen *generator.Generator,
	metrics *metrics.Metrics,
	repo repository.Interface,
	progress Progress,
) *GenerationService {
	return &GenerationService{
		log:      log,
		gen:      gen,
		metrics:  metrics,
		repo:     repo,
		progress: progress,
	}
}

// Run writes generator.RecordCount records to the file at path. Failure to
// open the file is fatal and wraps dataset.ErrOutputUnavailable.
func (gs *GenerationService) Run(ctx context.Context, path string) (Summary, error) {
	gs.log.InfoContext(ctx, "Generating dataset...", "path", path, "records", generator.RecordCount)

	summary, err := gs.writeDataset(ctx, path)
	if err != nil {
		return summary, err
	}

	if gs.repo == nil {
		return summary, nil
	}

	mirrored, err := gs.mirror(ctx, path)
	if err != nil {
		gs.metrics.OutputErrors.WithLabelValues(metrics.StageMirror).Inc()
		return summary, err
	}
	summary.Mirrored = mirrored

	return summary, nil
}

func (gs *GenerationService) writeDataset(ctx context.Context, path string) (Summary, error) {
	summary := Summary{Path: path}

	writer, err := dataset.Create(path)
	if err != nil {
		gs.metrics.OutputErrors.WithLabelValues(metrics.StageOpen).Inc()
		gs.log.ErrorContext(ctx, "Failed to open output file", "path", path, "error", err)
		return summary, err
	}

	startTime := time.Now()
	err = gs.gen.Each(generator.RecordCount, func(rec models.Record) error {
		if errWrite := writer.Write(rec); errWrite != nil {
			return errWrite
		}
		gs.metrics.RecordsWritten.Inc()
		if gs.progress != nil {
			_ = gs.progress.Add(1)
		}
		return nil
	})
	if err != nil {
		gs.metrics.OutputErrors.WithLabelValues(metrics.StageWrite).Inc()
		_ = writer.Close()
		return summary, err
	}

	if err = writer.Close(); err != nil {
		gs.metrics.OutputErrors.WithLabelValues(metrics.StageClose).Inc()
		return summary, err
	}
	if gs.progress != nil {
		_ = gs.progress.Finish()
	}

	summary.Duration = time.Since(startTime)
	summary.Records = writer.Count()
	summary.Bytes = writer.Bytes()
	gs.metrics.GenerationSeconds.Observe(summary.Duration.Seconds())
	gs.metrics.OutputBytes.Set(float64(summary.Bytes))

	gs.log.InfoContext(ctx, "Dataset written", "path", path, "records", summary.Records, "bytes", summary.Bytes)

	return summary, nil
}

// mirror streams the written file back into the database.
func (gs *GenerationService) mirror(ctx context.Context, path string) (int64, error) {
	if err := gs.repo.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("failed to prepare mirror: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to reopen dataset for mirroring: %w", err)
	}
	defer file.Close()

	mirrored, err := gs.repo.ReplaceRecords(ctx, dataset.NewScanner(file).Next)
	if err != nil {
		return 0, fmt.Errorf("failed to mirror dataset: %w", err)
	}
	gs.metrics.RecordsMirrored.Add(float64(mirrored))

	gs.log.InfoContext(ctx, "Dataset mirrored to database", "rows", mirrored)

	return mirrored, nil
}
