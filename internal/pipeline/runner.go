package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/ironsheep/rawconv/internal/config"
	"github.com/ironsheep/rawconv/internal/exposure"
	"github.com/ironsheep/rawconv/internal/imaging"
)

// Runner converts RAW files using a decoder and an encoder.
type Runner struct {
	decoder imaging.Decoder
	encoder imaging.Encoder
	log     *slog.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(decoder imaging.Decoder, encoder imaging.Encoder, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{decoder: decoder, encoder: encoder, log: log}
}

// Run locks cfg.Root, discovers RAW files and processes them in order.
//
// Lock and discovery errors are returned before any file is touched. Per-file
// failures are logged and counted in Stats without stopping the batch. When
// ctx is cancelled the remaining files are left alone and ctx.Err() is
// returned with the stats gathered so far.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (Stats, error) {
	var stats Stats

	lock, err := acquireLock(cfg.Root)
	if err != nil {
		return stats, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.log.Warn("failed to release lock", "path", lock.Path(), "error", err)
		}
	}()

	files, err := Discover(cfg.Root, cfg.Depth, cfg.RawExt)
	if err != nil {
		return stats, fmt.Errorf("file discovery failed: %w", err)
	}

	stats.Found = len(files)
	if len(files) == 0 {
		r.log.Info("no RAW files found", "root", cfg.Root, "depth", cfg.Depth, "ext", cfg.RawExt)
		return stats, nil
	}
	r.log.Info(fmt.Sprintf("found %d RAW files", len(files)), "root", cfg.Root)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			r.log.Warn("interrupted", "remaining", len(files)-i)
			r.logSummary(stats)
			return stats, err
		}
		stats.Add(r.ProcessFile(ctx, path, cfg.OutputExt))
	}

	r.logSummary(stats)
	return stats, nil
}

// ProcessFile converts one RAW file and deletes it once the output exists.
//
// The source is never removed when any stage fails or when the output cannot
// be found after encoding.
func (r *Runner) ProcessFile(ctx context.Context, path, outputExt string) FileResult {
	res := FileResult{Source: path, Output: OutputPath(path, outputExt)}

	fail := func(stage Stage, err error) FileResult {
		res.Outcome = Failed
		res.Err = &FileError{Stage: stage, Path: path, Err: err}
		r.log.Error(fmt.Sprintf("error processing %s", path), "stage", string(stage), "error", err)
		return res
	}

	img, err := r.decoder.Decode(ctx, path)
	if err != nil {
		return fail(StageDecode, err)
	}

	adjusted, exp, err := exposure.Correct(img)
	if err != nil {
		return fail(StageExposure, err)
	}
	res.Exposure = exp

	if err := r.encoder.Encode(adjusted, res.Output); err != nil {
		return fail(StageEncode, err)
	}

	r.log.Info(filepath.Base(path),
		"status", exp.Status.String(),
		"over", percent(exp.OverFraction),
		"under", percent(exp.UnderFraction),
		"saved_as", filepath.Base(res.Output),
	)

	info, err := os.Stat(res.Output)
	if errors.Is(err, fs.ErrNotExist) {
		res.Outcome = OutputMissing
		r.log.Warn("output not created, skipping deletion", "file", path)
		return res
	}
	if err != nil {
		return fail(StageVerify, err)
	}
	res.OutputBytes = info.Size()

	if err := os.Remove(path); err != nil {
		return fail(StageDelete, err)
	}
	r.log.Info("deleted original", "file", filepath.Base(path))
	r.log.Debug("output written", "file", filepath.Base(res.Output), "size", humanize.Bytes(uint64(info.Size())))

	res.Outcome = Converted
	return res
}

func (r *Runner) logSummary(stats Stats) {
	r.log.Info(fmt.Sprintf("Processed files: %d", stats.Processed))
	r.log.Info(fmt.Sprintf("Deleted RAW files: %d", stats.Deleted))
	if stats.Failed > 0 || stats.Skipped > 0 {
		r.log.Warn("some files were not converted", "failed", stats.Failed, "skipped", stats.Skipped)
	}
	if stats.OutputBytes > 0 {
		r.log.Debug("output total", "size", humanize.Bytes(uint64(stats.OutputBytes)))
	}
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
