package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tlbbweb/texconv/internal/config"
	"github.com/tlbbweb/texconv/internal/convert"
	"github.com/tlbbweb/texconv/internal/display"
	"github.com/tlbbweb/texconv/internal/logging"
	"github.com/tlbbweb/texconv/internal/naming"
	"github.com/tlbbweb/texconv/internal/report"
)

// Run is the directory-mode entry point. It discovers textures under
// cfg.Input, converts each into the mirrored location under cfg.OutputRoot(),
// logs the summary and returns aggregate stats. The error is non-nil only
// when the run could not start: the input root is unreadable or the output
// root cannot be created. Per-file failures are counted, not returned.
func Run(cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats
	inputRoot := cfg.Input
	outputRoot := cfg.OutputRoot()

	if !cfg.DryRun {
		if err := os.MkdirAll(outputRoot, 0o755); err != nil {
			return stats, fmt.Errorf("cannot create output directory %s: %w", outputRoot, err)
		}
	}

	files, err := Discover(inputRoot, cfg.Recursive, log)
	if err != nil {
		return stats, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.Total = len(files)

	var manifest *report.Manifest
	if cfg.Manifest != "" {
		manifest = &report.Manifest{
			Generated:  time.Now(),
			InputRoot:  inputRoot,
			OutputRoot: outputRoot,
			DryRun:     cfg.DryRun,
		}
	}

	logBatchHeader(cfg, log, &stats)

	conv := convert.New(cfg, log)
	for i, a := range naming.Assign(inputRoot, outputRoot, files) {
		stats.Current = i + 1
		res := processFile(cfg, log, conv, a, &stats)
		if manifest != nil {
			manifest.Add(manifestEntry(cfg, res))
		}
	}

	logSummary(cfg, log, &stats)

	if manifest != nil {
		manifest.Summary = report.Summary{
			Total:       stats.Total,
			Converted:   stats.Converted,
			Failed:      stats.Failed(),
			InputBytes:  stats.TotalInputBytes,
			OutputBytes: stats.TotalOutputBytes,
		}
		if err := report.Write(cfg.Manifest, manifest); err != nil {
			log.Error("Cannot write manifest: %v", err)
		} else {
			log.Info("Manifest written: %s", cfg.Manifest)
		}
	}
	return stats, nil
}

// processFile handles one texture: report the assigned output → create the
// output subdirectory → convert → update stats.
func processFile(
	cfg *config.Config,
	log *logging.Logger,
	conv *convert.Converter,
	a naming.Assignment,
	stats *RunStats,
) convert.Result {
	path, outputPath := a.Input, a.Output
	log.Debug("[%d/%d] %s", stats.Current, stats.Total, path)

	if a.Err != nil {
		log.Error("Error converting %s: %v", path, a.Err)
		return convert.Result{Input: path, Err: a.Err}
	}
	if a.Renamed {
		log.Warn("Output collision: %s shares its .png name, writing %s", filepath.Base(path), filepath.Base(outputPath))
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			err = fmt.Errorf("create output directory: %w", err)
			log.Error("Error converting %s: %v", path, err)
			return convert.Result{Input: path, Output: outputPath, Err: err}
		}
	}

	res := conv.Convert(path, outputPath)
	if res.OK() {
		stats.Converted++
		stats.TotalInputBytes += res.InBytes
		stats.TotalOutputBytes += res.Bytes
	}
	return res
}

func manifestEntry(cfg *config.Config, res convert.Result) report.Entry {
	e := report.Entry{
		Input:  res.Input,
		Output: res.Output,
		Format: res.Format,
		Mode:   string(res.Mode),
		Bytes:  res.Bytes,
	}
	if res.Format != "" {
		e.Action = res.Action.String()
	}
	switch {
	case !res.OK():
		e.Status = report.StatusFailed
		e.Error = res.Err.Error()
	case cfg.DryRun:
		e.Status = report.StatusPlanned
	default:
		e.Status = report.StatusConverted
	}
	return e
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d texture(s) in %s", stats.Total, cfg.Input)
	if !cfg.Recursive {
		log.Info("Traversal: top level only")
	}
	log.Debug("PNG compression: %s", cfg.Compression)
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Conversion Summary:")
	log.Info("  Total files: %d", stats.Total)
	log.Info("  Converted: %d", stats.Converted)
	if stats.Failed() > 0 {
		log.Warn("  Failed: %d", stats.Failed())
	} else {
		log.Info("  Failed: %d", stats.Failed())
	}

	if cfg.DryRun {
		log.Info("  Output size: n/a (dry run)")
		return
	}
	if stats.Converted > 0 {
		log.Info("  Output size: %s (input %s, %s)",
			display.Size(stats.TotalOutputBytes),
			display.Size(stats.TotalInputBytes),
			display.SizeDelta(stats.SizeDelta()))
	}
}
