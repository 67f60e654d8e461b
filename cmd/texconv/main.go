// Command texconv is the CLI entrypoint for the texture-to-PNG converter.
//
// It parses flags, then either runs system diagnostics (--check), converts a
// single file, or walks a directory tree converting every TGA/DDS texture.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tlbbweb/texconv/internal/check"
	"github.com/tlbbweb/texconv/internal/config"
	"github.com/tlbbweb/texconv/internal/convert"
	"github.com/tlbbweb/texconv/internal/display"
	"github.com/tlbbweb/texconv/internal/logging"
	"github.com/tlbbweb/texconv/internal/naming"
	"github.com/tlbbweb/texconv/internal/pipeline"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Bootstrap: the logger doesn't exist yet, so flag errors go directly
	// to stderr.
	cfg := config.DefaultConfig()
	exit := 0
	cmd := config.NewCommand(&cfg, version, func(cfg *config.Config) error {
		exit = execute(cfg)
		return nil
	})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "texconv: %v\n", err)
		return 1
	}
	return exit
}

func execute(cfg *config.Config) int {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "texconv: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return 1
		}
		return 0
	}

	fi, err := os.Stat(cfg.Input)
	switch {
	case err == nil && fi.Mode().IsRegular():
		return convertFile(cfg, log)
	case err == nil && fi.IsDir():
		return convertDir(cfg, log)
	default:
		log.Error("Input path not found: %s", cfg.Input)
		return 1
	}
}

// convertFile handles single-file mode. A failed conversion is logged by the
// converter and still exits 0.
func convertFile(cfg *config.Config, log *logging.Logger) int {
	outputPath, renamed := naming.SingleOutputPath(cfg.Input, cfg.Output)
	if renamed {
		log.Warn("Output %s is not a .png file, writing %s", cfg.Output, outputPath)
	}
	if cfg.Output != "" && !cfg.DryRun {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			log.Error("Cannot create output directory: %v", err)
			return 1
		}
	}

	convert.New(cfg, log).Convert(cfg.Input, outputPath)
	return 0
}

// convertDir handles directory mode. Per-file failures are reported in the
// summary; only a run that cannot start exits non-zero.
func convertDir(cfg *config.Config, log *logging.Logger) int {
	log.Info("In:  %s", cfg.Input)
	log.Info("Out: %s", cfg.OutputRoot())
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	if _, err := pipeline.Run(cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
