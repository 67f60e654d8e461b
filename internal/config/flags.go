package config

// This file builds the root cobra command and its flags.
// Flags are grouped into output, traversal, behavior, and display.
// Negated flags (e.g. --no-recursive) are applied after parsing so Config
// defaults hold unless set.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// negatedFlags holds boolean flags that are applied after parsing.
// Each one inverts a default (e.g. noRecursive -> Recursive=false).
type negatedFlags struct {
	noRecursive bool
	forceColor  bool
	noColor     bool
}

// NewCommand returns the root command. Flags bind directly into cfg; run is
// called once positional args and negated flags have been applied and cfg
// has passed [Config.Validate]. Help and --version are handled by cobra and
// never reach run.
func NewCommand(cfg *Config, version string, run func(*Config) error) *cobra.Command {
	var negated negatedFlags

	cmd := &cobra.Command{
		Use:   "texconv [flags] <input>",
		Short: "Convert TGA/DDS game textures to PNG",
		Long: `texconv converts TGA and DDS texture files to PNG for use in web browsers.

<input> may be a single file or a directory. Directories are walked and every
.tga/.dds file is converted, mirroring the directory layout under --output
(default: next to the source files).

Textures that would share a .png name (icon.tga, icon.TGA, icon.dds) are all
kept: a .tga wins over a .dds and a lowercase extension over any other case,
and the rest keep their extension in the name (icon.dds.png).`,
		Example: `  texconv UIIcons.tga
  texconv Material/Common/ -o tlbb_web_ui/converted/
  texconv Material/ -r -o web_assets/`,
		Version:       version,
		Args:          positionalArgs(cfg),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyNegatedFlags(cfg, &negated)
			parsePositionalArgs(args, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("texconv v{{.Version}}\n")

	fs := cmd.Flags()
	fs.SortFlags = false
	defineOutputFlags(fs, cfg)
	defineTraversalFlags(fs, cfg, &negated)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)

	return cmd
}

// defineOutputFlags registers -o/--output and --compression.
func defineOutputFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Output, "output", "o", "", "Output file or directory")
	fs.Var(&compressionValue{&cfg.Compression}, "compression", "PNG compression: default | none | speed | best")
}

// defineTraversalFlags registers -r/--recursive and --no-recursive.
func defineTraversalFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVarP(&cfg.Recursive, "recursive", "r", cfg.Recursive, "Process directories recursively")
	fs.BoolVar(&n.noRecursive, "no-recursive", false, "Only convert files directly inside <input>")
}

// defineBehaviorFlags registers dry-run and manifest.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Probe and plan only; do not write PNG files")
	fs.StringVar(&cfg.Manifest, "manifest", "", "Write a TOML manifest of a directory run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "List decoders, test the PNG encoder and exit")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
}

// applyNegatedFlags copies negated flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noRecursive {
		cfg.Recursive = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// positionalArgs requires exactly one input path unless --check was given.
func positionalArgs(cfg *Config) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if cfg.CheckOnly {
			return cobra.MaximumNArgs(1)(cmd, args)
		}
		if len(args) != 1 {
			return errors.New("need exactly one input path")
		}
		return nil
	}
}

// parsePositionalArgs sets Input from the positional arg and normalizes Output.
func parsePositionalArgs(args []string, cfg *Config) {
	if len(args) > 0 {
		cfg.Input = NormalizeDirArg(args[0])
	}
	if cfg.Output != "" {
		cfg.Output = NormalizeDirArg(cfg.Output)
	}
}

// pflag.Value adapter so the Compression enum can be used with fs.Var.

type compressionValue struct{ p *Compression }

func (c *compressionValue) String() string { return string(*c.p) }
func (c *compressionValue) Type() string   { return "level" }
func (c *compressionValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "default":
		*c.p = CompressionDefault
	case "none":
		*c.p = CompressionNone
	case "speed", "fast":
		*c.p = CompressionSpeed
	case "best":
		*c.p = CompressionBest
	default:
		return fmt.Errorf("invalid compression %q (use 'default', 'none', 'speed' or 'best')", s)
	}
	return nil
}
