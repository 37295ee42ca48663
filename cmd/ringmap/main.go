// Package main provides the ringmap CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/config"
	"github.com/matsen/ringmap/internal/storage"
	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	useDemo     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ringmap",
	Short: "Radial map of model, scheme and scene taxonomies",
	Long: `ringmap lays out three module hierarchies on concentric rings and draws
the cross-links that scheme modules declare to models and scenes.

Datasets are JSON or YAML documents with model, scheme and scene roots,
JSONL record files, or SQLite catalogs built with 'ringmap catalog import'.
When no dataset argument is given the 'dataset' config key is used.

All commands output JSON by default; pass --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		setupLogging(cmd.Name() == "serve")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&useDemo, "demo", false, "Use the built-in demonstration dataset")
	rootCmd.Version = Version
}

// setupLogging installs the default slog logger on stderr. The server logs
// JSON; every other command logs text.
func setupLogging(jsonLogs bool) {
	level := slog.LevelInfo
	if cfg, err := config.LoadGlobalConfig(); err == nil {
		_ = level.UnmarshalText([]byte(cfg.LogLevel))
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if jsonLogs {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// mustLoadConfig loads the global configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// errNoDataset is returned when neither an argument, the config nor --demo
// names a dataset.
var errNoDataset = errors.New("no dataset given")

// datasetSource picks the dataset path: the argument, then the configured
// dataset. An empty result with a nil error means the demo dataset.
func datasetSource(args []string, cfg *config.Config, demo bool) (string, error) {
	switch {
	case len(args) > 0 && args[0] != "":
		return config.ExpandTilde(args[0]), nil
	case demo:
		return "", nil
	case cfg != nil && cfg.Dataset != "":
		return cfg.Dataset, nil
	default:
		return "", errNoDataset
	}
}

// loadSource reads a dataset from path, or the demo dataset for "".
func loadSource(path string) (*taxonomy.Dataset, error) {
	if path == "" {
		return taxonomy.Demo()
	}
	return storage.Load(path)
}

// mustLoadDataset resolves and reads the dataset, exits on error.
func mustLoadDataset(args []string, cfg *config.Config) (*taxonomy.Dataset, string) {
	path, err := datasetSource(args, cfg, useDemo)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		exitWithError(ExitConfigError, "%v: pass a path or --demo", err)
	}
	ds, err := loadSource(path)
	if err != nil {
		exitWithError(ExitDataError, "loading dataset: %v", err)
	}
	slog.Debug("dataset loaded", "source", describeSource(path))
	return ds, path
}

func describeSource(path string) string {
	if path == "" {
		return "demo"
	}
	return path
}

// sizeFlags are the --width/--height overrides shared by drawing commands.
type sizeFlags struct {
	width, height float64
}

func (f *sizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "Drawing width in pixels (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "Drawing height in pixels (default from config)")
}

func (f *sizeFlags) resolve(cfg *config.Config) (float64, float64) {
	w, h := f.width, f.height
	if w <= 0 {
		w = cfg.Width
	}
	if h <= 0 {
		h = cfg.Height
	}
	return w, h
}

// mustMount lays out the dataset at the requested size, exits on error.
func mustMount(ds *taxonomy.Dataset, w, h float64) *surface.Surface {
	s, err := surface.Mount(context.Background(), nil, ds, surface.Options{Width: w, Height: h})
	if err != nil {
		exitWithError(ExitConfigError, "laying out diagram: %v", err)
	}
	return s
}

// joinIDs formats ids for human output.
func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "(none)"
	}
	return strings.Join(ids, ", ")
}
