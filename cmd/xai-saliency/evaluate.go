package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/xai-saliency-mcp/internal/config"
	"github.com/ironsheep/xai-saliency-mcp/internal/dataset"
	"github.com/ironsheep/xai-saliency-mcp/internal/experiment"
	"github.com/ironsheep/xai-saliency-mcp/internal/explain"
	"github.com/ironsheep/xai-saliency-mcp/internal/report"
	"github.com/ironsheep/xai-saliency-mcp/internal/store"
)

// shapBackgroundSize is the number of held-out slices given to SHAP.
const shapBackgroundSize = 5

// NewEvaluateCmd creates the evaluate command.
func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score explanation methods over a dataset of MRI slices",
		Long: `Evaluate samples slices from the dataset, locates the tumour in each prepared
slice and scores the stored explanation overlays of every method against it.

Overlays are read from <overlays>/<method>/<sample id>.png. Grad-CAM
overlays are raw grayscale heatmaps and are colour-mapped here.

Results are written as one CSV per method and a Markdown summary into the
output directory, and mean scores are printed. With --db the run is also
recorded in the SQLite history.

Examples:
  xai-saliency evaluate --dataset ./brats --overlays ./overlays
  xai-saliency evaluate --methods lime,gradcam --limit 20 --seed 7 --db`,
		Args: cobra.NoArgs,
		RunE: runEvaluateCmd,
	}

	cmd.Flags().String("dataset", "", "Dataset root directory")
	cmd.Flags().String("overlays", "", "Explanation overlays directory")
	cmd.Flags().StringSlice("methods", nil, "Methods to evaluate (lime, shap, gradcam)")
	cmd.Flags().IntP("limit", "n", config.DefaultLimit, "Number of slices to evaluate (0 = all)")
	cmd.Flags().Int64("seed", config.DefaultSeed, "Shuffle seed")
	cmd.Flags().IntP("concurrency", "j", experiment.DefaultConcurrency, "Slices processed in parallel")
	cmd.Flags().StringP("output", "o", "", "Output directory for CSV and Markdown results")
	cmd.Flags().Bool("db", false, "Record the run in the SQLite results history")

	return cmd
}

func runEvaluateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyEvaluateFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return evaluate(ctx, cmd, cfg, logger)
}

// applyEvaluateFlags overrides cfg with every flag given on the command line.
func applyEvaluateFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("dataset") {
		cfg.Dataset.Root, err = flags.GetString("dataset")
	}
	if err == nil && flags.Changed("overlays") {
		cfg.OverlaysDir, err = flags.GetString("overlays")
	}
	if err == nil && flags.Changed("methods") {
		cfg.Methods, err = flags.GetStringSlice("methods")
	}
	if err == nil && flags.Changed("limit") {
		cfg.Dataset.Limit, err = flags.GetInt("limit")
	}
	if err == nil && flags.Changed("seed") {
		cfg.Dataset.Seed, err = flags.GetInt64("seed")
	}
	if err == nil && flags.Changed("concurrency") {
		cfg.Concurrency, err = flags.GetInt("concurrency")
	}
	if err == nil && flags.Changed("output") {
		cfg.Output.Dir, err = flags.GetString("output")
	}
	if err == nil && flags.Changed("db") {
		cfg.Output.Database, err = flags.GetBool("db")
	}
	return err
}

func evaluate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger zerolog.Logger) error {
	methods, err := cfg.ParsedMethods()
	if err != nil {
		return err
	}

	window := dataset.Window{First: cfg.Dataset.FirstSlice, Last: cfg.Dataset.LastSlice}
	samples, rest, err := dataset.Load(cfg.Dataset.Root, window, cfg.Dataset.Seed, cfg.Dataset.Limit)
	if err != nil {
		return err
	}
	logger.Info().Int("selected", len(samples)).Int("held_out", len(rest)).Msg("dataset loaded")

	background := shapBackground(rest)
	tools, err := explain.ForMethods(cfg.OverlaysDir, background, methods...)
	if err != nil {
		return err
	}

	runner := experiment.NewRunner(cfg.Locator(), tools,
		experiment.WithConcurrency(cfg.Concurrency),
		experiment.WithImageSize(cfg.ImageSize),
		experiment.WithLogger(logger),
	)
	run, err := runner.Run(ctx, samples)
	if err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}

	if err := writeReports(cfg, run, logger); err != nil {
		return err
	}
	if cfg.Output.Database {
		if err := recordRun(ctx, cfg, run, logger); err != nil {
			return err
		}
	}
	return report.WriteConsole(cmd.OutOrStdout(), run)
}

// shapBackground picks the first shapBackgroundSize held-out slices. Only
// the sample references are kept; nothing is decoded.
func shapBackground(rest []dataset.Sample) []explain.Sample {
	n := min(len(rest), shapBackgroundSize)
	background := make([]explain.Sample, 0, n)
	for _, s := range rest[:n] {
		background = append(background, explain.Sample{ID: s.ID})
	}
	return background
}

func writeReports(cfg *config.Config, run *experiment.Run, logger zerolog.Logger) error {
	var errs []error
	if cfg.Output.CSV {
		paths, err := report.WriteCSVFiles(cfg.Output.Dir, run)
		errs = append(errs, err)
		for _, p := range paths {
			logger.Info().Str("path", p).Msg("wrote CSV")
		}
	}
	if cfg.Output.Markdown {
		path, err := report.WriteMarkdownFile(cfg.Output.Dir, run)
		if err == nil {
			logger.Info().Str("path", path).Msg("wrote summary")
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func recordRun(ctx context.Context, cfg *config.Config, run *experiment.Run, logger zerolog.Logger) (err error) {
	db, err := store.Open(cfg.Output.DBDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	id, err := db.BeginRun(ctx, cfg, run.Started)
	if err != nil {
		return err
	}
	if err := db.SaveRun(ctx, id, run); err != nil {
		return err
	}
	logger.Info().Str("run", id.String()).Str("db", db.Path()).Msg("recorded run")
	return nil
}
