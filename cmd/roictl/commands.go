package main

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/collegeroi/internal/explorer"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

var (
	maxDisplay int
	limit      int
)

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return checkOutputFormat(outputFormat)
	}

	explainCmd.Flags().IntVar(&maxDisplay, "max-display", 0, "contributions to list before aggregating the rest (default from config)")
	importanceCmd.Flags().IntVar(&maxDisplay, "max-display", 0, "features to list (default from config)")
	predictionsCmd.Flags().IntVar(&limit, "limit", 0, "schools to list (default all)")
	browseCmd.Flags().IntVar(&maxDisplay, "max-display", 0, "contributions and features to list (default from config)")
}

// healthCmd checks backend health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show backend status and loaded horizons",
	Long: `Show backend status and which horizons have been loaded.

Examples:
  # Check a running collegeroid
  roictl health --server http://localhost:9090`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

var horizonsCmd = &cobra.Command{
	Use:   "horizons",
	Short: "List prediction horizons",
	Args:  cobra.NoArgs,
	RunE:  runHorizons,
}

var schoolsCmd = &cobra.Command{
	Use:   "schools <horizon>",
	Short: "List the schools covered by a horizon",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchools,
}

var featuresCmd = &cobra.Command{
	Use:   "features <horizon>",
	Short: "List the model features of a horizon",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeatures,
}

var explainCmd = &cobra.Command{
	Use:   "explain <horizon> <school>",
	Short: "Explain one school's predicted income",
	Long: `Show the base value, the largest feature contributions and the resulting
prediction for one school. Remaining features are summed into a single
"other features" entry.

Examples:
  roictl explain 6 "Harvard University"
  roictl explain 10 "Reed College" --max-display 5 -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runExplain,
}

var scatterCmd = &cobra.Command{
	Use:   "scatter <horizon> <feature>",
	Short: "Show one feature's value and contribution for every school",
	Args:  cobra.ExactArgs(2),
	RunE:  runScatter,
}

var importanceCmd = &cobra.Command{
	Use:   "importance <horizon>",
	Short: "Rank features by mean absolute contribution",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportance,
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions <horizon>",
	Short: "Rank schools by predicted income",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredictions,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse explanations interactively",
	Long: `Open an interactive terminal explorer.

Keys:
  tab / shift+tab   cycle views
  j / k             select school or feature
  h                 switch horizon
  r                 reload
  q                 quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

// withBackend opens the backend for the duration of fn.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}

func parseHorizon(arg string) (int, error) {
	h, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("horizon must be an integer, got %q", arg)
	}
	return h, nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		health, err := b.Health(ctx)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, health, func() string {
			target := "in-process"
			if serverURL != "" {
				target = serverURL
			}
			return fmt.Sprintf("Status: %s\nBackend: %s\nLoaded horizons: %v\n", health.Status, target, health.LoadedHorizons)
		})
	})
}

func runHorizons(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		horizons := b.ListHorizons()
		return render(cmd.OutOrStdout(), outputFormat, horizons, lines(horizons))
	})
}

func runSchools(cmd *cobra.Command, args []string) error {
	h, err := parseHorizon(args[0])
	if err != nil {
		return err
	}
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		schools, err := b.ListSchools(ctx, h)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, schools, lines(schools))
	})
}

func runFeatures(cmd *cobra.Command, args []string) error {
	h, err := parseHorizon(args[0])
	if err != nil {
		return err
	}
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		features, err := b.ListFeatures(ctx, h)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, features, lines(features))
	})
}

func runExplain(cmd *cobra.Command, args []string) error {
	return runView(cmd, views.KindInstance, args[0], selection.Params{School: args[1], MaxDisplay: maxDisplay})
}

func runScatter(cmd *cobra.Command, args []string) error {
	return runView(cmd, views.KindScatter, args[0], selection.Params{Feature: args[1]})
}

func runImportance(cmd *cobra.Command, args []string) error {
	return runView(cmd, views.KindImportance, args[0], selection.Params{MaxDisplay: maxDisplay})
}

func runPredictions(cmd *cobra.Command, args []string) error {
	return runView(cmd, views.KindPredictions, args[0], selection.Params{Limit: limit})
}

// runView resolves one view and prints it.
func runView(cmd *cobra.Command, kind views.Kind, horizonArg string, params selection.Params) error {
	h, err := parseHorizon(horizonArg)
	if err != nil {
		return err
	}
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		res, err := b.Resolve(ctx, kind, h, params)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, res.View(), func() string {
			return explorer.Render(res)
		})
	})
}

func runBrowse(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b backend) error {
		p := tea.NewProgram(explorer.NewModel(ctx, b, maxDisplay), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	})
}
