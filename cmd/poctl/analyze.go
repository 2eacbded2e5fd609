package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	"github.com/bryanwahyu/supplychain-insight/internal/config"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/terminal"
	"github.com/bryanwahyu/supplychain-insight/internal/logger"
	"github.com/bryanwahyu/supplychain-insight/internal/middleware"
	"github.com/bryanwahyu/supplychain-insight/internal/wiring"
)

var (
	configPath string

	analyzeCategory  string
	analyzeVendor    string
	analyzeModel     string
	analyzeNarrative bool
	analyzeOutput    string
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show the metric tiles of an analysis category",
		Long: `Show the four metric tiles of one analysis category, optionally scoped to a vendor.

Examples:
  # Spend tiles across all vendors
  poctl analyze --category spend

  # Vendor performance for one vendor, with an AI narrative
  poctl analyze --category vendor-performance --vendor "Acme Corp" --narrative

  # Process efficiency as YAML using a specific model
  poctl analyze -c process-efficiency --narrative --model mistral-large2 -o yaml`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeCategory, "category", "c", "spend", "Analysis category (spend, vendor-performance, material-usage, process-efficiency)")
	cmd.Flags().StringVar(&analyzeVendor, "vendor", "", "Vendor name (empty for all vendors)")
	cmd.Flags().StringVarP(&analyzeModel, "model", "m", ai.DefaultModel, "AI model used with --narrative")
	cmd.Flags().BoolVar(&analyzeNarrative, "narrative", false, "Ask the AI model for a narrative analysis")
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", terminal.FormatHuman, "Output format (human, json, yaml)")
	return cmd
}

func newVendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "List the vendor names known to the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			opts, err := app.Service.Options(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range opts.Vendors {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := middleware.ValidateRequest(analyzeCategory, analyzeVendor, analyzeModel)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = " Connecting to warehouse..."
	s.Start()

	ctx := cmd.Context()
	app, err := open(ctx)
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer app.Close()

	if !analyzeNarrative {
		s.Suffix = " Querying metrics..."
		d, err := app.Service.Metrics(ctx, req)
		s.Stop()
		if err != nil {
			return err
		}
		return terminal.Display(cmd.OutOrStdout(), analyzeOutput, d, nil)
	}

	s.Suffix = fmt.Sprintf(" Generating analysis with %s...", req.Model)
	a, err := app.Service.Analyze(ctx, dashboard.NewSession("poctl"), req)
	s.Stop()
	if err != nil {
		return err
	}
	if analyzeOutput == terminal.FormatHuman {
		color.New(color.FgGreen).Fprintln(os.Stderr, "✅ Analysis complete")
	}
	return terminal.Display(cmd.OutOrStdout(), analyzeOutput, nil, a)
}

// open loads configuration and assembles the service. The CLI logs warnings
// only, to stderr, so they never mix with structured output.
func open(ctx context.Context) (*wiring.App, error) {
	path := configPath
	if path == "" {
		path = "config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}
	log, err := logger.New("warn", cfg.Logging.Format)
	if err != nil {
		log = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return wiring.Build(ctx, cfg, log)
}
