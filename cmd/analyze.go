package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"marketlens/internal/bootstrap"
	domain "marketlens/internal/domain/analysis"
	"marketlens/internal/domain/macro"
)

type analyzeOptions struct {
	noMacro bool
	noCache bool
	pretty  bool
}

// analyzeOutput is one line of the command output
type analyzeOutput struct {
	Symbol string         `json:"symbol"`
	Report *domain.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL...",
		Short: "Analyze symbols once and print the reports as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := bootstrap.NewContainer()
			c.MustInitCore()
			defer c.Close()

			var regime *macro.Regime
			if !opts.noMacro {
				var err error
				regime, err = c.Repos.MacroRegime.Current(cmd.Context())
				if err != nil {
					c.Log.Warnw("Macro snapshot unavailable, running technical-only", "error", err)
					regime = nil
				}
			}

			var results []domain.BatchResult
			if opts.noCache {
				results = c.Services.Analyzer.AnalyzeBatch(cmd.Context(), args, macro.StaticProvider{Regime: regime})
			} else {
				results = c.Services.Batch.Run(cmd.Context(), args, regime)
			}

			return writeResults(cmd.OutOrStdout(), results, opts.pretty)
		},
	}

	cmd.Flags().BoolVar(&opts.noMacro, "no-macro", false, "skip the macro bias stage")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the report cache")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func writeResults(w io.Writer, results []domain.BatchResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	for _, r := range results {
		out := analyzeOutput{Symbol: r.Symbol, Report: r.Report}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
