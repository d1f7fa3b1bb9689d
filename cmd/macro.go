package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marketlens/internal/bootstrap"
	"marketlens/internal/domain/macro"
)

func newMacroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macro",
		Short: "Inspect or record macro regime snapshots",
	}
	cmd.AddCommand(newMacroShowCmd(), newMacroRecordCmd())
	return cmd
}

func newMacroShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the snapshot the engine would use now",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := bootstrap.NewContainer()
			c.MustInitCore()
			defer c.Close()

			regime, err := c.Repos.MacroRegime.Current(cmd.Context())
			if err != nil {
				return err
			}
			if regime == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no fresh snapshot, analyses run technical-only")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %.2f, as of %s)\n",
				regime.Bucket(), regime.Confidence, regime.AsOf.Format(time.RFC3339))
			return nil
		},
	}
}

func newMacroRecordCmd() *cobra.Command {
	var (
		regime                               macro.Regime
		phase, cycle, fed, dollar, liquidity string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Store a new macro regime snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			regime.Phase = macro.Phase(phase)
			regime.CycleStage = macro.CycleStage(cycle)
			regime.FedPolicy = macro.FedPolicy(fed)
			regime.DollarRegime = macro.DollarRegime(dollar)
			regime.Liquidity = macro.Liquidity(liquidity)
			regime.AsOf = time.Now().UTC()

			c := bootstrap.NewContainer()
			c.MustInitCore()
			defer c.Close()

			if err := c.Repos.MacroRegime.Insert(cmd.Context(), &regime); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", regime.Bucket())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&phase, "phase", string(macro.PhaseTransition), "RISK_ON, RISK_OFF or TRANSITION")
	f.StringVar(&cycle, "cycle", string(macro.CycleMid), "EARLY, MID, LATE_CYCLE or RECESSION")
	f.StringVar(&fed, "fed", string(macro.FedNeutral), "EASING, NEUTRAL or TIGHTENING")
	f.StringVar(&dollar, "dollar", string(macro.DollarNeutral), "WEAK, NEUTRAL or STRENGTHENING")
	f.StringVar(&liquidity, "liquidity", string(macro.LiquidityNeutral), "EXPANDING, NEUTRAL or CONTRACTING")
	f.Float64Var(&regime.Confidence, "confidence", 0.5, "snapshot confidence 0-1")
	return cmd
}
