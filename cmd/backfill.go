package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"marketlens/internal/adapters/marketdata"
	"marketlens/internal/bootstrap"
	"marketlens/internal/domain/market_data"
	"marketlens/pkg/errors"
)

func newBackfillCmd() *cobra.Command {
	var (
		timeframe string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "backfill SYMBOL FILE.csv",
		Short: "Load historical OHLCV bars from a CSV file into ClickHouse",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, path := args[0], args[1]
			tf := market_data.Timeframe(timeframe)
			if !tf.Valid() {
				return errors.Wrapf(errors.ErrInvalidInput, "timeframe %q", timeframe)
			}
			if batchSize <= 0 {
				return errors.Wrapf(errors.ErrInvalidInput, "batch size %d", batchSize)
			}

			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "open %s", path)
			}
			defer f.Close()

			bars, err := marketdata.ReadBarsCSV(f)
			if err != nil {
				return errors.Wrapf(err, "parse %s", path)
			}

			c := bootstrap.NewContainer()
			c.MustInitCore()
			defer c.Close()

			for start := 0; start < len(bars); start += batchSize {
				end := min(start+batchSize, len(bars))
				if err := c.Repos.PriceBars.InsertBars(cmd.Context(), symbol, tf, bars[start:end]); err != nil {
					return err
				}
			}

			if len(bars) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %s %s %s bars (%s to %s)\n",
					humanize.Comma(int64(len(bars))), symbol, tf,
					bars[0].Date.Format("2006-01-02"), bars[len(bars)-1].Date.Format("2006-01-02"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no bars in file")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&timeframe, "timeframe", string(market_data.TimeframeDaily), "daily, weekly or hourly")
	cmd.Flags().IntVar(&batchSize, "batch", 1000, "rows per ClickHouse insert")
	return cmd
}
