package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tcubridge/internal/observability"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var (
		window time.Duration
		recent int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded calls from the call-log database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if _, err := a.openDB(cmd.Context()); err != nil {
				return err
			}

			since := time.Now().Add(-window)
			sum, err := a.calls.Summary(cmd.Context(), since)
			if err != nil {
				return err
			}
			printSummary(cmd, sum)

			if recent <= 0 {
				return nil
			}
			recs, err := a.calls.Recent(cmd.Context(), recent)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nSTARTED\tOPERATION\tOUTCOME\tSTATUS\tATTEMPTS\tDURATION")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					r.StartedAt.Format(time.RFC3339), r.Operation, r.Outcome, r.StatusCode, r.Attempts, r.Duration.Round(time.Millisecond))
			}
			return w.Flush()
		},
	}
	cmd.Flags().DurationVar(&window, "since", 24*time.Hour, "summarize calls started within this window")
	cmd.Flags().IntVar(&recent, "recent", 10, "also list this many most recent calls")
	return cmd
}

func printSummary(cmd *cobra.Command, sum observability.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "calls since %s: %d (avg %s, max %s)\n",
		sum.Since.Format(time.RFC3339), sum.Total, sum.AvgDuration.Round(time.Millisecond), sum.MaxDuration.Round(time.Millisecond))

	outcomes := make([]string, 0, len(sum.ByOutcome))
	for o := range sum.ByOutcome {
		outcomes = append(outcomes, string(o))
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		oc := observability.Outcome(o)
		fmt.Fprintf(out, "  %-28s %6d  %5.1f%%\n", o, sum.ByOutcome[oc], 100*sum.Rate(oc))
	}
}
