package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	runsLimit int
	runsRunID string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect enrichment run history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if runsRunID != "" {
			dispositions, err := st.ListDispositions(ctx, runsRunID)
			if err != nil {
				return eris.Wrap(err, "runs: list dispositions")
			}
			if len(dispositions) == 0 {
				fmt.Fprintln(os.Stderr, "No dispositions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATUS\tREASON\tURL\tINDUSTRY\tELAPSED")
			for _, d := range dispositions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					d.Name, d.Status, d.Reason, d.URL, d.Industry, d.Elapsed.Round(time.Millisecond))
			}
			return w.Flush()
		}

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs: list")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE\tSTATUS\tPROCESSED\tINCLUDED\tSTARTED")
		for _, r := range runs {
			processed, included := "-", "-"
			if r.Summary != nil {
				processed = fmt.Sprintf("%d", r.Summary.Processed)
				included = fmt.Sprintf("%d", r.Summary.Included)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Source, r.Status, processed, included, r.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to list")
	runsCmd.Flags().StringVar(&runsRunID, "run", "", "show dispositions for this run ID")
	rootCmd.AddCommand(runsCmd)
}
