package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/prospector-cli/internal/source"
)

var (
	enrichInput   string
	enrichColumn  string
	enrichMax     int
	enrichPreview bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Resolve and classify every name in a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		maxItems := enrichMax
		if maxItems == 0 {
			maxItems = cfg.Pipeline.MaxItems
		}

		src, err := source.NewCSV(enrichInput, source.CSVOptions{
			Column:   enrichColumn,
			MaxItems: maxItems,
		})
		if err != nil {
			return err
		}
		defer src.Close() //nolint:errcheck

		p, st, err := initPipeline(ctx, enrichPreview)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		_, err = p.Run(ctx, src, enrichInput)
		return err
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "CSV file of company names (required)")
	enrichCmd.Flags().StringVar(&enrichColumn, "column", "name", "header of the name column")
	enrichCmd.Flags().IntVar(&enrichMax, "max", 0, "cap on items consumed (default from config)")
	enrichCmd.Flags().BoolVar(&enrichPreview, "preview", false, "print accepted rows instead of writing to the sink")
	_ = enrichCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(enrichCmd)
}
