package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/prospector-cli/internal/validate"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Resolve and validate a single company name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]

		resolver, err := initResolver()
		if err != nil {
			return err
		}

		url, err := resolver.Resolve(ctx, name)
		if err != nil {
			return err
		}

		out := struct {
			Name     string `json:"name"`
			URL      string `json:"url,omitempty"`
			Live     bool   `json:"live"`
			FinalURL string `json:"final_url,omitempty"`
			Status   int    `json:"status_code,omitempty"`
		}{Name: name}

		if url != "" {
			normalized, nerr := validate.NormalizeURL(url, cfg.Validate.AllowHTTP)
			if nerr == nil {
				timeout := time.Duration(cfg.Budget.MaxLivenessSecs) * time.Second
				probe := validate.NewChecker().CheckLive(ctx, normalized, timeout)
				out.URL = normalized
				out.Live = probe.Live
				out.FinalURL = probe.FinalURL
				out.Status = probe.StatusCode
			} else {
				out.URL = url
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
