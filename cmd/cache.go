package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/prospector-cli/internal/resolve"
)

var cacheClearName string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the resolution cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List cached resolutions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache := resolve.OpenCache(cfg.Resolver.CachePath)

		entries := cache.Snapshot()
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "Cache is empty.")
			return nil
		}

		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRESOLVED")
		for _, name := range names {
			url := entries[name]
			if url == resolve.Empty {
				url = "(no result)"
			}
			fmt.Fprintf(w, "%s\t%s\n", name, url)
		}
		return w.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the cache, or a single name with --name",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cacheClearName != "" {
			cache := resolve.OpenCache(cfg.Resolver.CachePath)
			if !cache.Delete(cacheClearName) {
				fmt.Fprintf(os.Stderr, "No cache entry for %q.\n", cacheClearName)
				return nil
			}
			fmt.Printf("Cleared %q; it is eligible for re-resolution.\n", cacheClearName)
			return nil
		}

		if err := os.Remove(cfg.Resolver.CachePath); err != nil && !os.IsNotExist(err) {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().StringVar(&cacheClearName, "name", "", "clear only this entity name")
	cacheCmd.AddCommand(cacheShowCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
