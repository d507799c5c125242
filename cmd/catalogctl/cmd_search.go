package main

import (
	"fmt"
	"time"

	"github.com/rigforge/configurator/common/search"
	"github.com/spf13/cobra"
)

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var (
		budget     int64
		workers    int
		exhaustive bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the best complete build within a budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cfg := search.DefaultConfig()
			cfg.Workers = workers
			cfg.PCIe = e.opts.PCIe
			cfg.Wattage = e.opts.Wattage

			var searcher search.Searcher = search.NewGreedy(cfg, e.log)
			if exhaustive {
				searcher = search.NewExhaustive(cfg)
			}

			start := time.Now()
			result, err := searcher.Search(cmd.Context(), e.catalog, budget)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			e.log.Info("search finished", "budget", budget, "found", result.Found, "duration", time.Since(start))

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().Int64Var(&budget, "budget", 0, "maximum total price")
	cmd.Flags().IntVar(&workers, "workers", 4, "GPU candidates evaluated in parallel")
	cmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "enumerate every build instead of the pruned search")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}
