package main

import (
	"github.com/rigforge/configurator/common/filters"
	"github.com/spf13/cobra"
)

func newOptionsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the filterable values of every part type",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), filters.Options(e.catalog))
		},
	}
}
