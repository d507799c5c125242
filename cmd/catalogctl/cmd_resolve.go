package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/filters"
	"github.com/spf13/cobra"
)

func newResolveCmd(flags *globalFlags) *cobra.Command {
	var (
		selected string
		filter   []string
	)

	cmd := &cobra.Command{
		Use:   "resolve [part type]",
		Short: "List parts of one type compatible with a selection",
		Example: `  catalogctl resolve gpu --catalog catalog.json --select cpu=1,mobo=1
  catalogctl resolve cpu --catalog catalog.json --filter socket=AM5 --filter price_max=350`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, ok := compat.ParseSlot(args[0])
			if !ok {
				return fmt.Errorf("unknown part type %q", args[0])
			}

			e, err := flags.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sel, err := e.selection(selected)
			if err != nil {
				return err
			}

			res, err := compat.NewEngine().Resolve(cmd.Context(), e.catalog, slot, sel)
			if err != nil {
				return err
			}

			query := url.Values{}
			for _, f := range filter {
				key, value, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid filter %q, want field=value", f)
				}
				query.Add(strings.TrimSpace(key), strings.TrimSpace(value))
			}
			parts, err := filters.Apply(slot, res.Parts, query)
			if err != nil {
				return err
			}
			if parts == nil {
				parts = []any{}
			}
			res.Parts = parts
			res.Count = len(parts)

			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&selected, "select", "", "selected parts, e.g. cpu=1,mobo=2")
	cmd.Flags().StringArrayVar(&filter, "filter", nil, "attribute filter field=value (repeatable)")
	return cmd
}
