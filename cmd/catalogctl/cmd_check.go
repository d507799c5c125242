package main

import (
	"github.com/rigforge/configurator/common/compat"
	"github.com/rigforge/configurator/common/evaluation"
	"github.com/spf13/cobra"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var selected string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "List the compatibility rules a selection breaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sel, err := e.selection(selected)
			if err != nil {
				return err
			}

			violations := compat.NewEngine().Check(sel)
			if violations == nil {
				violations = []compat.Violation{}
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"compatible": len(violations) == 0,
				"violations": violations,
			})
		},
	}

	cmd.Flags().StringVar(&selected, "select", "", "selected parts, e.g. cpu=1,mobo=2")
	return cmd
}

func newEvaluateCmd(flags *globalFlags) *cobra.Command {
	var selected string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a selection against the usage profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sel, err := e.selection(selected)
			if err != nil {
				return err
			}

			evaluator, err := evaluation.NewEvaluator(evaluation.DefaultProfiles()...)
			if err != nil {
				return err
			}
			profiles, err := evaluator.Evaluate(sel)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"profiles": profiles})
		},
	}

	cmd.Flags().StringVar(&selected, "select", "", "selected parts, e.g. cpu=1,mobo=2")
	return cmd
}
