package main

import (
	"github.com/spf13/cobra"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Inspect and recalculate per-deal weight multipliers",
}

var weightsRecalcCmd = &cobra.Command{
	Use:         "recalc <deal-id>",
	Short:       "Recompute a deal's multipliers from its approve/pass history",
	Args:        cobra.ExactArgs(1),
	Annotations: storeMode(),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initStoreEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		adj, err := e.Adjust.Recalculate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), adj)
	},
}

var weightsShowCmd = &cobra.Command{
	Use:         "show <deal-id>",
	Short:       "Print a deal's multipliers (neutral when never recalculated)",
	Args:        cobra.ExactArgs(1),
	Annotations: storeMode(),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initStoreEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		adj, err := e.Adjust.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), adj)
	},
}

var weightsResetCmd = &cobra.Command{
	Use:         "reset <deal-id>",
	Short:       "Delete a deal's learned multipliers",
	Args:        cobra.ExactArgs(1),
	Annotations: storeMode(),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initStoreEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Adjust.Reset(cmd.Context(), args[0]); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]string{"status": "reset", "deal_id": args[0]})
	},
}

func init() {
	weightsCmd.AddCommand(weightsRecalcCmd, weightsShowCmd, weightsResetCmd)
	rootCmd.AddCommand(weightsCmd)
}
