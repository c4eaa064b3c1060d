package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/dedupe"
)

var dedupeExecute bool

type dedupeOutput struct {
	Groups []dedupe.Group      `json:"groups"`
	Merge  *dedupe.MergeReport `json:"merge,omitempty"`
}

var dedupeCmd = &cobra.Command{
	Use:         "dedupe <tracker-id>",
	Short:       "Find duplicate buyers in a tracker (merge with --execute)",
	Args:        cobra.ExactArgs(1),
	Annotations: storeMode(),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initStoreEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		groups, err := e.Dedupe.FindDuplicateGroups(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := dedupeOutput{Groups: groups}
		if out.Groups == nil {
			out.Groups = []dedupe.Group{}
		}

		if dedupeExecute && len(groups) > 0 {
			report := e.Dedupe.Merge(cmd.Context(), groups)
			out.Merge = &report
		} else {
			zap.L().Info("dedupe: preview only", zap.Int("groups", len(groups)))
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeExecute, "execute", false, "merge the groups found (destructive)")
	rootCmd.AddCommand(dedupeCmd)
}
