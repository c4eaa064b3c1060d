package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/buyer-match/internal/geo"
)

type normalizeResult struct {
	States    []string `json:"states"`
	Provinces []string `json:"provinces"`
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <text>...",
	Short: "Resolve free-text geography to state codes",
	Example: `  buyer-match normalize "Dallas, TX" "Pacific Northwest"
  buyer-match normalize "Southeast; Ontario"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), normalizeResult{
			States:    geo.Normalize(args...),
			Provinces: geo.NormalizeProvinces(args...),
		})
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
