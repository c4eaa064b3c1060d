package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/buyer-match/internal/geo"
	"github.com/sells-group/buyer-match/internal/servicefit"
)

// geoScoreRequest is the input of a single geography score.
type geoScoreRequest struct {
	Buyer         geo.BuyerProfile `json:"buyer"`
	DealStates    []string         `json:"deal_states"`
	LocationCount int              `json:"location_count"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score buyer fit",
}

var scoreGeoInput string

var scoreGeoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Score one buyer's geography against deal states",
	Long:  `Reads {"buyer": {...}, "deal_states": [...], "location_count": n} as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req geoScoreRequest
		if err := readJSONInput(scoreGeoInput, cmd.InOrStdin(), &req); err != nil {
			return err
		}
		e := newEnv(cfg, nil)
		return printJSON(cmd.OutOrStdout(), e.Geo.ScoreBuyer(req.Buyer, req.DealStates, max(req.LocationCount, 1)))
	},
}

var (
	scoreServiceInput    string
	scoreServiceCriteria string
)

var scoreServiceCmd = &cobra.Command{
	Use:   "service",
	Short: "Score one deal/buyer pair's service fit",
	Long:  "Reads a service fit input as JSON. Criteria from --criteria (YAML) replace the input's criteria.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in servicefit.Input
		if err := readJSONInput(scoreServiceInput, cmd.InOrStdin(), &in); err != nil {
			return err
		}
		if scoreServiceCriteria != "" {
			c, err := servicefit.LoadCriteria(scoreServiceCriteria)
			if err != nil {
				return err
			}
			in.Criteria = c
		}
		e := newEnv(cfg, nil)
		return printJSON(cmd.OutOrStdout(), e.Service.Score(cmd.Context(), in))
	},
}

var scoreDealCmd = &cobra.Command{
	Use:         "deal <deal-id>",
	Short:       "Score every buyer in a deal's tracker and save the scores",
	Args:        cobra.ExactArgs(1),
	Annotations: storeMode(),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initStoreEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		matches, err := e.Match.ScoreDeal(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), matches)
	},
}

func init() {
	scoreGeoCmd.Flags().StringVarP(&scoreGeoInput, "input", "i", "-", "JSON input file (- for stdin)")
	scoreServiceCmd.Flags().StringVarP(&scoreServiceInput, "input", "i", "-", "JSON input file (- for stdin)")
	scoreServiceCmd.Flags().StringVar(&scoreServiceCriteria, "criteria", "", "YAML service criteria file")

	scoreCmd.AddCommand(scoreGeoCmd, scoreServiceCmd, scoreDealCmd)
	rootCmd.AddCommand(scoreCmd)
}
