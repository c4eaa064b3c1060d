package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/config"
)

var cfg *config.Config

// modeAnnotation names the config.Validate mode a command needs. Commands
// without it run offline.
const modeAnnotation = "config-mode"

var rootCmd = &cobra.Command{
	Use:   "buyer-match",
	Short: "Buyer/deal fit scoring for M&A trackers",
	Long:  "Normalizes free-text geography, scores buyer geography and service fit against deals, learns per-deal weights from approve/pass decisions, and merges duplicate buyers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		mode := cmd.Annotations[modeAnnotation]
		if mode == "" {
			mode = "offline"
		}
		return cfg.Validate(mode)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func storeMode() map[string]string { return map[string]string{modeAnnotation: "store"} }

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
