package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stocksync.GO/config"
	"stocksync.GO/service/stock"
)

var syncRunCmd = &cobra.Command{
	Use:   "sync:run",
	Short: "Run one warehouse-to-storefront sync cycle",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		config.InitLogger()
		config.InitRedis()

		engine, lock, err := buildPullEngine()
		if err != nil {
			fmt.Printf("Setup failed: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		release, err := lock.Acquire(ctx)
		if errors.Is(err, stock.ErrLockHeld) {
			fmt.Println("Another sync run is in progress, exiting.")
			os.Exit(1)
		}
		if err != nil {
			fmt.Printf("Lock failed: %v\n", err)
			os.Exit(1)
		}
		defer release()

		report, err := engine.RunOnce(ctx)
		if err != nil {
			fmt.Printf("Sync cycle failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf(`
=== Sync Report ===
Run ID:     %s
Received:   %d
Pushed:     %d
Skipped:    %d
Duration:   %s
Checkpoint: %s
===================
`, report.RunID, report.Received, report.Pushed, report.Skipped,
			report.Duration.Round(time.Millisecond),
			report.CheckpointAt.Format(time.RFC3339))
	},
}

func init() {
	rootCmd.AddCommand(syncRunCmd)
}
