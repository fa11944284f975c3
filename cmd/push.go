package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"stocksync.GO/config"
	"stocksync.GO/service/stock"
)

var (
	pushBatchFile string
	pushDryRun    bool
)

var pushCmd = &cobra.Command{
	Use:   "stock:push <sku> <quantity>",
	Short: "Push one storefront quantity to the warehouse",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		config.InitLogger()

		qty, err := strconv.Atoi(args[1])
		if err != nil || qty < 0 {
			fmt.Printf("Invalid quantity %q (must be a non-negative integer)\n", args[1])
			os.Exit(1)
		}

		updater, err := buildPushUpdater()
		if err != nil {
			fmt.Printf("Setup failed: %v\n", err)
			os.Exit(1)
		}

		if err := updater.ProcessSingle(context.Background(), args[0], qty); err != nil {
			fmt.Printf("Push failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Push complete.")
	},
}

var pushBatchCmd = &cobra.Command{
	Use:   "stock:push-batch",
	Short: "Push a batch of storefront quantities from a JSON file",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		config.InitLogger()

		raw, err := os.ReadFile(pushBatchFile)
		if err != nil {
			fmt.Printf("Failed to read batch file: %v\n", err)
			os.Exit(1)
		}
		var updates map[string]int
		if err := json.Unmarshal(raw, &updates); err != nil {
			fmt.Printf("Invalid batch file (want {\"SKU\": qty, ...}): %v\n", err)
			os.Exit(1)
		}

		if pushDryRun {
			table, err := loadMapping()
			if err != nil {
				fmt.Printf("Setup failed: %v\n", err)
				os.Exit(1)
			}
			for sku, qty := range updates {
				item, skip := stock.Translate(table, sku, qty)
				if skip != stock.SkipNone {
					fmt.Printf("  [skip] %s (%s)\n", sku, skip)
					continue
				}
				fmt.Printf("  %s -> %s qty=%d warehouse=%s\n", sku, item.Sku, item.Quantity, item.WarehouseID)
			}
			return
		}

		updater, err := buildPushUpdater()
		if err != nil {
			fmt.Printf("Setup failed: %v\n", err)
			os.Exit(1)
		}

		res, err := updater.ProcessBatch(context.Background(), updates)
		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		if err != nil {
			fmt.Printf("Batch push failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Batch complete: pushed=%d skipped=%d\n", res.Pushed, res.Skipped)
	},
}

func init() {
	pushBatchCmd.Flags().StringVarP(&pushBatchFile, "file", "f", "", "JSON file of {sku: quantity} updates (required)")
	pushBatchCmd.MarkFlagRequired("file")
	pushBatchCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Print translated items without calling the warehouse API")
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pushBatchCmd)
}
