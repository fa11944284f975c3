//go:build cli
// +build cli

package main

import (
	_ "stocksync.GO/cron/jobs"
	_ "stocksync.GO/custom"

	"stocksync.GO/cmd"
	"stocksync.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
