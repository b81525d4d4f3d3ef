// Package main is the entrypoint for the composeguard CLI.
package main

import (
	"os"

	"github.com/huangsam/composeguard/cmd"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	cmd.SetHistoryManager(iocache.Manager)

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogWarn("composeguard failed", err)
		os.Exit(1)
	}
}
