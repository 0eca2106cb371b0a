package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "auction",
		Short: "Multi-round weighted auction ranking engine",
		Long: `auction runs multi-round auctions that rank bidders by a weighted blend
of normalized bid and social value, escalating bids between rounds.

Configuration is read from defaults, the YAML file named by AUCTION_CONFIG,
and AUCTION_* environment variables, in that order.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildServeCmd(),
		buildRunCmd(),
		buildRunStoredCmd(),
	)
	return rootCmd
}
