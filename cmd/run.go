package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	service "github.com/adrian2504/TradeHack/internal/app"
	"github.com/adrian2504/TradeHack/internal/domain/model"

	"github.com/spf13/cobra"
)

var errNoAgents = errors.New("no agents configured")

func buildRunCmd() *cobra.Command {
	var (
		rounds   int
		external bool
		settle   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one auction over the configured agents and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if len(cfg.Agents) == 0 {
				return errNoAgents
			}
			if !cmd.Flags().Changed("external") {
				external = cfg.UseExternal
			}

			svc, err := buildService(ctx, cfg, log)
			if err != nil {
				return err
			}
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("start service: %w", err)
			}
			defer svc.Stop()

			res, err := svc.RunAuction(ctx, service.RunRequest{
				Profiles:    cfg.Agents,
				NumRounds:   roundsFlag(cmd, rounds),
				UseExternal: external,
				Settle:      settle,
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 0, "number of rounds (default from config)")
	cmd.Flags().BoolVar(&external, "external", false, "score social value with the external evaluator (default from config)")
	cmd.Flags().BoolVar(&settle, "settle", false, "settle the final winner")
	return cmd
}

func buildRunStoredCmd() *cobra.Command {
	var (
		auctionID string
		rounds    int
		external  bool
	)

	cmd := &cobra.Command{
		Use:   "run-stored",
		Short: "Run a stored auction and write the final scores back",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("external") {
				external = cfg.UseExternal
			}

			svc, err := buildService(ctx, cfg, log)
			if err != nil {
				return err
			}
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("start service: %w", err)
			}
			defer svc.Stop()

			res, err := svc.RunStoredAuction(ctx, auctionID, roundsFlag(cmd, rounds), external)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&auctionID, "auction-id", "", "stored auction id")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "number of rounds (default from config)")
	cmd.Flags().BoolVar(&external, "external", false, "score social value with the external evaluator (default from config)")
	_ = cmd.MarkFlagRequired("auction-id")
	return cmd
}

// roundsFlag returns the --rounds value only when it was given.
func roundsFlag(cmd *cobra.Command, rounds int) *int {
	if !cmd.Flags().Changed("rounds") {
		return nil
	}
	return &rounds
}

func printResult(w io.Writer, res model.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
