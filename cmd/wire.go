package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/adrian2504/TradeHack/internal/adapters/repository"
	"github.com/adrian2504/TradeHack/internal/adapters/settlement"
	service "github.com/adrian2504/TradeHack/internal/app"
	"github.com/adrian2504/TradeHack/internal/config"
	"github.com/adrian2504/TradeHack/internal/domain/fairness"
	"github.com/adrian2504/TradeHack/internal/domain/social"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// bootstrap loads configuration and initializes the global logger.
func bootstrap(ctx context.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	// Fall back to info on invalid input.
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// buildService builds an unstarted service from configuration.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithEvaluatorConcurrency(cfg.EvaluatorConcurrency),
		service.WithStrategies(cfg.Strategies),
		service.WithSeed(cfg.RandomSeed),
		service.WithExternalMode(cfg.External.Mode),
		service.WithExternalTimeout(cfg.ExternalTimeout()),
		service.WithDefaultRounds(cfg.NumRounds),
		service.WithDefaultWeights(cfg.Weights()),
	}

	if cfg.External.APIKey != "" {
		completer, err := social.NewGenAICompleter(ctx, cfg.External.APIKey, cfg.External.Model)
		if err != nil {
			return nil, fmt.Errorf("external evaluator: %w", err)
		}
		opts = append(opts, service.WithCompleter(completer))
	}

	if cfg.Database.DSN != "" {
		store, err := repository.Open(ctx, cfg.Database.DSN,
			repository.WithLogger(log),
			repository.WithQueryTimeout(cfg.DatabaseTimeout()),
		)
		if err != nil {
			return nil, fmt.Errorf("auction store: %w", err)
		}
		opts = append(opts, service.WithStore(store))
	}

	if cfg.Settlement.Enabled {
		opts = append(opts, service.WithSettler(settlement.NewMockSettler(
			settlement.WithRecipient(cfg.Settlement.Recipient),
			settlement.WithExplorerURL(cfg.Settlement.ExplorerURL),
			settlement.WithLogger(log),
		)))
	}

	if cfg.FairnessEnabled {
		opts = append(opts, service.WithFairness(fairness.NewLinear()))
	}

	return service.New(opts...), nil
}

// registerRuntimeCollectors exposes Go runtime and process metrics on the
// service registry. Repeated registration is ignored.
func registerRuntimeCollectors() error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := metrics.GetRegistry().Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}
