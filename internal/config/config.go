// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/adrian2504/TradeHack/internal/domain/bidding"
	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/ranking"
	"github.com/adrian2504/TradeHack/internal/domain/social"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches the log handler to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// NumRounds is the default round count for a run.
	NumRounds int `koanf:"num_rounds"`

	// SocialWeight, MoneyWeight and FairnessWeight are the default ranking
	// weights. A zero MoneyWeight means 1 - SocialWeight.
	SocialWeight   float64 `koanf:"social_weight"`
	MoneyWeight    float64 `koanf:"money_weight"`
	FairnessWeight float64 `koanf:"fairness_weight"`

	// RandomSeed seeds bid escalation noise.
	RandomSeed int64 `koanf:"random_seed"`

	// UseExternal selects the external social evaluator for CLI runs.
	UseExternal bool `koanf:"use_external"`

	// EvaluatorConcurrency bounds concurrent social evaluations per round.
	EvaluatorConcurrency int `koanf:"evaluator_concurrency"`

	// FairnessEnabled attaches fairness scores to every run.
	FairnessEnabled bool `koanf:"fairness_enabled"`

	External   ExternalConfig            `koanf:"external"`
	Strategies map[string]bidding.Params `koanf:"strategies"`
	Database   DatabaseConfig            `koanf:"database"`
	Settlement SettlementConfig          `koanf:"settlement"`

	// Agents is the field used by the CLI run command.
	Agents []model.BidderProfile `koanf:"agents"`
}

// ExternalConfig configures the external social evaluator.
type ExternalConfig struct {
	Mode      string `koanf:"mode"`
	Model     string `koanf:"model"`
	APIKey    string `koanf:"api_key"`
	TimeoutMS int    `koanf:"timeout_ms"`
}

// DatabaseConfig configures the auction store. An empty DSN disables it.
type DatabaseConfig struct {
	DSN       string `koanf:"dsn"`
	TimeoutMS int    `koanf:"timeout_ms"`
}

// SettlementConfig configures winner settlement.
type SettlementConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Recipient   string `koanf:"recipient"`
	ExplorerURL string `koanf:"explorer_url"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		NumRounds:            3,
		SocialWeight:         ranking.DefaultSocialWeight,
		RandomSeed:           42,
		UseExternal:          true,
		EvaluatorConcurrency: ranking.DefaultConcurrency,
		External: ExternalConfig{
			Mode:      social.DefaultExternalMode,
			Model:     social.DefaultGenAIModel,
			TimeoutMS: int(social.DefaultExternalTimeout / time.Millisecond),
		},
		Strategies: bidding.Presets(),
		Database: DatabaseConfig{
			TimeoutMS: 5000,
		},
	}
}

// Weights returns the configured default ranking weights.
func (c *Config) Weights() ranking.Weights {
	return ranking.Weights{
		Social:   c.SocialWeight,
		Money:    c.MoneyWeight,
		Fairness: c.FairnessWeight,
	}
}

// ExternalTimeout returns the per-call external evaluator timeout.
func (c *Config) ExternalTimeout() time.Duration {
	return time.Duration(c.External.TimeoutMS) * time.Millisecond
}

// DatabaseTimeout returns the per-operation store timeout.
func (c *Config) DatabaseTimeout() time.Duration {
	return time.Duration(c.Database.TimeoutMS) * time.Millisecond
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.NumRounds < 1:
		return fmt.Errorf("%w: num_rounds must be >= 1", ErrInvalidConfig)
	case c.EvaluatorConcurrency < 1:
		return fmt.Errorf("%w: evaluator_concurrency must be >= 1", ErrInvalidConfig)
	case c.External.TimeoutMS < 0:
		return fmt.Errorf("%w: external.timeout_ms must not be negative", ErrInvalidConfig)
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for name, p := range c.Strategies {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: strategy %q: %w", ErrInvalidConfig, name, err)
		}
	}
	return nil
}
