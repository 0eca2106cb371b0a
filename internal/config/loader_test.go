package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrian2504/TradeHack/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		t.Setenv("GEMINI_API_KEY", "")

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.NumRounds, convey.ShouldEqual, 3)
				convey.So(cfg.External.APIKey, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("AUCTION_ADDR", ":8080")
			_ = os.Setenv("AUCTION_NUM_ROUNDS", "5")
			_ = os.Setenv("AUCTION_SOCIAL_WEIGHT", "0.4")
			_ = os.Setenv("AUCTION_USE_EXTERNAL", "false")
			_ = os.Setenv("AUCTION_EXTERNAL__API_KEY", "secret")
			_ = os.Setenv("AUCTION_EXTERNAL__TIMEOUT_MS", "2500")
			_ = os.Setenv("AUCTION_DATABASE__DSN", "postgres://localhost/auction")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.NumRounds, convey.ShouldEqual, 5)
				convey.So(cfg.SocialWeight, convey.ShouldEqual, 0.4)
				convey.So(cfg.UseExternal, convey.ShouldBeFalse)
				convey.So(cfg.External.APIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.External.TimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.External.Mode, convey.ShouldEqual, "gemini")
				convey.So(cfg.Database.DSN, convey.ShouldEqual, "postgres://localhost/auction")
			})
		})

		convey.Convey("When only the conventional Gemini key is set", func() {
			clearConfigEnvVars()
			t.Setenv("GEMINI_API_KEY", "from-gemini-env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is used as the external API key", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.External.APIKey, convey.ShouldEqual, "from-gemini-env")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
num_rounds: 4
money_weight: 0.5
social_weight: 0.5
fairness_enabled: true
settlement:
  enabled: true
  recipient: "charity-wallet"
strategies:
  steady:
    base_fraction: 0.5
    loser_factor_min: 0.5
    loser_factor_max: 0.5
    noise_min: 1
    noise_max: 1
agents:
  - name: "Alice"
    profession: "Teacher"
    social_contribution: "Donated $5,000 to schools"
    start_bid: 1000
    max_bid: 4000
    strategy: "steady"
  - name: "Bob"
    profession: "Banker"
    start_bid: 2000
    max_bid: 6000
`
			path := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("AUCTION_CONFIG", path)
			_ = os.Setenv("AUCTION_NUM_ROUNDS", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file with env taking precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.NumRounds, convey.ShouldEqual, 6)
				convey.So(cfg.MoneyWeight, convey.ShouldEqual, 0.5)
				convey.So(cfg.FairnessEnabled, convey.ShouldBeTrue)
				convey.So(cfg.Settlement.Enabled, convey.ShouldBeTrue)
				convey.So(cfg.Settlement.Recipient, convey.ShouldEqual, "charity-wallet")
				convey.So(cfg.Strategies["steady"].BaseFraction, convey.ShouldEqual, 0.5)
				convey.So(cfg.Strategies, convey.ShouldContainKey, "greedy")
				convey.So(cfg.Agents, convey.ShouldHaveLength, 2)
				convey.So(cfg.Agents[0].Name, convey.ShouldEqual, "Alice")
				convey.So(cfg.Agents[0].SocialContribution, convey.ShouldEqual, "Donated $5,000 to schools")
				convey.So(cfg.Agents[0].MaxBid, convey.ShouldEqual, 4000)
				convey.So(cfg.Agents[1].Strategy, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading the shipped example config", func() {
			_ = os.Setenv("AUCTION_CONFIG", filepath.Join("..", "..", "configs", "auction.yaml"))
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is valid and lists the demo agents", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Agents, convey.ShouldHaveLength, 2)
				convey.So(cfg.Strategies["cautious"].NoiseMin, convey.ShouldEqual, 0.95)
				convey.So(cfg.FairnessEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("AUCTION_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the environment holds an invalid value", func() {
			_ = os.Setenv("AUCTION_SOCIAL_WEIGHT", "3")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"AUCTION_CONFIG", "AUCTION_ADDR", "AUCTION_NUM_ROUNDS", "AUCTION_SOCIAL_WEIGHT",
		"AUCTION_USE_EXTERNAL", "AUCTION_EXTERNAL__API_KEY", "AUCTION_EXTERNAL__TIMEOUT_MS",
		"AUCTION_DATABASE__DSN",
	} {
		_ = os.Unsetenv(key)
	}
}
