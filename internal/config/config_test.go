package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/adrian2504/TradeHack/internal/config"
	"github.com/adrian2504/TradeHack/internal/domain/bidding"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.NumRounds, convey.ShouldEqual, 3)
			convey.So(cfg.SocialWeight, convey.ShouldEqual, 0.7)
			convey.So(cfg.MoneyWeight, convey.ShouldEqual, 0)
			convey.So(cfg.RandomSeed, convey.ShouldEqual, 42)
			convey.So(cfg.UseExternal, convey.ShouldBeTrue)
			convey.So(cfg.External.Mode, convey.ShouldEqual, "gemini")
			convey.So(cfg.ExternalTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Strategies, convey.ShouldContainKey, bidding.PresetBalanced)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then default weights are the implicit two-weight form", func() {
			s, m := cfg.Weights().Effective()
			convey.So(s, convey.ShouldEqual, 0.7)
			convey.So(m, convey.ShouldAlmostEqual, 0.3, 1e-12)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		mutations := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"zero rounds", func(c *config.Config) { c.NumRounds = 0 }},
			{"zero concurrency", func(c *config.Config) { c.EvaluatorConcurrency = 0 }},
			{"weight above one", func(c *config.Config) { c.SocialWeight = 1.2 }},
			{"negative timeout", func(c *config.Config) { c.External.TimeoutMS = -1 }},
			{"broken strategy", func(c *config.Config) { c.Strategies["broken"] = bidding.Params{} }},
		}

		for _, m := range mutations {
			convey.Convey("When "+m.name+" is configured it is rejected", func() {
				cfg := config.New()
				m.mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
