package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewBidderProfile(t *testing.T) {
	convey.Convey("Given profile construction", t, func() {
		convey.Convey("When start bid exceeds max bid", func() {
			p, err := model.NewBidderProfile("A", "US", "Lawyer", "", 150, 100)

			convey.Convey("Then start bid is clamped to the ceiling", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.StartBid, convey.ShouldEqual, 100)
				convey.So(p.MaxBid, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When start bid is negative", func() {
			p, err := model.NewBidderProfile("A", "US", "Lawyer", "", -5, 100)

			convey.Convey("Then it is clamped to zero", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.StartBid, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When required fields are invalid", func() {
			_, errName := model.NewBidderProfile("  ", "US", "x", "", 1, 10)
			_, errMax := model.NewBidderProfile("A", "US", "x", "", 0, 0)
			_, errNaN := model.NewBidderProfile("A", "US", "x", "", math.NaN(), 10)

			convey.Convey("Then each is an invalid-profile input error", func() {
				for _, err := range []error{errName, errMax, errNaN} {
					convey.So(errors.Is(err, model.ErrInvalidProfile), convey.ShouldBeTrue)
					convey.So(model.IsInputError(err), convey.ShouldBeTrue)
				}
			})
		})
	})
}

func TestValidateSet(t *testing.T) {
	convey.Convey("Given a set of profiles", t, func() {
		a := model.BidderProfile{Name: "A", MaxBid: 10}
		b := model.BidderProfile{Name: "B", MaxBid: 20}

		convey.So(model.ValidateSet([]model.BidderProfile{a, b}), convey.ShouldBeNil)
		convey.So(errors.Is(model.ValidateSet(nil), model.ErrEmptyProfiles), convey.ShouldBeTrue)
		convey.So(errors.Is(model.ValidateSet([]model.BidderProfile{a, a}), model.ErrDuplicateName), convey.ShouldBeTrue)
		convey.So(errors.Is(model.ValidateSet([]model.BidderProfile{{Name: "C"}}), model.ErrInvalidProfile), convey.ShouldBeTrue)
	})
}

func TestAgentState(t *testing.T) {
	convey.Convey("Given an agent initialized from a profile", t, func() {
		agent := model.NewAgentState(model.BidderProfile{Name: "A", StartBid: 50, MaxBid: 100})

		convey.So(agent.CurrentBid, convey.ShouldEqual, 50)
		convey.So(agent.TrueMaxBid, convey.ShouldEqual, 100)
		convey.So(agent.Remaining(), convey.ShouldEqual, 50)
		convey.So(agent.Phase(), convey.ShouldEqual, model.PhaseBidding)

		convey.Convey("The round snapshot carries the live bid as both start and max", func() {
			snap := agent.RoundProfile()
			convey.So(snap.StartBid, convey.ShouldEqual, 50)
			convey.So(snap.MaxBid, convey.ShouldEqual, 50)
			convey.So(agent.Profile.MaxBid, convey.ShouldEqual, 100)
		})

		convey.Convey("At the ceiling the agent is exhausted", func() {
			agent.CurrentBid = 100
			convey.So(agent.Remaining(), convey.ShouldEqual, 0)
			convey.So(agent.Phase(), convey.ShouldEqual, model.PhaseExhausted)
		})
	})
}

func TestRoundResultPosition(t *testing.T) {
	convey.Convey("Given a ranked round", t, func() {
		r := model.RoundResult{Ranking: []model.ScoreEntry{{Name: "B"}, {Name: "A"}}}
		convey.So(r.Position("B"), convey.ShouldEqual, 0)
		convey.So(r.Position("A"), convey.ShouldEqual, 1)
		convey.So(r.Position("Z"), convey.ShouldEqual, -1)

		run := model.RunResult{}
		_, ok := run.FinalRound()
		convey.So(ok, convey.ShouldBeFalse)
		run.Rounds = []model.RoundResult{r}
		last, ok := run.FinalRound()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(last.Ranking[0].Name, convey.ShouldEqual, "B")
	})
}
