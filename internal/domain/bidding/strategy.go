// Package bidding decides how far each agent raises its bid between rounds.
package bidding

import (
	"math"
	"math/rand"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/money"
)

// Strategy escalates one agent's bid. Agents trailing in the ranking raise
// more than leaders; raises are capped by the remaining budget spread over
// the remaining rounds.
//
// A Strategy is not safe for concurrent use; it shares the run's random source.
type Strategy struct {
	params Params
	rng    *rand.Rand
}

// NewStrategy binds params to a random source.
func NewStrategy(p Params, rng *rand.Rand) *Strategy {
	return &Strategy{params: p, rng: rng}
}

// Params returns the strategy's tunables.
func (s *Strategy) Params() Params { return s.params }

// Next computes the agent's bid for the round after round (1-based).
// position is the agent's 0-based rank, or negative when it was not ranked.
// The returned bid never decreases and never exceeds the agent's ceiling.
func (s *Strategy) Next(state model.AgentState, position, numAgents, round, totalRounds int) model.BidDecision {
	if position < 0 {
		position = numAgents / 2
	}

	d := model.BidDecision{
		Round:       round,
		Position:    position,
		PreviousBid: state.CurrentBid,
		NewBid:      state.CurrentBid,
	}
	if numAgents > 1 {
		d.LoserFactor = float64(position) / float64(numAgents-1)
	}

	remaining := state.Remaining()
	if remaining == 0 {
		d.Exhausted = true
		return d
	}

	roundsLeft := totalRounds - round
	if roundsLeft < 1 {
		roundsLeft = 1
	}

	p := s.params
	d.Noise = p.NoiseMin + s.rng.Float64()*(p.NoiseMax-p.NoiseMin)
	d.RaiseFactor = p.BaseFraction * (p.LoserFactorMin + (p.LoserFactorMax-p.LoserFactorMin)*d.LoserFactor) * d.Noise
	d.PlannedRaise = math.Min(remaining*d.RaiseFactor, remaining/float64(roundsLeft))

	next := money.Round(math.Min(state.CurrentBid+d.PlannedRaise, state.TrueMaxBid), money.BidPrecision)
	next = math.Min(next, state.TrueMaxBid)
	d.NewBid = math.Max(next, state.CurrentBid)
	d.Exhausted = d.NewBid >= state.TrueMaxBid
	return d
}
