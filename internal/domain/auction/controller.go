// Package auction runs the multi-round auction loop.
package auction

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adrian2504/TradeHack/internal/domain/bidding"
	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/ranking"
	"github.com/adrian2504/TradeHack/internal/domain/social"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"
)

// DefaultSeed seeds the escalation noise when no seed is configured.
const DefaultSeed int64 = 42

// Option configures a Controller.
type Option func(*Controller)

// WithRanker replaces the round ranker.
func WithRanker(r *ranking.Ranker) Option {
	return func(c *Controller) {
		if r != nil {
			c.ranker = r
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStrategies adds or overrides named strategy presets.
func WithStrategies(s map[string]bidding.Params) Option {
	return func(c *Controller) {
		for name, p := range s {
			c.strategies[strategyKey(name)] = p
		}
	}
}

// WithSeed sets the seed of the per-run random source.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.seed = seed
	}
}

// WithConcurrency bounds concurrent social evaluations within a round. It
// only applies to the default ranker; an injected ranker keeps its own limit.
func WithConcurrency(n int) Option {
	return func(c *Controller) {
		c.concurrency = n
	}
}

// Request describes one auction run.
type Request struct {
	Profiles  []model.BidderProfile
	NumRounds int
	Weights   ranking.Weights
	// Evaluator scores social value. Nil means rule-based.
	Evaluator social.Evaluator
}

// Controller owns agent state for the duration of a run. Rounds are
// strictly sequential.
type Controller struct {
	ranker      *ranking.Ranker
	log         logger.Logger
	strategies  map[string]bidding.Params
	seed        int64
	concurrency int
}

// New creates a Controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		log:        logger.NewNop(),
		strategies: bidding.Presets(),
		seed:       DefaultSeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ranker == nil {
		c.ranker = ranking.New(ranking.WithConcurrency(c.concurrency))
	}
	return c
}

// Run executes req.NumRounds rounds. Input errors return before any round is
// scored. The only other error is ctx cancellation, checked between rounds.
func (c *Controller) Run(ctx context.Context, req Request) (model.RunResult, error) {
	if err := c.validate(req); err != nil {
		metrics.RecordAuctionError("input")
		return model.RunResult{}, err
	}

	rng := rand.New(rand.NewSource(c.seed)) //nolint:gosec // simulation noise
	agents := make([]model.AgentState, len(req.Profiles))
	strategies := make([]*bidding.Strategy, len(req.Profiles))
	for i, p := range req.Profiles {
		params, err := c.strategy(p.Strategy)
		if err != nil {
			metrics.RecordAuctionError("input")
			return model.RunResult{}, fmt.Errorf("%w: %q: %w", model.ErrInvalidProfile, p.Name, err)
		}
		agents[i] = model.NewAgentState(p)
		strategies[i] = bidding.NewStrategy(params, rng)
	}

	evaluator := req.Evaluator
	if evaluator == nil {
		evaluator = social.NewRuleBased()
	}

	runID := uuid.NewString()
	log := c.log.Named("auction")
	log.Info(ctx, "auction started",
		logger.String("run_id", runID),
		logger.Int("agents", len(agents)),
		logger.Int("rounds", req.NumRounds),
		logger.String("evaluator", evaluator.Mode()))

	rounds := make([]model.RoundResult, 0, req.NumRounds)
	for r := 1; r <= req.NumRounds; r++ {
		if err := ctx.Err(); err != nil {
			metrics.RecordAuctionError("canceled")
			return model.RunResult{}, fmt.Errorf("round %d: %w", r, err)
		}

		start := time.Now()
		snapshots := make([]model.BidderProfile, len(agents))
		for i := range agents {
			snapshots[i] = agents[i].RoundProfile()
		}

		result, err := c.ranker.Rank(ctx, snapshots, req.Weights, evaluator)
		if err != nil {
			metrics.RecordAuctionError("rank")
			return model.RunResult{}, fmt.Errorf("round %d: %w", r, err)
		}
		result.RoundIndex = r
		rounds = append(rounds, result)
		metrics.RecordRound(float64(time.Since(start).Milliseconds()))

		log.Debug(ctx, "round ranked",
			logger.Int("round", r),
			logger.String("winner", result.Winner.Name),
			logger.Float64("winner_score", result.Winner.FinalScore),
			logger.String("social_mode", result.SocialMode))

		if r < req.NumRounds {
			c.escalate(agents, strategies, result, r, req.NumRounds)
		}
	}

	final := rounds[len(rounds)-1]
	res := model.RunResult{
		RunID:       runID,
		SocialMode:  rounds[0].SocialMode,
		Rounds:      rounds,
		FinalWinner: final.Winner,
		Agents:      agents,
	}
	metrics.RecordAuctionRun(res.SocialMode)
	log.Info(ctx, "auction finished",
		logger.String("run_id", runID),
		logger.String("final_winner", res.FinalWinner.Name),
		logger.String("social_mode", res.SocialMode))
	return res, nil
}

// escalate moves every agent to its next-round bid, in input order so the
// random sequence is reproducible for a seed.
func (c *Controller) escalate(agents []model.AgentState, strategies []*bidding.Strategy, result model.RoundResult, round, total int) {
	exhausted := 0
	for i := range agents {
		a := &agents[i]
		d := strategies[i].Next(*a, result.Position(a.Profile.Name), len(agents), round, total)
		a.CurrentBid = d.NewBid
		a.History = append(a.History, d)
		if d.Exhausted {
			exhausted++
			continue
		}
		metrics.RecordBidRaise(d.RaiseFactor)
	}
	metrics.UpdateAgentsExhausted(exhausted)
}

func (c *Controller) validate(req Request) error {
	if req.NumRounds < 1 {
		return fmt.Errorf("%w: got %d", model.ErrInvalidRounds, req.NumRounds)
	}
	if err := model.ValidateSet(req.Profiles); err != nil {
		return err
	}
	return req.Weights.Validate()
}

func (c *Controller) strategy(name string) (bidding.Params, error) {
	key := strategyKey(name)
	if key == "" {
		key = bidding.PresetBalanced
	}
	if p, ok := c.strategies[key]; ok {
		return p, nil
	}
	return bidding.Preset(key)
}

// strategyKey normalizes a strategy name the way bidding.Preset does.
func strategyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
