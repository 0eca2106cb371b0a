// Package ranking combines money and social scores into a round ranking.
package ranking

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/money"
	"github.com/adrian2504/TradeHack/internal/domain/social"
)

// DefaultConcurrency bounds in-flight social evaluations per round.
const DefaultConcurrency = 8

// Option configures a Ranker.
type Option func(*Ranker)

// WithConcurrency sets how many profiles are evaluated at once.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// Ranker scores and orders one round of bidders.
type Ranker struct {
	concurrency int
	fallback    social.Evaluator
}

// New creates a Ranker.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		concurrency: DefaultConcurrency,
		fallback:    social.NewRuleBased(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every profile and returns them sorted by final score, best
// first. Ties keep input order. A nil evaluator means rule-based scoring.
// Inputs are never modified.
func (r *Ranker) Rank(ctx context.Context, profiles []model.BidderProfile, w Weights, ev social.Evaluator) (model.RoundResult, error) {
	if len(profiles) == 0 {
		return model.RoundResult{}, model.ErrEmptyProfiles
	}
	if err := w.Validate(); err != nil {
		return model.RoundResult{}, err
	}
	if ev == nil {
		ev = r.fallback
	}

	bids := make([]float64, len(profiles))
	for i, p := range profiles {
		bids[i] = p.MaxBid
	}
	moneyScores := money.Scores(bids)
	results := r.evaluate(ctx, profiles, ev)

	ws, wm := w.Effective()
	mode := model.SocialModeRuleBased
	entries := make([]model.ScoreEntry, len(profiles))
	finals := make([]float64, len(profiles))
	for i, p := range profiles {
		res := results[i]
		if !res.Fallback && res.Source != model.SocialModeRuleBased {
			mode = res.Source
		}
		finals[i] = ws*res.Score + wm*moneyScores[i]
		entries[i] = model.ScoreEntry{
			Name:         p.Name,
			MoneyScore:   money.Round(moneyScores[i], money.ScorePrecision),
			SocialScore:  money.Round(res.Score, money.ScorePrecision),
			FinalScore:   money.Round(finals[i], money.ScorePrecision),
			SocialReason: res.Reason,
			SocialSource: res.Source,
			Bid:          p.MaxBid,
			Profile:      p,
		}
	}

	// order on unrounded finals; rounding is presentation only
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return finals[order[a]] > finals[order[b]]
	})
	ranked := make([]model.ScoreEntry, len(entries))
	for pos, idx := range order {
		ranked[pos] = entries[idx]
	}

	return model.RoundResult{
		Ranking:    ranked,
		Winner:     ranked[0],
		SocialMode: mode,
	}, nil
}

// evaluate runs the evaluator over every profile with bounded parallelism.
// Each goroutine owns exactly one slot of the result slice.
func (r *Ranker) evaluate(ctx context.Context, profiles []model.BidderProfile, ev social.Evaluator) []social.Result {
	results := make([]social.Result, len(profiles))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := range profiles {
		p := profiles[i]
		g.Go(func() error {
			results[i] = ev.Evaluate(ctx, p)
			return nil
		})
	}
	_ = g.Wait() // evaluators never fail

	return results
}
