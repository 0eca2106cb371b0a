// Package fairness estimates a post-run fairness score per bidder.
package fairness

import (
	"context"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/money"
)

// Predictor turns a final ranking into fairness scores.
type Predictor interface {
	Predict(ctx context.Context, ranking []model.ScoreEntry) ([]model.FairnessScore, error)
}

// Default blend of social and final score.
const (
	DefaultSocialShare = 0.8
	DefaultFinalShare  = 0.2
)

// Linear is a fixed linear blend of social and final score, clamped to [0,1].
type Linear struct {
	SocialShare float64
	FinalShare  float64
}

// NewLinear returns the default 0.8/0.2 blend.
func NewLinear() Linear {
	return Linear{SocialShare: DefaultSocialShare, FinalShare: DefaultFinalShare}
}

// Predict implements Predictor. Output order matches ranking order.
func (l Linear) Predict(ctx context.Context, ranking []model.ScoreEntry) ([]model.FairnessScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.FairnessScore, len(ranking))
	for i, e := range ranking {
		v := money.Clamp01(l.SocialShare*e.SocialScore + l.FinalShare*e.FinalScore)
		out[i] = model.FairnessScore{Name: e.Name, Score: money.Round(v, money.ScorePrecision)}
	}
	return out, nil
}
