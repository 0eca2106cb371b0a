// Package social scores a bidder's non-monetary social value.
//
// Two evaluators satisfy Evaluator: RuleBased, a deterministic keyword and
// donation analysis, and External, which asks an outside model for a score
// and falls back to RuleBased for any profile it cannot score.
package social

import (
	"context"

	"github.com/adrian2504/TradeHack/internal/domain/model"
)

// Result is a social score with its explanation.
type Result struct {
	Score  float64
	Reason string
	// Source is the evaluator that produced the score: the evaluator mode,
	// or model.SocialSourceFallback when the external path degraded.
	Source string
	// Fallback is set when an external evaluation failed and the rule-based
	// score was substituted.
	Fallback bool
}

// Evaluator scores one profile. Implementations never fail: degraded paths
// are reported through Result.Fallback.
type Evaluator interface {
	Evaluate(ctx context.Context, p model.BidderProfile) Result
	// Mode names the evaluator, e.g. "rule-based" or "gemini".
	Mode() string
}

// Completer sends one prompt to an external text model and returns its raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
