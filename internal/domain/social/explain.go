package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"
)

// ExplanationSourceFixed marks an explanation rendered locally instead of by the model.
const ExplanationSourceFixed = "fixed"

// Explain asks the model why winner came first. On any failure it returns
// FixedExplanation tagged with ExplanationSourceFixed.
func (e *External) Explain(ctx context.Context, winner model.ScoreEntry) model.Explanation {
	text, err := e.explain(ctx, winner)
	if err != nil {
		e.log.Warn(ctx, "winner explanation failed, using fixed text",
			logger.String("winner", winner.Name),
			logger.String("reason", classify(ctx, err)),
			logger.Error(err))
		metrics.RecordErrorByComponent("explainer", classify(ctx, err))
		return model.Explanation{Text: FixedExplanation(winner), Source: ExplanationSourceFixed}
	}
	return model.Explanation{Text: text, Source: e.mode}
}

func (e *External) explain(ctx context.Context, winner model.ScoreEntry) (string, error) {
	if e.completer == nil {
		return "", ErrNoCompleter
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.completer.Complete(callCtx, BuildExplainPrompt(winner))
	metrics.RecordExternalLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if callCtx.Err() != nil {
			return "", fmt.Errorf("complete: %w", callCtx.Err())
		}
		return "", fmt.Errorf("complete: %w", err)
	}

	var out struct {
		Explanation string `json:"explanation"`
	}
	if err := decodeObject(raw, &out); err != nil {
		return "", err
	}
	if text := strings.TrimSpace(out.Explanation); text != "" {
		return text, nil
	}
	return "", ErrMissingExplanation
}

// FixedExplanation summarizes why winner came first from its scores alone.
func FixedExplanation(w model.ScoreEntry) string {
	return fmt.Sprintf("%s won with a final score of %.3f, combining a bid of %.2f (money score %.3f) with a social score of %.3f.",
		w.Name, w.FinalScore, w.Bid, w.MoneyScore, w.SocialScore)
}

// BuildExplainPrompt asks for a short explanation of the winning entry.
func BuildExplainPrompt(w model.ScoreEntry) string {
	var b strings.Builder
	b.WriteString("A social-impact auction selected this winner:\n")
	fmt.Fprintf(&b, "Name: %s\n", w.Name)
	fmt.Fprintf(&b, "Profession: %s\n", valueOr(w.Profile.Profession, "unknown"))
	fmt.Fprintf(&b, "Bid: %.2f\n", w.Bid)
	fmt.Fprintf(&b, "Money score: %.3f\n", w.MoneyScore)
	fmt.Fprintf(&b, "Social score: %.3f (%s)\n", w.SocialScore, valueOr(w.SocialReason, "no reason given"))
	fmt.Fprintf(&b, "Final score: %.3f\n\n", w.FinalScore)
	b.WriteString("Explain briefly why this bidder won, referring to the bid, the social score and the final score. Keep it under 120 words.\n")
	b.WriteString(`Answer with a single JSON object and nothing else: {"explanation": "<text>"}`)
	return b.String()
}
