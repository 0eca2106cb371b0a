package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/money"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"
)

// Defaults for the external evaluator.
const (
	DefaultExternalMode    = "gemini"
	DefaultExternalTimeout = 10 * time.Second
)

// Fallback reasons recorded in metrics.
const (
	fallbackTransport = "transport"
	fallbackTimeout   = "timeout"
	fallbackParse     = "parse"
)

// ExternalOption configures an External evaluator.
type ExternalOption func(*External)

// WithTimeout bounds each external call.
func WithTimeout(d time.Duration) ExternalOption {
	return func(e *External) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMode sets the mode name reported for externally scored profiles.
func WithMode(mode string) ExternalOption {
	return func(e *External) {
		if mode = strings.TrimSpace(mode); mode != "" {
			e.mode = mode
		}
	}
}

// WithFallback replaces the rule-based evaluator used on failure.
func WithFallback(rb *RuleBased) ExternalOption {
	return func(e *External) {
		if rb != nil {
			e.fallback = rb
		}
	}
}

// WithLogger sets the logger for degraded evaluations.
func WithLogger(l logger.Logger) ExternalOption {
	return func(e *External) {
		if l != nil {
			e.log = l
		}
	}
}

// External scores profiles through a Completer and degrades to the
// rule-based score for any profile it cannot score. It makes one attempt
// per profile.
type External struct {
	completer Completer
	fallback  *RuleBased
	mode      string
	timeout   time.Duration
	log       logger.Logger
}

// NewExternal creates an external evaluator around c.
func NewExternal(c Completer, opts ...ExternalOption) *External {
	e := &External{
		completer: c,
		fallback:  NewRuleBased(),
		mode:      DefaultExternalMode,
		timeout:   DefaultExternalTimeout,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode implements Evaluator.
func (e *External) Mode() string { return e.mode }

// Evaluate implements Evaluator.
func (e *External) Evaluate(ctx context.Context, p model.BidderProfile) Result {
	reply, err := e.score(ctx, p)
	if err != nil {
		reason := classify(ctx, err)
		e.log.Warn(ctx, "external social evaluation failed, using rule-based score",
			logger.String("bidder", p.Name),
			logger.String("mode", e.mode),
			logger.String("reason", reason),
			logger.Error(err))
		metrics.RecordEvaluatorFallback(reason)
		metrics.RecordSocialEvaluation(e.mode, metrics.OutcomeFallback)

		res := e.fallback.Evaluate(ctx, p)
		res.Source = model.SocialSourceFallback
		res.Fallback = true
		return res
	}

	metrics.RecordSocialEvaluation(e.mode, metrics.OutcomeSuccess)
	return Result{
		Score:  money.Clamp01(reply.Score),
		Reason: reply.Reason,
		Source: e.mode,
	}
}

func (e *External) score(ctx context.Context, p model.BidderProfile) (Reply, error) {
	if e.completer == nil {
		return Reply{}, ErrNoCompleter
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.completer.Complete(callCtx, BuildPrompt(p))
	metrics.RecordExternalLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if callCtx.Err() != nil {
			return Reply{}, fmt.Errorf("complete: %w", callCtx.Err())
		}
		return Reply{}, fmt.Errorf("complete: %w", err)
	}
	return ParseResponse(raw)
}

func classify(ctx context.Context, err error) string {
	switch {
	case isTimeout(err):
		return fallbackTimeout
	case isParse(err):
		return fallbackParse
	case ctx.Err() != nil:
		return fallbackTimeout
	default:
		return fallbackTransport
	}
}

// BuildPrompt renders the scoring rubric and profile for an external model.
func BuildPrompt(p model.BidderProfile) string {
	var b strings.Builder
	b.WriteString("You are scoring bidders in a social-impact auction.\n")
	b.WriteString("Rate the bidder's social value from 0 to 1 using this rubric:\n")
	b.WriteString("- Penalize professions or industries that cause harm (tobacco, gambling, weapons, fossil fuels, predatory lending).\n")
	b.WriteString("- Reward contributions that help vulnerable groups (children, the poor, refugees, the sick, the elderly) or produce lasting impact in education, health or the environment.\n")
	b.WriteString("- Donation size matters less than the ethics and impact of the work.\n\n")
	b.WriteString("Bidder profile:\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Country: %s\n", valueOr(p.Country, "unknown"))
	fmt.Fprintf(&b, "Profession: %s\n", valueOr(p.Profession, "unknown"))
	fmt.Fprintf(&b, "Social contribution: %s\n\n", valueOr(p.SocialContribution, "none stated"))
	b.WriteString(`Answer with a single JSON object and nothing else: {"social_score": <number between 0 and 1>, "reason": "<one short sentence>"}`)
	return b.String()
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
