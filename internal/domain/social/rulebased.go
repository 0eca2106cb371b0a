package social

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/money"
)

// Rule-based scoring constants.
const (
	baselineScore       = 0.5
	negativePenalty     = 0.3
	trustedBonus        = 0.1
	keywordBonus        = 0.05
	defaultDonationUnit = 10000.0
	maxDonationBonus    = 0.2
)

// RuleBasedReason is the fixed explanation attached to every rule-based score.
const RuleBasedReason = "Rule-based score from profession, social keywords and donation amount."

var (
	defaultNegativeTerms = []string{
		"tobacco", "cigarette", "gambling", "casino", "weapon", "arms dealer",
		"firearm", "coal", "oil", "fossil", "payday", "predatory",
	}
	defaultTrustedProfessions = []string{
		"doctor", "nurse", "teacher", "firefighter", "paramedic",
		"scientist", "social worker", "researcher",
	}
	defaultPositiveKeywords = []string{
		"children", "kids", "women", "hungry", "homeless", "poor", "refugee",
		"disabled", "elderly", "veteran", "education", "school", "scholarship",
		"health", "hospital", "medical", "clinic", "environment", "climate",
		"trees", "ocean", "wildlife", "charity", "volunteer",
	}

	amountPattern = regexp.MustCompile(`\$?\d[\d,]*(?:\.\d+)?`)
)

// RuleOption configures a RuleBased evaluator.
type RuleOption func(*RuleBased)

// WithNegativeTerms replaces the harmful-profession list.
func WithNegativeTerms(terms ...string) RuleOption {
	return func(r *RuleBased) {
		r.negative = lowerAll(terms)
	}
}

// WithTrustedProfessions replaces the trusted-profession list.
func WithTrustedProfessions(terms ...string) RuleOption {
	return func(r *RuleBased) {
		r.trusted = lowerAll(terms)
	}
}

// WithPositiveKeywords replaces the contribution keyword list.
func WithPositiveKeywords(terms ...string) RuleOption {
	return func(r *RuleBased) {
		r.positive = lowerAll(terms)
	}
}

// WithDonationScale sets the amount that earns a full 1.0 before the bonus cap.
func WithDonationScale(unit float64) RuleOption {
	return func(r *RuleBased) {
		if unit > 0 {
			r.donationUnit = unit
		}
	}
}

// RuleBased is the deterministic, offline social evaluator.
type RuleBased struct {
	negative     []string
	trusted      []string
	positive     []string
	donationUnit float64
}

// NewRuleBased creates a rule-based evaluator with the default word lists.
func NewRuleBased(opts ...RuleOption) *RuleBased {
	r := &RuleBased{
		negative:     defaultNegativeTerms,
		trusted:      defaultTrustedProfessions,
		positive:     defaultPositiveKeywords,
		donationUnit: defaultDonationUnit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode implements Evaluator.
func (r *RuleBased) Mode() string { return model.SocialModeRuleBased }

// Evaluate implements Evaluator.
func (r *RuleBased) Evaluate(_ context.Context, p model.BidderProfile) Result {
	return Result{
		Score:  r.Score(p),
		Reason: RuleBasedReason,
		Source: model.SocialModeRuleBased,
	}
}

// Score computes the clamped rule-based score for p.
func (r *RuleBased) Score(p model.BidderProfile) float64 {
	profession := strings.ToLower(p.Profession)
	contribution := strings.ToLower(p.SocialContribution)

	score := baselineScore

	for _, term := range r.negative {
		if strings.Contains(profession, term) {
			score -= negativePenalty
		}
	}

	for _, term := range r.trusted {
		if strings.Contains(profession, term) {
			score += trustedBonus
			break
		}
	}

	for _, kw := range r.positive {
		if strings.Contains(contribution, kw) {
			score += keywordBonus
		}
	}

	score += clampRange(MaxAmount(p.SocialContribution)/r.donationUnit, 0, maxDonationBonus)

	return money.Clamp01(score)
}

// MaxAmount returns the largest monetary amount mentioned in text, or 0.
// Amounts may carry a "$" prefix and comma thousands separators.
func MaxAmount(text string) float64 {
	best := 0.0
	for _, m := range amountPattern.FindAllString(text, -1) {
		raw := strings.ReplaceAll(strings.TrimPrefix(m, "$"), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if v > best {
			best = v
		}
	}
	return best
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
