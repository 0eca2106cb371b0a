package ranking

import (
	"fmt"
	"math"

	"github.com/adrian2504/TradeHack/internal/domain/model"
)

// DefaultSocialWeight is used when no weights are configured.
const DefaultSocialWeight = 0.7

// Weights controls how money and social scores combine.
//
// Money zero means "implicit": the money weight becomes 1 - social.
// Fairness is folded into the social side.
type Weights struct {
	Social   float64 `json:"social_weight"   koanf:"social_weight"`
	Money    float64 `json:"money_weight"    koanf:"money_weight"`
	Fairness float64 `json:"fairness_weight" koanf:"fairness_weight"`
}

// SocialOnly builds the two-weight form from a single social weight.
func SocialOnly(social float64) Weights {
	return Weights{Social: social}
}

// Validate checks every weight is a finite number in [0,1].
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"social_weight":   w.Social,
		"money_weight":    w.Money,
		"fairness_weight": w.Fairness,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v", model.ErrInvalidWeight, name, v)
		}
	}
	return nil
}

// Effective returns the social and money weights actually applied. They
// always sum to 1.
func (w Weights) Effective() (social, money float64) {
	social = w.Social + w.Fairness
	if w.Money == 0 {
		social = math.Min(1, social)
		return social, 1 - social
	}
	social /= w.Social + w.Money + w.Fairness
	return social, 1 - social
}
