package social

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// DefaultExternalReason is used when the model returns a score without a reason.
const DefaultExternalReason = "Scored by external evaluator."

// Reply is the JSON object an external evaluator is asked to return.
type Reply struct {
	Score  float64
	Reason string
}

type rawReply struct {
	SocialScore json.RawMessage `json:"social_score"`
	Reason      string          `json:"reason"`
}

// ParseResponse extracts the {"social_score", "reason"} object from raw model
// output. Code fences and any text around the outermost braces are ignored.
func ParseResponse(raw string) (Reply, error) {
	var rr rawReply
	if err := decodeObject(raw, &rr); err != nil {
		return Reply{}, err
	}
	if len(rr.SocialScore) == 0 || string(rr.SocialScore) == "null" {
		return Reply{}, ErrMissingScore
	}

	var score float64
	if err := json.Unmarshal(rr.SocialScore, &score); err != nil {
		return Reply{}, fmt.Errorf("%w: %s", ErrInvalidScore, rr.SocialScore)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Reply{}, ErrInvalidScore
	}

	reason := strings.TrimSpace(rr.Reason)
	if reason == "" {
		reason = DefaultExternalReason
	}
	return Reply{Score: score, Reason: reason}, nil
}

// decodeObject unmarshals the outermost JSON object in raw into v.
func decodeObject(raw string, v any) error {
	cleaned := stripFences(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return ErrNoJSONObject
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %w", ErrNoJSONObject, err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// the opening fence may carry a language tag such as "json"
	s = strings.TrimLeftFunc(strings.TrimPrefix(s, "```"), unicode.IsLetter)
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
