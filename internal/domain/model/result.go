package model

// SocialModeRuleBased names the deterministic social evaluator.
const SocialModeRuleBased = "rule-based"

// SocialSourceFallback marks a score that came from the rule-based evaluator
// after the external evaluator failed for that profile.
const SocialSourceFallback = "fallback"

// ScoreEntry is one bidder's scores for one round.
type ScoreEntry struct {
	Name         string        `json:"name"`
	MoneyScore   float64       `json:"money_score"`
	SocialScore  float64       `json:"social_score"`
	FinalScore   float64       `json:"final_score"`
	SocialReason string        `json:"social_reason"`
	SocialSource string        `json:"social_source"`
	Bid          float64       `json:"bid"`
	Profile      BidderProfile `json:"profile"`
}

// RoundResult is the ranking produced by one scoring pass.
type RoundResult struct {
	RoundIndex int          `json:"round_index"`
	Ranking    []ScoreEntry `json:"ranking"`
	Winner     ScoreEntry   `json:"winner"`
	SocialMode string       `json:"social_mode"`
}

// Position returns the 0-based rank of name in this round, or -1.
func (r RoundResult) Position(name string) int {
	for i, e := range r.Ranking {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// FairnessScore is the post-run fairness estimate for one bidder.
type FairnessScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"fairness_score"`
}

// SettlementReceipt is what the settlement collaborator hands back for the winner.
type SettlementReceipt struct {
	TxID   string  `json:"tx_id"`
	TxURL  string  `json:"tx_url,omitempty"`
	Amount float64 `json:"amount"`
}

// Explanation is a human-readable account of why the final winner won.
type Explanation struct {
	Text string `json:"text"`
	// Source is the external mode that wrote the text, or "fixed".
	Source string `json:"source"`
}

// RunResult is the complete output of a multi-round auction.
type RunResult struct {
	RunID       string             `json:"run_id"`
	SocialMode  string             `json:"social_mode"`
	Rounds      []RoundResult      `json:"rounds"`
	FinalWinner ScoreEntry         `json:"final_winner"`
	Agents      []AgentState       `json:"agents"`
	Fairness    []FairnessScore    `json:"fairness,omitempty"`
	Settlement  *SettlementReceipt `json:"settlement,omitempty"`
	Explanation *Explanation       `json:"explanation,omitempty"`
}

// FinalRound returns the last round, or false when there are none.
func (r RunResult) FinalRound() (RoundResult, bool) {
	if len(r.Rounds) == 0 {
		return RoundResult{}, false
	}
	return r.Rounds[len(r.Rounds)-1], true
}
