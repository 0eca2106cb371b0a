package model

// AgentPhase is the bidding state of one agent.
type AgentPhase string

const (
	PhaseBidding   AgentPhase = "bidding"
	PhaseExhausted AgentPhase = "exhausted"
)

// BidDecision records how an agent moved its bid after a round.
type BidDecision struct {
	Round        int     `json:"round"`
	Position     int     `json:"position"`
	LoserFactor  float64 `json:"loser_factor"`
	Noise        float64 `json:"noise"`
	RaiseFactor  float64 `json:"raise_fraction"`
	PlannedRaise float64 `json:"planned_raise"`
	PreviousBid  float64 `json:"previous_bid"`
	NewBid       float64 `json:"new_bid"`
	Exhausted    bool    `json:"exhausted"`
}

// AgentState is the per-agent bidding state owned by the round controller.
type AgentState struct {
	Profile    BidderProfile `json:"profile"`
	CurrentBid float64       `json:"current_bid"`
	TrueMaxBid float64       `json:"true_max_bid"`
	History    []BidDecision `json:"history"`
}

// NewAgentState initializes an agent at its (clamped) start bid.
func NewAgentState(p BidderProfile) AgentState {
	p = p.Normalize()
	return AgentState{
		Profile:    p,
		CurrentBid: p.StartBid,
		TrueMaxBid: p.MaxBid,
	}
}

// Remaining is the room left below the ceiling, never negative.
func (a AgentState) Remaining() float64 {
	if r := a.TrueMaxBid - a.CurrentBid; r > 0 {
		return r
	}
	return 0
}

// Phase reports whether the agent can still raise.
func (a AgentState) Phase() AgentPhase {
	if a.Remaining() == 0 {
		return PhaseExhausted
	}
	return PhaseBidding
}

// RoundProfile is the snapshot submitted for a round: start and max both equal the live bid.
func (a AgentState) RoundProfile() BidderProfile {
	p := a.Profile
	p.StartBid = a.CurrentBid
	p.MaxBid = a.CurrentBid
	return p
}
