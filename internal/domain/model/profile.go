// Package model contains the auction records passed between engine stages.
package model

import (
	"fmt"
	"math"
	"strings"
)

// BidderProfile is one participant as supplied by the caller.
type BidderProfile struct {
	UserID             string  `json:"user_id,omitempty" koanf:"user_id"`
	Name               string  `json:"name" koanf:"name"`
	Email              string  `json:"email,omitempty" koanf:"email"`
	Country            string  `json:"country" koanf:"country"`
	Profession         string  `json:"profession" koanf:"profession"`
	SocialContribution string  `json:"social_contribution" koanf:"social_contribution"`
	Strategy           string  `json:"strategy,omitempty" koanf:"strategy"`
	StartBid           float64 `json:"start_bid" koanf:"start_bid"`
	MaxBid             float64 `json:"max_bid" koanf:"max_bid"`
}

// NewBidderProfile builds a validated, normalized profile.
func NewBidderProfile(name, country, profession, contribution string, startBid, maxBid float64) (BidderProfile, error) {
	p := BidderProfile{
		Name:               name,
		Country:            country,
		Profession:         profession,
		SocialContribution: contribution,
		StartBid:           startBid,
		MaxBid:             maxBid,
	}
	if err := p.Validate(); err != nil {
		return BidderProfile{}, err
	}
	return p.Normalize(), nil
}

// Validate checks the required fields.
func (p BidderProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	case math.IsNaN(p.MaxBid) || math.IsInf(p.MaxBid, 0) || p.MaxBid <= 0:
		return fmt.Errorf("%w: %q max_bid must be > 0", ErrInvalidProfile, p.Name)
	case math.IsNaN(p.StartBid) || math.IsInf(p.StartBid, 0):
		return fmt.Errorf("%w: %q start_bid must be finite", ErrInvalidProfile, p.Name)
	}
	return nil
}

// Normalize returns a copy whose start bid lies in [0, MaxBid].
func (p BidderProfile) Normalize() BidderProfile {
	if p.StartBid > p.MaxBid {
		p.StartBid = p.MaxBid
	}
	if p.StartBid < 0 {
		p.StartBid = 0
	}
	return p
}

// ValidateSet checks a whole auction field: non-empty, every profile valid, names unique.
func ValidateSet(profiles []BidderProfile) error {
	if len(profiles) == 0 {
		return ErrEmptyProfiles
	}
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
