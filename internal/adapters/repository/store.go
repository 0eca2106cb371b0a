// Package repository loads stored auctions and writes final scores back.
package repository

import (
	"context"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/ranking"
)

// AuctionInput is everything needed to run a stored auction.
type AuctionInput struct {
	AuctionID   string
	ImpactArea  string
	MinDonation float64
	Weights     ranking.Weights
	Profiles    []model.BidderProfile
}

// Store reads auctions and persists results.
type Store interface {
	// LoadAuction returns the auction's weights and one profile per bid.
	// Returns ErrAuctionNotFound or ErrNoBids.
	LoadAuction(ctx context.Context, auctionID string) (AuctionInput, error)

	// SaveScores writes the final round's scores back to each bidder.
	SaveScores(ctx context.Context, result model.RunResult) error
}
