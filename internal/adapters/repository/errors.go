package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("auction has no bids")
	ErrNoRounds        = errors.New("result has no rounds")
)
