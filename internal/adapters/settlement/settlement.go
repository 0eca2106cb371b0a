// Package settlement hands the final winner to a payment collaborator.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"
)

// ErrInvalidAmount is returned for non-positive or non-finite bids.
var ErrInvalidAmount = errors.New("settlement amount must be positive")

// Settler transfers the winner's bid and returns a receipt.
type Settler interface {
	Settle(ctx context.Context, winner model.ScoreEntry) (model.SettlementReceipt, error)
}

// Option configures a MockSettler.
type Option func(*MockSettler)

// WithRecipient sets the destination account recorded in logs.
func WithRecipient(addr string) Option {
	return func(m *MockSettler) {
		m.recipient = addr
	}
}

// WithExplorerURL sets a URL prefix for transaction links; the tx id is appended.
func WithExplorerURL(prefix string) Option {
	return func(m *MockSettler) {
		m.explorer = prefix
	}
}

// WithLogger sets the settler logger.
func WithLogger(l logger.Logger) Option {
	return func(m *MockSettler) {
		if l != nil {
			m.log = l
		}
	}
}

// MockSettler simulates a transfer and issues an opaque MOCK_TX_ id.
type MockSettler struct {
	recipient string
	explorer  string
	log       logger.Logger
	newID     func() string
}

// NewMockSettler creates a MockSettler.
func NewMockSettler(opts ...Option) *MockSettler {
	m := &MockSettler{
		log:   logger.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Settle implements Settler.
func (m *MockSettler) Settle(ctx context.Context, winner model.ScoreEntry) (model.SettlementReceipt, error) {
	if err := ctx.Err(); err != nil {
		metrics.RecordSettlement(metrics.OutcomeFailure)
		return model.SettlementReceipt{}, err
	}
	if winner.Bid <= 0 || math.IsNaN(winner.Bid) || math.IsInf(winner.Bid, 0) {
		metrics.RecordSettlement(metrics.OutcomeFailure)
		return model.SettlementReceipt{}, fmt.Errorf("%w: %v", ErrInvalidAmount, winner.Bid)
	}

	txID := "MOCK_TX_" + strings.ReplaceAll(m.newID(), "-", "")
	receipt := model.SettlementReceipt{TxID: txID, Amount: winner.Bid}
	if m.explorer != "" {
		receipt.TxURL = strings.TrimSuffix(m.explorer, "/") + "/" + txID
	}

	metrics.RecordSettlement(metrics.OutcomeSuccess)
	m.log.Info(ctx, "mock settlement",
		logger.String("winner", winner.Name),
		logger.Float64("amount", winner.Bid),
		logger.String("recipient", m.recipient),
		logger.String("tx_id", txID))
	return receipt, nil
}
