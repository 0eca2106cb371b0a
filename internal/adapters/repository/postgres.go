package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/adrian2504/TradeHack/internal/domain/bidding"
	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/ranking"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"
)

const defaultQueryTimeout = 5 * time.Second

const (
	qAuction = `
select coalesce(donation_weight, 0),
       coalesce(profile_weight, 0),
       coalesce(fairness_weight, 0),
       coalesce(impact_area, ''),
       coalesce(min_donation, 0)
from auction
where auction_id = $1`

	qBids = `
select b.user_id,
       coalesce(u.name, ''),
       coalesce(u.email, ''),
       coalesce(u.affiliation, ''),
       coalesce(u.strategy, ''),
       coalesce(u.philantrophy_score, 0),
       coalesce(u.socialimpact_score, 0),
       coalesce(b.bid_amount, 0),
       coalesce(u.donation, 0)
from bid b
join "user" u on u.user_id = b.user_id
where b.auction_id = $1
order by b.user_id`

	// philantrophy_score is spelled as deployed.
	qUpdateScores = `
update "user"
set philantrophy_score = $1,
    socialimpact_score = $2,
    fairness_score = $3,
    composite_score = $4
where user_id = $5`
)

// PostgresStore implements Store over database/sql with the pgx driver.
type PostgresStore struct {
	db      *sql.DB
	log     logger.Logger
	timeout time.Duration
}

// Open connects to dsn with the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return NewPostgresStore(db, opts...), nil
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	s := &PostgresStore{
		db:      db,
		log:     logger.NewNop(),
		timeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the database handle.
func (s *PostgresStore) Close() error { return s.db.Close() }

// LoadAuction implements Store.
func (s *PostgresStore) LoadAuction(ctx context.Context, auctionID string) (AuctionInput, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer observe("load_auction", time.Now())

	in := AuctionInput{AuctionID: auctionID}
	var donationW, profileW, fairnessW float64
	err := s.db.QueryRowContext(ctx, qAuction, auctionID).
		Scan(&donationW, &profileW, &fairnessW, &in.ImpactArea, &in.MinDonation)
	if errors.Is(err, sql.ErrNoRows) {
		return AuctionInput{}, fmt.Errorf("%w: %s", ErrAuctionNotFound, auctionID)
	}
	if err != nil {
		metrics.RecordErrorByComponent("repository", "query")
		return AuctionInput{}, fmt.Errorf("select auction: %w", err)
	}
	in.Weights = storedWeights(donationW, profileW, fairnessW)
	if in.ImpactArea == "" {
		in.ImpactArea = "general impact"
	}

	rows, err := s.db.QueryContext(ctx, qBids, auctionID)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "query")
		return AuctionInput{}, fmt.Errorf("select bids: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var (
			userID, name, email, affiliation, strategy string
			philanthropy, impact, bid, donation        float64
		)
		if err := rows.Scan(&userID, &name, &email, &affiliation, &strategy,
			&philanthropy, &impact, &bid, &donation); err != nil {
			return AuctionInput{}, fmt.Errorf("scan bid: %w", err)
		}

		if name == "" {
			name = "Unknown"
		}
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%s (%s)", name, userID)
		}
		seen[name] = struct{}{}

		if strategy == "" {
			strategy = bidding.PresetBalanced
		}
		if donation <= 0 {
			donation = bid
		}
		// the auction minimum floors the opening bid, capped by the bidder's max
		start := math.Min(math.Max(bid, in.MinDonation), donation)

		in.Profiles = append(in.Profiles, model.BidderProfile{
			UserID:             userID,
			Name:               name,
			Email:              email,
			Profession:         affiliation,
			SocialContribution: contributionText(affiliation, in.ImpactArea, philanthropy, impact),
			Strategy:           strategy,
			StartBid:           start,
			MaxBid:             donation,
		})
	}
	if err := rows.Err(); err != nil {
		return AuctionInput{}, fmt.Errorf("iterate bids: %w", err)
	}
	if len(in.Profiles) == 0 {
		return AuctionInput{}, fmt.Errorf("%w: %s", ErrNoBids, auctionID)
	}

	s.log.Debug(ctx, "auction loaded",
		logger.String("auction_id", auctionID),
		logger.Int("bidders", len(in.Profiles)))
	return in, nil
}

// SaveScores implements Store. All updates commit together.
func (s *PostgresStore) SaveScores(ctx context.Context, result model.RunResult) error {
	final, ok := result.FinalRound()
	if !ok {
		return ErrNoRounds
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer observe("save_scores", time.Now())

	fairness := make(map[string]float64, len(result.Fairness))
	for _, f := range result.Fairness {
		fairness[f.Name] = f.Score
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for _, e := range final.Ranking {
		if e.Profile.UserID == "" {
			continue
		}
		fair, ok := fairness[e.Name]
		if !ok {
			fair = e.SocialScore
		}
		if _, err := tx.ExecContext(ctx, qUpdateScores,
			int64(math.Round(e.MoneyScore*100)),
			int64(math.Round(e.SocialScore*100)),
			fair,
			e.FinalScore,
			e.Profile.UserID,
		); err != nil {
			metrics.RecordErrorByComponent("repository", "update")
			return fmt.Errorf("update user %s: %w", e.Profile.UserID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Info(ctx, "scores saved",
		logger.String("run_id", result.RunID),
		logger.Int("users", written))
	return nil
}

// storedWeights maps the auction row weights onto the engine's weights.
// Null or zero donation and profile weights default to 1, and the three are
// scaled to sum to 1.
func storedWeights(donation, profile, fairness float64) ranking.Weights {
	if donation <= 0 {
		donation = 1
	}
	if profile <= 0 {
		profile = 1
	}
	if fairness < 0 {
		fairness = 0
	}
	total := donation + profile + fairness
	return ranking.Weights{
		Social:   profile / total,
		Money:    donation / total,
		Fairness: fairness / total,
	}
}

func contributionText(affiliation, impactArea string, philanthropy, impact float64) string {
	if affiliation == "" {
		affiliation = "no specified organization"
	}
	return fmt.Sprintf(
		"This donor is affiliated with %s and participates in auctions focused on %s. "+
			"They have philanthropy_score=%g and socialimpact_score=%g recorded in the system.",
		affiliation, impactArea, philanthropy, impact)
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Milliseconds()))
}
