// Package service wires the auction engine to its collaborators and exposes
// the operations used by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adrian2504/TradeHack/internal/adapters/repository"
	"github.com/adrian2504/TradeHack/internal/adapters/settlement"
	"github.com/adrian2504/TradeHack/internal/domain/auction"
	"github.com/adrian2504/TradeHack/internal/domain/bidding"
	"github.com/adrian2504/TradeHack/internal/domain/fairness"
	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/ranking"
	"github.com/adrian2504/TradeHack/internal/domain/social"
	"github.com/adrian2504/TradeHack/pkg/logger"
	"github.com/adrian2504/TradeHack/pkg/metrics"
)

// DefaultRounds is used when a request does not name a round count.
const DefaultRounds = 3

// RunRequest is one auction run as submitted by a caller.
type RunRequest struct {
	Profiles  []model.BidderProfile
	// NumRounds overrides the default round count when set. An explicit
	// value below one is rejected.
	NumRounds *int
	// Weights overrides the service defaults when set.
	Weights     *ranking.Weights
	UseExternal bool
	Settle      bool
}

// Service runs auctions for the API and CLI.
type Service struct {
	mu sync.RWMutex

	// Core components
	controller *auction.Controller
	ruleBased  *social.RuleBased
	completer  social.Completer
	store      repository.Store
	settler    settlement.Settler
	predictor  fairness.Predictor

	// Configuration
	concurrency     int
	strategies      map[string]bidding.Params
	seed            int64
	externalMode    string
	externalTimeout time.Duration
	defaultRounds   int
	defaultWeights  ranking.Weights

	// State
	started    bool
	runs       int64
	failures   int64
	fallbacks  int64
	lastRunID  string
	lastWinner string
	lastMode   string

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEvaluatorConcurrency bounds concurrent social evaluations per round.
func WithEvaluatorConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithCompleter enables external social scoring through c.
func WithCompleter(c social.Completer) Option {
	return func(s *Service) {
		s.completer = c
	}
}

// WithStore sets the auction store used by RunStoredAuction.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithSettler sets the settlement collaborator.
func WithSettler(st settlement.Settler) Option {
	return func(s *Service) {
		s.settler = st
	}
}

// WithStrategies adds named strategy presets.
func WithStrategies(m map[string]bidding.Params) Option {
	return func(s *Service) {
		s.strategies = m
	}
}

// WithSeed sets the escalation noise seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithExternalMode names the external evaluator.
func WithExternalMode(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.externalMode = mode
		}
	}
}

// WithExternalTimeout bounds each external evaluation.
func WithExternalTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.externalTimeout = d
		}
	}
}

// WithFairness attaches post-run fairness scores.
func WithFairness(p fairness.Predictor) Option {
	return func(s *Service) {
		s.predictor = p
	}
}

// WithDefaultRounds sets the round count used when a request has none.
func WithDefaultRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultRounds = n
		}
	}
}

// WithDefaultWeights sets the weights used when a request has none.
func WithDefaultWeights(w ranking.Weights) Option {
	return func(s *Service) {
		s.defaultWeights = w
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		concurrency:     ranking.DefaultConcurrency,
		seed:            auction.DefaultSeed,
		externalMode:    social.DefaultExternalMode,
		externalTimeout: social.DefaultExternalTimeout,
		defaultRounds:   DefaultRounds,
		defaultWeights:  ranking.SocialOnly(ranking.DefaultSocialWeight),
		ruleBased:       social.NewRuleBased(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the auction controller.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.controller = auction.New(
		auction.WithRanker(ranking.New(ranking.WithConcurrency(s.concurrency))),
		auction.WithLogger(s.logger),
		auction.WithStrategies(s.strategies),
		auction.WithSeed(s.seed),
	)

	s.started = true
	s.logger.Info(ctx, "auction service started",
		logger.Int("evaluatorConcurrency", s.concurrency),
		logger.Bool("external", s.completer != nil),
		logger.Bool("store", s.store != nil),
		logger.Bool("settlement", s.settler != nil),
		logger.Bool("fairness", s.predictor != nil),
	)
	return nil
}

// Stop releases collaborators that hold resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "auction service stopped")
}

// RunAuction runs one multi-round auction. Fairness and settlement failures
// are logged and never change the ranking.
func (s *Service) RunAuction(ctx context.Context, req RunRequest) (model.RunResult, error) {
	s.mu.RLock()
	started, controller := s.started, s.controller
	s.mu.RUnlock()
	if !started {
		return model.RunResult{}, ErrNotStarted
	}

	rounds := s.defaultRounds
	if req.NumRounds != nil {
		rounds = *req.NumRounds
	}
	weights := s.defaultWeights
	if req.Weights != nil {
		weights = *req.Weights
	}

	evaluator := s.evaluator(ctx, req.UseExternal)
	res, err := controller.Run(ctx, auction.Request{
		Profiles:  req.Profiles,
		NumRounds: rounds,
		Weights:   weights,
		Evaluator: evaluator,
	})
	if err != nil {
		s.record(func() { s.failures++ })
		return model.RunResult{}, err
	}

	if ext, ok := evaluator.(*social.External); ok {
		explanation := ext.Explain(ctx, res.FinalWinner)
		res.Explanation = &explanation
	}

	if s.predictor != nil {
		final, _ := res.FinalRound()
		scores, err := s.predictor.Predict(ctx, final.Ranking)
		if err != nil {
			s.logger.Warn(ctx, "fairness prediction failed", logger.Error(err))
			metrics.RecordErrorByComponent("fairness", "predict")
		} else {
			res.Fairness = scores
		}
	}

	if req.Settle && s.settler != nil {
		receipt, err := s.settler.Settle(ctx, res.FinalWinner)
		if err != nil {
			s.logger.Warn(ctx, "settlement failed",
				logger.String("run_id", res.RunID),
				logger.String("winner", res.FinalWinner.Name),
				logger.Error(err))
		} else {
			res.Settlement = &receipt
		}
	}

	fallbacks := countFallbacks(res)
	s.record(func() {
		s.runs++
		s.fallbacks += fallbacks
		s.lastRunID = res.RunID
		s.lastWinner = res.FinalWinner.Name
		s.lastMode = res.SocialMode
	})
	return res, nil
}

// RunStoredAuction loads an auction from the store, runs it and writes the
// final scores back.
func (s *Service) RunStoredAuction(ctx context.Context, auctionID string, rounds *int, useExternal bool) (model.RunResult, error) {
	if s.store == nil {
		return model.RunResult{}, ErrNoStore
	}

	in, err := s.store.LoadAuction(ctx, auctionID)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("load auction: %w", err)
	}

	res, err := s.RunAuction(ctx, RunRequest{
		Profiles:    in.Profiles,
		NumRounds:   rounds,
		Weights:     &in.Weights,
		UseExternal: useExternal,
	})
	if err != nil {
		return model.RunResult{}, err
	}

	if err := s.store.SaveScores(ctx, res); err != nil {
		return res, fmt.Errorf("save scores: %w", err)
	}
	s.logger.Info(ctx, "stored auction completed",
		logger.String("auction_id", auctionID),
		logger.String("run_id", res.RunID),
		logger.String("final_winner", res.FinalWinner.Name))
	return res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":              s.started,
		"evaluatorConcurrency": s.concurrency,
		"externalConfigured":   s.completer != nil,
		"externalMode":         s.externalMode,
		"storeConfigured":      s.store != nil,
		"settlementConfigured": s.settler != nil,
		"runs":                 s.runs,
		"failedRuns":           s.failures,
		"fallbackEvaluations":  s.fallbacks,
		"lastRunID":            s.lastRunID,
		"lastWinner":           s.lastWinner,
		"lastSocialMode":       s.lastMode,
	}
}

// IsInputError reports whether err was caused by the request rather than the service.
func IsInputError(err error) bool {
	return model.IsInputError(err) ||
		errors.Is(err, repository.ErrAuctionNotFound) ||
		errors.Is(err, repository.ErrNoBids)
}

func (s *Service) evaluator(ctx context.Context, useExternal bool) social.Evaluator {
	if !useExternal {
		return s.ruleBased
	}
	if s.completer == nil {
		s.logger.Warn(ctx, "external evaluator requested but not configured, using rule-based")
		return s.ruleBased
	}
	return social.NewExternal(s.completer,
		social.WithMode(s.externalMode),
		social.WithTimeout(s.externalTimeout),
		social.WithFallback(s.ruleBased),
		social.WithLogger(s.logger.Named("external")),
	)
}

func (s *Service) record(update func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update()
}

func countFallbacks(res model.RunResult) int64 {
	var n int64
	for _, r := range res.Rounds {
		for _, e := range r.Ranking {
			if e.SocialSource == model.SocialSourceFallback {
				n++
			}
		}
	}
	return n
}
