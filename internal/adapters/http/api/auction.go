package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	service "github.com/adrian2504/TradeHack/internal/app"
	"github.com/adrian2504/TradeHack/internal/domain/model"
	"github.com/adrian2504/TradeHack/internal/domain/ranking"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// runAuctionRequest is the body of POST /run-auction. Omitted weights fall
// back to the service defaults.
type runAuctionRequest struct {
	Profiles       []model.BidderProfile `json:"profiles"`
	SocialWeight   *float64              `json:"social_weight"`
	MoneyWeight    *float64              `json:"money_weight"`
	FairnessWeight *float64              `json:"fairness_weight"`
	UseExternal    *bool                 `json:"use_external"`
	UseGemini      *bool                 `json:"use_gemini"`
	NumRounds      *int                  `json:"num_rounds"`
	Settle         bool                  `json:"settle"`
}

func (r runAuctionRequest) validate() error {
	switch {
	case len(r.Profiles) == 0:
		return errors.New("profiles must not be empty")
	case r.NumRounds != nil && *r.NumRounds < 1:
		return errors.New("num_rounds must be >= 1")
	}
	return nil
}

func (r runAuctionRequest) toRunRequest() service.RunRequest {
	req := service.RunRequest{
		Profiles:    r.Profiles,
		NumRounds:   r.NumRounds,
		UseExternal: true,
		Settle:      r.Settle,
	}
	switch {
	case r.UseExternal != nil:
		req.UseExternal = *r.UseExternal
	case r.UseGemini != nil:
		req.UseExternal = *r.UseGemini
	}
	if r.SocialWeight != nil || r.MoneyWeight != nil || r.FairnessWeight != nil {
		w := ranking.SocialOnly(ranking.DefaultSocialWeight)
		if r.SocialWeight != nil {
			w.Social = *r.SocialWeight
		}
		if r.MoneyWeight != nil {
			w.Money = *r.MoneyWeight
		}
		if r.FairnessWeight != nil {
			w.Fairness = *r.FairnessWeight
		}
		req.Weights = &w
	}
	return req
}

// storedRunRequest is the optional body of POST /auctions/{id}/run.
type storedRunRequest struct {
	NumRounds   *int `json:"num_rounds"`
	UseExternal bool `json:"use_external"`
}

// AuctionHandler runs auctions.
type AuctionHandler struct {
	deps Dependencies
}

// NewAuctionHandler creates a new auction handler.
func NewAuctionHandler(deps Dependencies) *AuctionHandler {
	return &AuctionHandler{deps: deps}
}

// HandleRunAuction handles POST /run-auction requests.
func (h *AuctionHandler) HandleRunAuction(w http.ResponseWriter, r *http.Request) {
	const op = "api.run_auction"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req runAuctionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.RunAuction(r.Context(), req.toRunRequest())
	if err != nil {
		writeRunError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRunStored handles POST /auctions/{auction_id}/run requests.
func (h *AuctionHandler) HandleRunStored(w http.ResponseWriter, r *http.Request) {
	const op = "api.run_stored"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/auctions/")
	id, ok := strings.CutSuffix(path, "/run")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, nil))
		return
	}

	// the body is optional
	var req storedRunRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeDecodeError(w, op, err)
		return
	}
	if req.NumRounds != nil && *req.NumRounds < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("num_rounds must be >= 1")))
		return
	}

	res, err := h.deps.RunStoredAuction(r.Context(), id, req.NumRounds, req.UseExternal)
	if err != nil {
		writeRunError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeDecodeError(w http.ResponseWriter, op string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
}
