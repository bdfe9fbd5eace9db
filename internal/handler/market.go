package handler

import (
	"net/http"
	"time"

	"github.com/efreitasn/marketsim/internal/service"
	"github.com/go-chi/chi/v5"
)

// MarketHandler handles HTTP requests for companies, exchanges, and listings.
type MarketHandler struct {
	marketSvc  *service.MarketService
	tradingSvc *service.TradingService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService, tradingSvc *service.TradingService) *MarketHandler {
	return &MarketHandler{
		marketSvc:  marketSvc,
		tradingSvc: tradingSvc,
	}
}

// createEntityRequest is the JSON request body for POST /companies,
// POST /exchanges, and POST /operators.
type createEntityRequest struct {
	Name string `json:"name"`
}

// entityResponse is the JSON response for entity creation. Creation is
// idempotent: an existing name returns the canonical entity with 200, a new
// name returns 201.
type entityResponse struct {
	Name string `json:"name"`
}

// createListingRequest is the JSON request body for
// POST /companies/{company}/listings.
type createListingRequest struct {
	Exchange    string `json:"exchange"`
	TotalShares int64  `json:"total_shares"`
	UnitPrice   int64  `json:"unit_price"`
}

// setPolicyRequest is the JSON request body for
// PUT /exchanges/{exchange}/policy.
type setPolicyRequest struct {
	Type      string `json:"type"`
	Step      int64  `json:"step,omitempty"`
	Increment int64  `json:"increment,omitempty"`
	Decrement int64  `json:"decrement,omitempty"`
}

// listingResponse is a single listing in listing responses.
type listingResponse struct {
	Exchange        string `json:"exchange"`
	Company         string `json:"company"`
	TotalShares     int64  `json:"total_shares"`
	AvailableShares int64  `json:"available_shares"`
	UnitPrice       int64  `json:"unit_price"`
}

// holderResponse is one operator position in a listing detail response.
type holderResponse struct {
	Operator string `json:"operator"`
	Quantity int64  `json:"quantity"`
}

// listingDetailResponse is the JSON response for
// GET /exchanges/{exchange}/listings/{company}.
type listingDetailResponse struct {
	listingResponse
	Holders []holderResponse `json:"holders"`
}

// listingListResponse is the JSON response for
// GET /exchanges/{exchange}/listings.
type listingListResponse struct {
	Exchange string            `json:"exchange"`
	Listings []listingResponse `json:"listings"`
}

// tradeResponse is a single journal entry in the trade listing.
type tradeResponse struct {
	TradeID    string `json:"trade_id"`
	Operator   string `json:"operator"`
	Side       string `json:"side"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	ExecutedAt string `json:"executed_at"`
}

// tradeListResponse is the JSON response for
// GET /exchanges/{exchange}/listings/{company}/trades.
type tradeListResponse struct {
	Exchange string          `json:"exchange"`
	Company  string          `json:"company"`
	Trades   []tradeResponse `json:"trades"`
}

// CreateCompany handles POST /companies.
func (h *MarketHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createEntityRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	c, created, err := h.marketSvc.CreateCompany(req.Name)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, createdStatus(created), entityResponse{Name: c.Name()})
}

// CreateExchange handles POST /exchanges.
func (h *MarketHandler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	var req createEntityRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	e, created, err := h.marketSvc.CreateExchange(req.Name)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, createdStatus(created), entityResponse{Name: e.Name()})
}

// CreateListing handles POST /companies/{company}/listings.
func (h *MarketHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	var req createListingRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.marketSvc.ListCompany(company, req.Exchange, req.TotalShares, req.UnitPrice); err != nil {
		mapDomainError(w, err)
		return
	}

	detail, err := h.marketSvc.GetListing(req.Exchange, company)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toListingResponse(detail.ListingInfo))
}

// SetPolicy handles PUT /exchanges/{exchange}/policy.
func (h *MarketHandler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	exchange := chi.URLParam(r, "exchange")

	var req setPolicyRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	err := h.marketSvc.SetPolicy(exchange, service.PolicySpec{
		Type:      req.Type,
		Step:      req.Step,
		Increment: req.Increment,
		Decrement: req.Decrement,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"exchange": exchange,
		"policy":   req.Type,
	})
}

// GetListings handles GET /exchanges/{exchange}/listings.
func (h *MarketHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	exchange := chi.URLParam(r, "exchange")

	infos, err := h.marketSvc.GetListings(exchange)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	listings := make([]listingResponse, len(infos))
	for i, info := range infos {
		listings[i] = toListingResponse(info)
	}
	WriteJSON(w, http.StatusOK, listingListResponse{
		Exchange: exchange,
		Listings: listings,
	})
}

// GetListing handles GET /exchanges/{exchange}/listings/{company}.
func (h *MarketHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	exchange := chi.URLParam(r, "exchange")
	company := chi.URLParam(r, "company")

	detail, err := h.marketSvc.GetListing(exchange, company)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	holders := make([]holderResponse, len(detail.Holders))
	for i, holder := range detail.Holders {
		holders[i] = holderResponse{
			Operator: holder.Operator,
			Quantity: holder.Quantity,
		}
	}
	WriteJSON(w, http.StatusOK, listingDetailResponse{
		listingResponse: toListingResponse(detail.ListingInfo),
		Holders:         holders,
	})
}

// ListTrades handles GET /exchanges/{exchange}/listings/{company}/trades.
func (h *MarketHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	exchange := chi.URLParam(r, "exchange")
	company := chi.URLParam(r, "company")

	trades, err := h.tradingSvc.ListTrades(exchange, company)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := make([]tradeResponse, len(trades))
	for i, t := range trades {
		resp[i] = tradeResponse{
			TradeID:    t.TradeID,
			Operator:   t.Operator,
			Side:       string(t.Side),
			Quantity:   t.Quantity,
			UnitPrice:  t.UnitPrice,
			ExecutedAt: t.ExecutedAt.UTC().Format(time.RFC3339),
		}
	}
	WriteJSON(w, http.StatusOK, tradeListResponse{
		Exchange: exchange,
		Company:  company,
		Trades:   resp,
	})
}

func toListingResponse(info service.ListingInfo) listingResponse {
	return listingResponse{
		Exchange:        info.Exchange,
		Company:         info.Company,
		TotalShares:     info.TotalShares,
		AvailableShares: info.AvailableShares,
		UnitPrice:       info.UnitPrice,
	}
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
