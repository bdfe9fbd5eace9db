package handler

import (
	"net/http"

	"github.com/efreitasn/marketsim/internal/service"
	"github.com/go-chi/chi/v5"
)

// OperatorHandler handles HTTP requests for operator endpoints.
type OperatorHandler struct {
	marketSvc  *service.MarketService
	tradingSvc *service.TradingService
}

// NewOperatorHandler creates a new OperatorHandler.
func NewOperatorHandler(marketSvc *service.MarketService, tradingSvc *service.TradingService) *OperatorHandler {
	return &OperatorHandler{
		marketSvc:  marketSvc,
		tradingSvc: tradingSvc,
	}
}

// amountRequest is the JSON request body for deposits and withdrawals.
type amountRequest struct {
	Amount int64 `json:"amount"`
}

// budgetResponse is the JSON response after a deposit or withdrawal.
type budgetResponse struct {
	Operator string `json:"operator"`
	Budget   int64  `json:"budget"`
}

// purchaseRequest is the JSON request body for POST /operators/{operator}/purchases.
type purchaseRequest struct {
	Exchange   string `json:"exchange"`
	Company    string `json:"company"`
	TotalPrice int64  `json:"total_price"`
}

// saleRequest is the JSON request body for POST /operators/{operator}/sales.
type saleRequest struct {
	Exchange string `json:"exchange"`
	Company  string `json:"company"`
	Quantity int64  `json:"quantity"`
}

// tradeResultResponse is the JSON response for settled purchases and sales.
type tradeResultResponse struct {
	TradeID   string `json:"trade_id"`
	Exchange  string `json:"exchange"`
	Company   string `json:"company"`
	Operator  string `json:"operator"`
	Side      string `json:"side"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
	Budget    int64  `json:"budget"`
}

// positionResponse is one held listing in the portfolio response.
type positionResponse struct {
	Exchange  string `json:"exchange"`
	Company   string `json:"company"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Value     int64  `json:"value"`
}

// portfolioResponse is the JSON response for GET /operators/{operator}/portfolio.
type portfolioResponse struct {
	Operator        string             `json:"operator"`
	Budget          int64              `json:"budget"`
	ValueOfHoldings int64              `json:"value_of_holdings"`
	TotalCapital    int64              `json:"total_capital"`
	Positions       []positionResponse `json:"positions"`
}

// Create handles POST /operators.
func (h *OperatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntityRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	o, created, err := h.marketSvc.CreateOperator(req.Name)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, createdStatus(created), entityResponse{Name: o.Name()})
}

// Deposit handles POST /operators/{operator}/deposits.
func (h *OperatorHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	operator := chi.URLParam(r, "operator")

	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	budget, err := h.tradingSvc.Deposit(operator, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, budgetResponse{Operator: operator, Budget: budget})
}

// Withdraw handles POST /operators/{operator}/withdrawals.
func (h *OperatorHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	operator := chi.URLParam(r, "operator")

	var req amountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	budget, err := h.tradingSvc.Withdraw(operator, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, budgetResponse{Operator: operator, Budget: budget})
}

// Buy handles POST /operators/{operator}/purchases.
func (h *OperatorHandler) Buy(w http.ResponseWriter, r *http.Request) {
	operator := chi.URLParam(r, "operator")

	var req purchaseRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.tradingSvc.Buy(operator, req.Exchange, req.Company, req.TotalPrice)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toTradeResultResponse(result))
}

// Sell handles POST /operators/{operator}/sales.
func (h *OperatorHandler) Sell(w http.ResponseWriter, r *http.Request) {
	operator := chi.URLParam(r, "operator")

	var req saleRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.tradingSvc.Sell(operator, req.Exchange, req.Company, req.Quantity)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toTradeResultResponse(result))
}

// Portfolio handles GET /operators/{operator}/portfolio.
func (h *OperatorHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	operator := chi.URLParam(r, "operator")

	p, err := h.tradingSvc.Portfolio(operator)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	positions := make([]positionResponse, len(p.Positions))
	for i, pos := range p.Positions {
		positions[i] = positionResponse{
			Exchange:  pos.Exchange,
			Company:   pos.Company,
			Quantity:  pos.Quantity,
			UnitPrice: pos.UnitPrice,
			Value:     pos.Value,
		}
	}
	WriteJSON(w, http.StatusOK, portfolioResponse{
		Operator:        p.Operator,
		Budget:          p.Budget,
		ValueOfHoldings: p.ValueOfHoldings,
		TotalCapital:    p.TotalCapital,
		Positions:       positions,
	})
}

func toTradeResultResponse(r *service.TradeResult) tradeResultResponse {
	return tradeResultResponse{
		TradeID:   r.TradeID,
		Exchange:  r.Exchange,
		Company:   r.Company,
		Operator:  r.Operator,
		Side:      string(r.Side),
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Total:     r.Total,
		Budget:    r.Budget,
	}
}
