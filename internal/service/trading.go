package service

import (
	"time"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/store"
	"github.com/google/uuid"
)

// TradeResult reports a settled trade back to the caller.
type TradeResult struct {
	TradeID   string
	Exchange  string
	Company   string
	Operator  string
	Side      domain.TradeSide
	Quantity  int64
	UnitPrice int64 // price paid/received per share
	Total     int64
	Budget    int64 // operator budget after settlement
}

// PortfolioPosition is one held listing in a portfolio view.
type PortfolioPosition struct {
	Exchange  string
	Company   string
	Quantity  int64
	UnitPrice int64
	Value     int64
}

// Portfolio is the operator's mark-to-market view: budget, holdings value,
// and total capital.
type Portfolio struct {
	Operator        string
	Budget          int64
	ValueOfHoldings int64
	TotalCapital    int64
	Positions       []PortfolioPosition
}

// TradingService handles deposits, withdrawals, buy/sell requests, the trade
// journal, and portfolio queries.
type TradingService struct {
	companies *store.Registry[*domain.Company]
	exchanges *store.Registry[*domain.Exchange]
	operators *store.Registry[*domain.Operator]
	trades    *store.TradeStore
}

// NewTradingService creates a new TradingService.
func NewTradingService(
	companies *store.Registry[*domain.Company],
	exchanges *store.Registry[*domain.Exchange],
	operators *store.Registry[*domain.Operator],
	trades *store.TradeStore,
) *TradingService {
	return &TradingService{
		companies: companies,
		exchanges: exchanges,
		operators: operators,
		trades:    trades,
	}
}

// Deposit adds amount to the named operator's budget and returns the new
// budget.
func (s *TradingService) Deposit(operator string, amount int64) (int64, error) {
	o, ok := s.operators.Get(operator)
	if !ok {
		return 0, domain.ErrOperatorNotFound
	}
	if err := o.Deposit(amount); err != nil {
		return 0, err
	}
	return o.Budget(), nil
}

// Withdraw removes amount from the named operator's budget and returns the
// new budget.
func (s *TradingService) Withdraw(operator string, amount int64) (int64, error) {
	o, ok := s.operators.Get(operator)
	if !ok {
		return 0, domain.ErrOperatorNotFound
	}
	if err := o.Withdraw(amount); err != nil {
		return 0, err
	}
	return o.Budget(), nil
}

// Buy spends up to totalPrice on shares of company on exchange for the named
// operator, journals the settled trade, and returns the result. The traded
// quantity is totalPrice divided by the pre-trade unit price, rounded down;
// the remainder stays in the budget. The journal records the quantity and
// price the settlement itself executed at.
func (s *TradingService) Buy(operator, exchange, company string, totalPrice int64) (*TradeResult, error) {
	o, e, c, err := s.resolve(operator, exchange, company)
	if err != nil {
		return nil, err
	}

	quantity, price, err := o.BuyShares(e, c, totalPrice)
	if err != nil {
		return nil, err
	}
	return s.journal(o, e, c, domain.TradeSideBuy, quantity, price), nil
}

// Sell sells quantity shares of company on exchange for the named operator,
// journals the settled trade at the executed price, and returns the result.
func (s *TradingService) Sell(operator, exchange, company string, quantity int64) (*TradeResult, error) {
	o, e, c, err := s.resolve(operator, exchange, company)
	if err != nil {
		return nil, err
	}

	price, err := o.SellShares(e, c, quantity)
	if err != nil {
		return nil, err
	}
	return s.journal(o, e, c, domain.TradeSideSell, quantity, price), nil
}

// Portfolio returns the named operator's budget, holdings value, total
// capital, and ordered positions at current prices.
func (s *TradingService) Portfolio(operator string) (*Portfolio, error) {
	o, ok := s.operators.Get(operator)
	if !ok {
		return nil, domain.ErrOperatorNotFound
	}

	holdings := o.Holdings()
	positions := make([]PortfolioPosition, len(holdings))
	value := int64(0)
	for i, p := range holdings {
		price := p.Listing.UnitPrice()
		positions[i] = PortfolioPosition{
			Exchange:  p.Listing.Exchange(),
			Company:   p.Listing.Company().Name(),
			Quantity:  p.Quantity,
			UnitPrice: price,
			Value:     price * p.Quantity,
		}
		value += price * p.Quantity
	}

	budget := o.Budget()
	return &Portfolio{
		Operator:        o.Name(),
		Budget:          budget,
		ValueOfHoldings: value,
		TotalCapital:    budget + value,
		Positions:       positions,
	}, nil
}

// ListTrades returns the chronological trade journal of one listing.
func (s *TradingService) ListTrades(exchange, company string) ([]*domain.Trade, error) {
	e, ok := s.exchanges.Get(exchange)
	if !ok {
		return nil, domain.ErrExchangeNotFound
	}
	c, ok := s.companies.Get(company)
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	if _, err := e.FindListing(c); err != nil {
		return nil, err
	}
	return s.trades.GetByListing(exchange, company), nil
}

func (s *TradingService) resolve(operator, exchange, company string) (*domain.Operator, *domain.Exchange, *domain.Company, error) {
	o, ok := s.operators.Get(operator)
	if !ok {
		return nil, nil, nil, domain.ErrOperatorNotFound
	}
	e, ok := s.exchanges.Get(exchange)
	if !ok {
		return nil, nil, nil, domain.ErrExchangeNotFound
	}
	c, ok := s.companies.Get(company)
	if !ok {
		return nil, nil, nil, domain.ErrCompanyNotFound
	}
	return o, e, c, nil
}

func (s *TradingService) journal(o *domain.Operator, e *domain.Exchange, c *domain.Company, side domain.TradeSide, quantity, price int64) *TradeResult {
	t := &domain.Trade{
		TradeID:    uuid.NewString(),
		Exchange:   e.Name(),
		Company:    c.Name(),
		Operator:   o.Name(),
		Side:       side,
		Quantity:   quantity,
		UnitPrice:  price,
		ExecutedAt: time.Now(),
	}
	s.trades.Append(t)

	return &TradeResult{
		TradeID:   t.TradeID,
		Exchange:  t.Exchange,
		Company:   t.Company,
		Operator:  t.Operator,
		Side:      t.Side,
		Quantity:  t.Quantity,
		UnitPrice: t.UnitPrice,
		Total:     t.Quantity * t.UnitPrice,
		Budget:    o.Budget(),
	}
}
