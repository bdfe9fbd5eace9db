package domain

import (
	"sort"
	"sync"
)

// Operator represents a market participant with a cash budget and a map of
// held listings. Instances are created through a store.Registry with budget
// 0, so there is exactly one Operator per name within a run.
//
// The mutex guards (budget, holdings). A trade settles under the listing
// lock with this lock nested inside (lock order listing before operator), so
// the funds check, the debit/credit, and the share transfer form one atomic
// step.
type Operator struct {
	name string

	mu       sync.RWMutex
	budget   int64
	holdings map[*Listing]int64 // values strictly > 0; zero entries are removed
}

// Position is one listing held by an operator, with the held quantity.
type Position struct {
	Listing  *Listing
	Quantity int64
}

// NewOperator creates an operator with budget 0 and no holdings. Callers are
// expected to go through a registry rather than construct operators directly.
func NewOperator(name string) *Operator {
	return &Operator{
		name:     name,
		holdings: make(map[*Listing]int64),
	}
}

// Name returns the operator's unique name.
func (o *Operator) Name() string {
	return o.name
}

// Budget returns the operator's current cash budget.
func (o *Operator) Budget() int64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.budget
}

// Deposit adds amount to the budget. The amount must be positive.
func (o *Operator) Deposit(amount int64) error {
	if amount <= 0 {
		return &ValidationError{Message: "deposit amount must be positive"}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.budget += amount
	return nil
}

// Withdraw removes amount from the budget. The amount must be positive and
// not exceed the budget.
func (o *Operator) Withdraw(amount int64) error {
	if amount <= 0 {
		return &ValidationError{Message: "withdrawal amount must be positive"}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.budget < amount {
		return ErrInsufficientFunds
	}
	o.budget -= amount
	return nil
}

// BuyShares spends up to totalPrice on shares of company on the given
// exchange. The traded quantity is totalPrice divided by the current unit
// price, rounded down; any remainder stays in the budget. The debit uses the
// unit price in effect before the trade's policy adjustment, i.e. the price
// actually paid. A totalPrice below the unit price resolves to quantity 0,
// which the exchange rejects as a non-positive quantity. It returns the
// executed quantity and unit price.
func (o *Operator) BuyShares(exchange *Exchange, company *Company, totalPrice int64) (int64, int64, error) {
	l, err := exchange.FindListing(company)
	if err != nil {
		return 0, 0, err
	}
	return exchange.BuyTotal(l, o, totalPrice)
}

// SellShares sells quantity shares of company on the given exchange,
// crediting quantity x the unit price in effect before the trade's policy
// adjustment. The exchange checks the holdings against the listing's map,
// which is the source of truth; this operator's own map is kept in lockstep.
// It returns the unit price received.
func (o *Operator) SellShares(exchange *Exchange, company *Company, quantity int64) (int64, error) {
	l, err := exchange.FindListing(company)
	if err != nil {
		return 0, err
	}
	return exchange.Sell(l, o, quantity)
}

// settleBuy atomically checks and debits the budget and records the position.
// Called by the exchange with the listing lock held.
func (o *Operator) settleBuy(l *Listing, quantity, price int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cost := quantity * price
	if o.budget < cost {
		return ErrInsufficientFunds
	}
	o.budget -= cost
	o.holdings[l] += quantity
	return nil
}

// settleSell credits the budget and reduces the position. Called by the
// exchange with the listing lock held, after the holdings check passed.
func (o *Operator) settleSell(l *Listing, quantity, price int64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.budget += quantity * price
	o.holdings[l] -= quantity
	if o.holdings[l] == 0 {
		delete(o.holdings, l)
	}
}

// ValueOfHoldings returns the mark-to-market value of the held positions at
// current prices. The holdings are snapshotted under the operator lock and
// priced after releasing it, so no path acquires operator-then-listing.
func (o *Operator) ValueOfHoldings() int64 {
	positions := o.Holdings()

	value := int64(0)
	for _, p := range positions {
		value += p.Listing.UnitPrice() * p.Quantity
	}
	return value
}

// TotalCapital returns budget plus the mark-to-market value of holdings.
func (o *Operator) TotalCapital() int64 {
	return o.Budget() + o.ValueOfHoldings()
}

// Holdings returns a copy of the held positions, ordered by
// (exchange name, company name).
func (o *Operator) Holdings() []Position {
	o.mu.RLock()
	defer o.mu.RUnlock()

	positions := make([]Position, 0, len(o.holdings))
	for l, qty := range o.holdings {
		positions = append(positions, Position{Listing: l, Quantity: qty})
	}
	sort.Slice(positions, func(i, j int) bool {
		return listingLess(positions[i].Listing, positions[j].Listing)
	})
	return positions
}
