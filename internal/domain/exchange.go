package domain

import (
	"sync"

	"github.com/google/btree"
)

// Exchange represents a trading venue. It owns its set of listings, ordered
// by (exchange name, company name), and one active price policy applied
// after every trade. Instances are created through a store.Registry, so
// there is exactly one Exchange per name within a run.
//
// The exchange is the only component that mutates listing internals.
type Exchange struct {
	name string

	mu       sync.RWMutex // guards listings tree and policy
	listings *btree.BTreeG[*Listing]
	policy   PricePolicy
}

// NewExchange creates an exchange with no listings and the Unchanged policy.
// Callers are expected to go through a registry rather than construct
// exchanges directly.
func NewExchange(name string) *Exchange {
	const degree = 8
	return &Exchange{
		name:     name,
		listings: btree.NewG[*Listing](degree, listingLess),
		policy:   Unchanged{},
	}
}

// Name returns the exchange's unique name.
func (e *Exchange) Name() string {
	return e.name
}

// SetPolicy replaces the active price policy. The new policy takes effect
// for all subsequent trades on any listing of this exchange; existing prices
// are not rewritten. A nil policy is rejected.
func (e *Exchange) SetPolicy(p PricePolicy) error {
	if p == nil {
		return &ValidationError{Message: "policy must not be nil"}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policy = p
	return nil
}

// Quote creates a listing for the given company with full availability and
// the given starting price, and adds it to the exchange's listing set. It is
// invoked only by Company.ListOn, which guarantees uniqueness; Quote itself
// only re-checks the numeric constraints.
func (e *Exchange) Quote(company *Company, totalShares, unitPrice int64) (*Listing, error) {
	if totalShares <= 0 {
		return nil, &ValidationError{Message: "total_shares must be positive"}
	}
	if unitPrice <= 0 {
		return nil, &ValidationError{Message: "unit_price must be positive"}
	}

	l := newListing(e.name, company, totalShares, unitPrice)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.listings.ReplaceOrInsert(l)
	return l, nil
}

// FindListing returns the listing of the given company on this exchange, or
// ErrListingNotFound if the company is not listed here.
func (e *Exchange) FindListing(company *Company) (*Listing, error) {
	key := &Listing{exchange: e.name, company: company}

	e.mu.RLock()
	defer e.mu.RUnlock()

	l, ok := e.listings.Get(key)
	if !ok {
		return nil, ErrListingNotFound
	}
	return l, nil
}

// Listings returns the exchange's listings in (exchange name, company name)
// order. The returned slice is a copy; the listings themselves are shared.
func (e *Exchange) Listings() []*Listing {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*Listing, 0, e.listings.Len())
	e.listings.Ascend(func(l *Listing) bool {
		out = append(out, l)
		return true
	})
	return out
}

// Buy transfers quantity shares of the listing to the operator, debits the
// operator's budget at the unit price in effect before the trade, and applies
// the price policy. The share transfer and the check-and-debit run as one
// settlement under the listing lock with the operator lock nested inside
// (lock order listing before operator), so concurrent trades cannot overdraw
// a budget. It returns the unit price paid.
func (e *Exchange) Buy(l *Listing, op *Operator, quantity int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return e.buy(l, op, quantity)
}

// BuyTotal spends up to totalPrice on the listing: the traded quantity is
// totalPrice divided by the current unit price, rounded down. The division
// and the settlement happen under the listing lock, so both see the same
// price. It returns the executed quantity and unit price.
func (e *Exchange) BuyTotal(l *Listing, op *Operator, totalPrice int64) (int64, int64, error) {
	if totalPrice <= 0 {
		return 0, 0, &ValidationError{Message: "total_price must be positive"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	quantity := totalPrice / l.unitPrice
	price, err := e.buy(l, op, quantity)
	if err != nil {
		return 0, 0, err
	}
	return quantity, price, nil
}

// buy settles a purchase. Callers must hold l.mu.
func (e *Exchange) buy(l *Listing, op *Operator, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, &ValidationError{Message: "quantity must be positive"}
	}
	if l.available() < quantity {
		return 0, ErrInsufficientShares
	}

	price := l.unitPrice
	if err := op.settleBuy(l, quantity, price); err != nil {
		return 0, err
	}
	l.holdings[op] += quantity
	l.unitPrice = e.currentPolicy().ComputePrice(price, quantity, true)
	return price, nil
}

// Sell transfers quantity shares of the listing from the operator back to
// availability, credits the operator at the unit price in effect before the
// trade, and applies the price policy. The listing's holdings map is the
// source of truth for the holdings check. It returns the unit price received.
func (e *Exchange) Sell(l *Listing, op *Operator, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, &ValidationError{Message: "quantity must be positive"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.holdings[op] < quantity {
		return 0, ErrInsufficientHoldings
	}

	price := l.unitPrice
	op.settleSell(l, quantity, price)
	l.holdings[op] -= quantity
	if l.holdings[op] == 0 {
		delete(l.holdings, op)
	}
	l.unitPrice = e.currentPolicy().ComputePrice(price, quantity, false)
	return price, nil
}

func (e *Exchange) currentPolicy() PricePolicy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy
}
