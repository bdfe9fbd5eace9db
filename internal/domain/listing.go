package domain

import (
	"sort"
	"sync"
)

// Listing represents one company's shares on one exchange: the total share
// count, the current unit price, and the per-operator holdings. Listings are
// created and mutated exclusively by their owning Exchange; everything else
// sees them through the read accessors.
//
// The mutex guards (holdings, unitPrice) as a pair: buy and sell perform a
// read-check-mutate sequence across both fields that must appear atomic to
// concurrent traders. Lock order is listing before operator.
type Listing struct {
	exchange    string
	company     *Company
	totalShares int64

	mu        sync.RWMutex
	unitPrice int64
	holdings  map[*Operator]int64 // values strictly > 0; zero entries are removed
}

// Holder is one operator's position in a listing.
type Holder struct {
	Operator *Operator
	Quantity int64
}

func newListing(exchange string, company *Company, totalShares, unitPrice int64) *Listing {
	return &Listing{
		exchange:    exchange,
		company:     company,
		totalShares: totalShares,
		unitPrice:   unitPrice,
		holdings:    make(map[*Operator]int64),
	}
}

// Exchange returns the name of the exchange the listing belongs to.
func (l *Listing) Exchange() string {
	return l.exchange
}

// Company returns the listed company.
func (l *Listing) Company() *Company {
	return l.company
}

// TotalShares returns the immutable total share count.
func (l *Listing) TotalShares() int64 {
	return l.totalShares
}

// UnitPrice returns the current unit price.
func (l *Listing) UnitPrice() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.unitPrice
}

// AvailableShares returns the shares not currently held by any operator.
func (l *Listing) AvailableShares() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.available()
}

// available computes totalShares minus held shares. Callers must hold l.mu.
func (l *Listing) available() int64 {
	held := int64(0)
	for _, qty := range l.holdings {
		held += qty
	}
	return l.totalShares - held
}

// Holders returns a copy of the holdings, ordered by operator name.
func (l *Listing) Holders() []Holder {
	l.mu.RLock()
	defer l.mu.RUnlock()

	holders := make([]Holder, 0, len(l.holdings))
	for op, qty := range l.holdings {
		holders = append(holders, Holder{Operator: op, Quantity: qty})
	}
	sort.Slice(holders, func(i, j int) bool {
		return holders[i].Operator.Name() < holders[j].Operator.Name()
	})
	return holders
}

// listingLess orders listings by (exchange name, company name). Two listings
// of the same company on different exchanges are distinct.
func listingLess(a, b *Listing) bool {
	if a.exchange != b.exchange {
		return a.exchange < b.exchange
	}
	return a.company.Name() < b.company.Name()
}
