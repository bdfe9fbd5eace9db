package store

import (
	"sync"

	"github.com/efreitasn/marketsim/internal/domain"
)

// TradeStore is a thread-safe in-memory journal of settled trades, keyed by
// (exchange name, company name). Trades are append-only and chronological.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[listingKey][]*domain.Trade
}

type listingKey struct {
	exchange string
	company  string
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[listingKey][]*domain.Trade),
	}
}

// Append adds a trade to the listing's chronological list.
func (s *TradeStore) Append(t *domain.Trade) {
	key := listingKey{exchange: t.Exchange, company: t.Company}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[key] = append(s.trades[key], t)
}

// GetByListing returns all trades for a listing in chronological order.
// Returns an empty slice if no trades exist for the listing.
func (s *TradeStore) GetByListing(exchange, company string) []*domain.Trade {
	key := listingKey{exchange: exchange, company: company}

	s.mu.RLock()
	defer s.mu.RUnlock()

	trades := s.trades[key]
	if trades == nil {
		return []*domain.Trade{}
	}

	// Return a copy to avoid callers mutating the internal slice.
	result := make([]*domain.Trade, len(trades))
	copy(result, trades)
	return result
}
