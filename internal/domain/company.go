package domain

import (
	"sort"
	"sync"
)

// Company represents a named entity that can list its shares on exchanges.
// Instances are created through a store.Registry, so there is exactly one
// Company per name within a run.
type Company struct {
	name string

	mu        sync.RWMutex
	exchanges map[string]bool // exchange name → listed
}

// NewCompany creates a company with no listings. Callers are expected to go
// through a registry rather than construct companies directly.
func NewCompany(name string) *Company {
	return &Company{
		name:      name,
		exchanges: make(map[string]bool),
	}
}

// Name returns the company's unique name.
func (c *Company) Name() string {
	return c.name
}

// Exchanges returns the names of the exchanges where the company is listed,
// in lexicographic order.
func (c *Company) Exchanges() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.exchanges))
	for name := range c.exchanges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListOn lists the company on the given exchange with the given total share
// count and starting unit price. This is the only path that creates a
// listing. It returns a ValidationError for non-positive totalShares or
// unitPrice, and ErrAlreadyListed if the company already has a listing on
// that exchange.
func (c *Company) ListOn(exchange *Exchange, totalShares, unitPrice int64) error {
	if totalShares <= 0 {
		return &ValidationError{Message: "total_shares must be positive"}
	}
	if unitPrice <= 0 {
		return &ValidationError{Message: "unit_price must be positive"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exchanges[exchange.Name()] {
		return ErrAlreadyListed
	}
	if _, err := exchange.Quote(c, totalShares, unitPrice); err != nil {
		return err
	}
	c.exchanges[exchange.Name()] = true
	return nil
}
