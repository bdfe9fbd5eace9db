package domain

// PricePolicy computes a listing's new unit price after a trade. It receives
// the unit price in effect before the trade's adjustment, the traded
// quantity, and the trade direction. Implementations must be pure functions
// of those inputs (plus their own fixed parameters) and must return a price
// >= 1. The built-in policies ignore quantity; it is part of the contract so
// volume-sensitive policies can be plugged in.
type PricePolicy interface {
	ComputePrice(price, quantity int64, isBuy bool) int64
}

// Unchanged leaves the price as it is on every trade. It is the default
// policy of a new exchange.
type Unchanged struct{}

// ComputePrice returns the price unmodified.
func (Unchanged) ComputePrice(price, quantity int64, isBuy bool) int64 {
	return price
}

// ConstantIncrement raises the price by a fixed step on every buy and leaves
// it unchanged on sells.
type ConstantIncrement struct {
	step int64
}

// NewConstantIncrement creates a ConstantIncrement policy. The step must be
// positive.
func NewConstantIncrement(step int64) (*ConstantIncrement, error) {
	if step <= 0 {
		return nil, &ValidationError{Message: "increment step must be positive"}
	}
	return &ConstantIncrement{step: step}, nil
}

func (p *ConstantIncrement) ComputePrice(price, quantity int64, isBuy bool) int64 {
	if isBuy {
		return price + p.step
	}
	return price
}

// ConstantDecrement lowers the price by a fixed step on every sell, flooring
// at 1, and leaves it unchanged on buys.
type ConstantDecrement struct {
	step int64
}

// NewConstantDecrement creates a ConstantDecrement policy. The step must be
// positive.
func NewConstantDecrement(step int64) (*ConstantDecrement, error) {
	if step <= 0 {
		return nil, &ValidationError{Message: "decrement step must be positive"}
	}
	return &ConstantDecrement{step: step}, nil
}

func (p *ConstantDecrement) ComputePrice(price, quantity int64, isBuy bool) int64 {
	if isBuy {
		return price
	}
	if price-p.step < 1 {
		return 1
	}
	return price - p.step
}

// CombinedConstantStep raises the price by a fixed step on buys and lowers it
// by another fixed step on sells, flooring at 1.
type CombinedConstantStep struct {
	increment *ConstantIncrement
	decrement *ConstantDecrement
}

// NewCombinedConstantStep creates a CombinedConstantStep policy. Both steps
// must be positive.
func NewCombinedConstantStep(increment, decrement int64) (*CombinedConstantStep, error) {
	inc, err := NewConstantIncrement(increment)
	if err != nil {
		return nil, err
	}
	dec, err := NewConstantDecrement(decrement)
	if err != nil {
		return nil, err
	}
	return &CombinedConstantStep{increment: inc, decrement: dec}, nil
}

func (p *CombinedConstantStep) ComputePrice(price, quantity int64, isBuy bool) int64 {
	if isBuy {
		return p.increment.ComputePrice(price, quantity, isBuy)
	}
	return p.decrement.ComputePrice(price, quantity, isBuy)
}
