package domain

import (
	"testing"

	"pgregory.net/rapid"
)

// checkMarketInvariants verifies the listing and holdings invariants that
// must hold at all times: availability within [0, totalShares], price >= 1,
// no zero or negative holdings entries, and the listing and operator maps in
// lockstep.
func checkMarketInvariants(t *rapid.T, listings []*Listing, operators []*Operator) {
	for _, l := range listings {
		available := l.AvailableShares()
		if available < 0 || available > l.TotalShares() {
			t.Fatalf("availability out of range: %d of %d", available, l.TotalShares())
		}
		if l.UnitPrice() < 1 {
			t.Fatalf("unit price fell below 1: %d", l.UnitPrice())
		}
		for _, h := range l.Holders() {
			if h.Quantity <= 0 {
				t.Fatalf("listing holders contains non-positive quantity %d", h.Quantity)
			}
		}
	}
	for _, o := range operators {
		if o.Budget() < 0 {
			t.Fatalf("budget went negative: %d", o.Budget())
		}
		for _, p := range o.Holdings() {
			if p.Quantity <= 0 {
				t.Fatalf("operator holdings contains non-positive quantity %d", p.Quantity)
			}
			// Lockstep with the listing's map.
			found := int64(0)
			for _, h := range p.Listing.Holders() {
				if h.Operator == o {
					found = h.Quantity
				}
			}
			if found != p.Quantity {
				t.Fatalf("maps out of lockstep: operator says %d, listing says %d", p.Quantity, found)
			}
		}
	}
}

func TestProperty_TradingPreservesInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		exchange := NewExchange("ex")
		policy := genPolicy().Draw(t, "policy")
		if err := exchange.SetPolicy(policy); err != nil {
			t.Fatalf("set policy: %v", err)
		}

		numCompanies := rapid.IntRange(1, 3).Draw(t, "numCompanies")
		companies := make([]*Company, numCompanies)
		listings := make([]*Listing, numCompanies)
		for i := range companies {
			companies[i] = NewCompany(rapid.StringMatching(`c[0-9]`).Draw(t, "company") + string(rune('a'+i)))
			total := rapid.Int64Range(1, 500).Draw(t, "totalShares")
			price := rapid.Int64Range(1, 50).Draw(t, "unitPrice")
			if err := companies[i].ListOn(exchange, total, price); err != nil {
				t.Fatalf("list: %v", err)
			}
			l, err := exchange.FindListing(companies[i])
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			listings[i] = l
		}

		numOperators := rapid.IntRange(1, 3).Draw(t, "numOperators")
		operators := make([]*Operator, numOperators)
		expectedBudget := make([]int64, numOperators)
		for i := range operators {
			operators[i] = NewOperator("op" + string(rune('a'+i)))
		}

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			oi := rapid.IntRange(0, numOperators-1).Draw(t, "oi")
			ci := rapid.IntRange(0, numCompanies-1).Draw(t, "ci")
			o, c := operators[oi], companies[ci]

			switch rapid.IntRange(0, 3).Draw(t, "action") {
			case 0:
				amount := rapid.Int64Range(1, 1000).Draw(t, "deposit")
				if err := o.Deposit(amount); err != nil {
					t.Fatalf("deposit: %v", err)
				}
				expectedBudget[oi] += amount
			case 1:
				amount := rapid.Int64Range(1, 1000).Draw(t, "withdraw")
				if err := o.Withdraw(amount); err == nil {
					expectedBudget[oi] -= amount
				}
			case 2:
				totalPrice := rapid.Int64Range(1, 2000).Draw(t, "totalPrice")
				if quantity, price, err := o.BuyShares(exchange, c, totalPrice); err == nil {
					// Conservation on buy: debit is the executed quantity x
					// price; the division remainder stays in the budget.
					expectedBudget[oi] -= quantity * price
				}
			case 3:
				quantity := rapid.Int64Range(1, 100).Draw(t, "sellQty")
				if price, err := o.SellShares(exchange, c, quantity); err == nil {
					// Conservation on sell: credit is quantity x the executed price.
					expectedBudget[oi] += quantity * price
				}
			}

			checkMarketInvariants(t, listings, operators)
			for i, o := range operators {
				if got := o.Budget(); got != expectedBudget[i] {
					t.Fatalf("budget drift for operator %d: got %d, want %d", i, got, expectedBudget[i])
				}
			}
		}
	})
}
