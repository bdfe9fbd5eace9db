package domain

import (
	"errors"
	"sync"
	"testing"
)

func TestOperator_Deposit(t *testing.T) {
	o := NewOperator("mario")
	if got := o.Budget(); got != 0 {
		t.Fatalf("new operator budget = %d, want 0", got)
	}
	if err := o.Deposit(1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := o.Budget(); got != 1000 {
		t.Errorf("Budget = %d, want 1000", got)
	}
}

func TestOperator_Deposit_RejectsNonPositive(t *testing.T) {
	o := NewOperator("mario")
	for _, amount := range []int64{0, -10} {
		err := o.Deposit(amount)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Deposit(%d): expected ValidationError, got %v", amount, err)
		}
	}
}

func TestOperator_Withdraw(t *testing.T) {
	o := NewOperator("mario")
	_ = o.Deposit(100)

	if err := o.Withdraw(40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := o.Budget(); got != 60 {
		t.Errorf("Budget = %d, want 60", got)
	}

	if err := o.Withdraw(61); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := o.Budget(); got != 60 {
		t.Errorf("Budget = %d, want 60 after rejected withdrawal", got)
	}

	var validationErr *ValidationError
	if err := o.Withdraw(0); !errors.As(err, &validationErr) {
		t.Fatalf("Withdraw(0): expected ValidationError, got %v", err)
	}
}

// Scenario: Acme lists on NYSE with 100 shares at price 10. Mario deposits
// 1000 and buys with total_price 55: quantity = 55 div 10 = 5, debit 50 (the
// remainder 5 stays in the budget), availability drops to 95, and with
// ConstantIncrement(2) the price becomes 12.
func TestOperator_BuyShares(t *testing.T) {
	e := NewExchange("nyse")
	c, l := listedCompany(t, e, "acme", 100, 10)
	o := fundedOperator(t, "mario", 1000)

	inc, _ := NewConstantIncrement(2)
	if err := e.SetPolicy(inc); err != nil {
		t.Fatalf("set policy: %v", err)
	}

	quantity, price, err := o.BuyShares(e, c, 55)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quantity != 5 || price != 10 {
		t.Errorf("executed (quantity, price) = (%d, %d), want (5, 10)", quantity, price)
	}

	if got := o.Budget(); got != 950 {
		t.Errorf("Budget = %d, want 950 (debited 50, not 55)", got)
	}
	if got := l.AvailableShares(); got != 95 {
		t.Errorf("AvailableShares = %d, want 95", got)
	}
	if got := l.UnitPrice(); got != 12 {
		t.Errorf("UnitPrice = %d, want 12", got)
	}

	holdings := o.Holdings()
	if len(holdings) != 1 || holdings[0].Listing != l || holdings[0].Quantity != 5 {
		t.Errorf("unexpected holdings: %+v", holdings)
	}
}

// Continuation: Mario sells 3 shares at the now-current price 12, crediting
// 36; with ConstantDecrement(5) the price becomes 7.
func TestOperator_SellShares(t *testing.T) {
	e := NewExchange("nyse")
	c, l := listedCompany(t, e, "acme", 100, 10)
	o := fundedOperator(t, "mario", 1000)

	inc, _ := NewConstantIncrement(2)
	_ = e.SetPolicy(inc)
	if _, _, err := o.BuyShares(e, c, 55); err != nil {
		t.Fatalf("buy: %v", err)
	}

	dec, _ := NewConstantDecrement(5)
	_ = e.SetPolicy(dec)
	price, err := o.SellShares(e, c, 3)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if price != 12 {
		t.Errorf("executed price = %d, want 12", price)
	}

	if got := o.Budget(); got != 986 {
		t.Errorf("Budget = %d, want 986 (950 + 3x12)", got)
	}
	if got := l.AvailableShares(); got != 98 {
		t.Errorf("AvailableShares = %d, want 98", got)
	}
	if got := l.UnitPrice(); got != 7 {
		t.Errorf("UnitPrice = %d, want 7 (12 - 5)", got)
	}

	holdings := o.Holdings()
	if len(holdings) != 1 || holdings[0].Quantity != 2 {
		t.Errorf("unexpected holdings: %+v", holdings)
	}
}

func TestOperator_SellShares_InsufficientHoldingsLeavesStateUntouched(t *testing.T) {
	e := NewExchange("nyse")
	c, l := listedCompany(t, e, "acme", 100, 10)
	o := fundedOperator(t, "mario", 1000)

	if _, _, err := o.BuyShares(e, c, 20); err != nil { // 2 shares
		t.Fatalf("buy: %v", err)
	}
	budgetBefore := o.Budget()

	if _, err := o.SellShares(e, c, 4); err != ErrInsufficientHoldings {
		t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
	}
	if got := o.Budget(); got != budgetBefore {
		t.Errorf("Budget = %d, want %d (unchanged)", got, budgetBefore)
	}
	if holdings := o.Holdings(); len(holdings) != 1 || holdings[0].Quantity != 2 {
		t.Errorf("unexpected holdings after rejection: %+v", holdings)
	}
	if got := l.AvailableShares(); got != 98 {
		t.Errorf("AvailableShares = %d, want 98", got)
	}
}

func TestOperator_BuyShares_UnderPricedOrderResolvesToZeroQuantity(t *testing.T) {
	e := NewExchange("nyse")
	c, _ := listedCompany(t, e, "acme", 100, 10)
	o := fundedOperator(t, "mario", 1000)

	// total_price 9 < unit price 10 → quantity 0, rejected by the exchange.
	_, _, err := o.BuyShares(e, c, 9)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := o.Budget(); got != 1000 {
		t.Errorf("Budget = %d, want 1000 (nothing spent)", got)
	}
}

func TestOperator_BuyShares_Preconditions(t *testing.T) {
	e := NewExchange("nyse")
	c, _ := listedCompany(t, e, "acme", 10, 10)
	o := fundedOperator(t, "mario", 50)
	unlisted := NewCompany("ghost")

	t.Run("non-positive total price", func(t *testing.T) {
		var validationErr *ValidationError
		if _, _, err := o.BuyShares(e, c, 0); !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
	t.Run("listing not found", func(t *testing.T) {
		if _, _, err := o.BuyShares(e, unlisted, 100); err != ErrListingNotFound {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})
	t.Run("insufficient shares", func(t *testing.T) {
		rich := fundedOperator(t, "rich", 10000)
		if _, _, err := rich.BuyShares(e, c, 110); err != ErrInsufficientShares {
			t.Fatalf("expected ErrInsufficientShares, got %v", err)
		}
	})
}

func TestOperator_ValueOfHoldingsAndTotalCapital(t *testing.T) {
	nyse := NewExchange("nyse")
	lse := NewExchange("lse")
	acme := NewCompany("acme")
	mint := NewCompany("mint")
	if err := acme.ListOn(nyse, 100, 10); err != nil {
		t.Fatalf("list acme: %v", err)
	}
	if err := mint.ListOn(lse, 100, 3); err != nil {
		t.Fatalf("list mint: %v", err)
	}

	o := fundedOperator(t, "mario", 1000)
	if _, _, err := o.BuyShares(nyse, acme, 50); err != nil { // 5 x 10
		t.Fatalf("buy acme: %v", err)
	}
	if _, _, err := o.BuyShares(lse, mint, 30); err != nil { // 10 x 3
		t.Fatalf("buy mint: %v", err)
	}

	// Budget: 1000 - 50 - 30 = 920; holdings: 5x10 + 10x3 = 80.
	if got := o.ValueOfHoldings(); got != 80 {
		t.Errorf("ValueOfHoldings = %d, want 80", got)
	}
	if got := o.TotalCapital(); got != 1000 {
		t.Errorf("TotalCapital = %d, want 1000", got)
	}

	// Idempotent queries: repeated calls with no mutation agree.
	if a, b := o.TotalCapital(), o.TotalCapital(); a != b {
		t.Errorf("TotalCapital not idempotent: %d vs %d", a, b)
	}

	// Mark-to-market, not cost basis: a price move changes the value.
	inc, _ := NewConstantIncrement(10)
	_ = nyse.SetPolicy(inc)
	other := fundedOperator(t, "luigi", 1000)
	if _, _, err := other.BuyShares(nyse, acme, 10); err != nil { // price 10 → 20
		t.Fatalf("luigi buy: %v", err)
	}
	if got := o.ValueOfHoldings(); got != 130 { // 5x20 + 10x3
		t.Errorf("ValueOfHoldings = %d, want 130 after price move", got)
	}
}

func TestOperator_Holdings_Ordered(t *testing.T) {
	nyse := NewExchange("nyse")
	lse := NewExchange("lse")
	acme := NewCompany("acme")
	zeta := NewCompany("zeta")
	if err := acme.ListOn(nyse, 10, 1); err != nil {
		t.Fatal(err)
	}
	if err := zeta.ListOn(nyse, 10, 1); err != nil {
		t.Fatal(err)
	}
	if err := acme.ListOn(lse, 10, 1); err != nil {
		t.Fatal(err)
	}

	o := fundedOperator(t, "mario", 100)
	for _, buy := range []struct {
		e *Exchange
		c *Company
	}{{nyse, zeta}, {lse, acme}, {nyse, acme}} {
		if _, _, err := o.BuyShares(buy.e, buy.c, 1); err != nil {
			t.Fatalf("buy: %v", err)
		}
	}

	holdings := o.Holdings()
	if len(holdings) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(holdings))
	}
	wantOrder := []struct{ exchange, company string }{
		{"lse", "acme"}, {"nyse", "acme"}, {"nyse", "zeta"},
	}
	for i, want := range wantOrder {
		got := holdings[i].Listing
		if got.Exchange() != want.exchange || got.Company().Name() != want.company {
			t.Errorf("holdings[%d] = (%s, %s), want (%s, %s)",
				i, got.Exchange(), got.Company().Name(), want.exchange, want.company)
		}
	}
}

// Two simultaneous buys on different listings, each costing the whole budget:
// exactly one may settle. A funds check that is not atomic with the debit
// would let both through and drive the budget negative.
func TestOperator_ConcurrentBuysCannotOverdrawBudget(t *testing.T) {
	for i := 0; i < 200; i++ {
		e := NewExchange("nyse")
		acme := NewCompany("acme")
		zeta := NewCompany("zeta")
		if err := acme.ListOn(e, 10, 100); err != nil {
			t.Fatalf("list acme: %v", err)
		}
		if err := zeta.ListOn(e, 10, 100); err != nil {
			t.Fatalf("list zeta: %v", err)
		}
		o := fundedOperator(t, "mario", 100)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for j, c := range []*Company{acme, zeta} {
			wg.Add(1)
			go func(j int, c *Company) {
				defer wg.Done()
				_, _, errs[j] = o.BuyShares(e, c, 100)
			}(j, c)
		}
		wg.Wait()

		settled := 0
		for _, err := range errs {
			switch err {
			case nil:
				settled++
			case ErrInsufficientFunds:
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if settled != 1 {
			t.Fatalf("settled %d buys, want exactly 1 (errs: %v)", settled, errs)
		}
		if got := o.Budget(); got != 0 {
			t.Fatalf("Budget = %d, want 0", got)
		}
	}
}

// A withdrawal racing a buy of the same amount: the budget covers one of
// them, never both.
func TestOperator_WithdrawRacingBuyCannotOverdraw(t *testing.T) {
	for i := 0; i < 200; i++ {
		e := NewExchange("nyse")
		c, _ := listedCompany(t, e, "acme", 10, 100)
		o := fundedOperator(t, "mario", 100)

		var buyErr, withdrawErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, buyErr = o.BuyShares(e, c, 100)
		}()
		go func() {
			defer wg.Done()
			withdrawErr = o.Withdraw(100)
		}()
		wg.Wait()

		if (buyErr == nil) == (withdrawErr == nil) {
			t.Fatalf("want exactly one success: buy=%v withdraw=%v", buyErr, withdrawErr)
		}
		if got := o.Budget(); got != 0 {
			t.Fatalf("Budget = %d, want 0", got)
		}
	}
}
