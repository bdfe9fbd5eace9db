package domain

import "time"

// TradeSide indicates whether a trade was a buy or a sell.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Trade records a settled buy or sell against a listing. UnitPrice is the
// price actually paid or received per share, i.e. the price in effect before
// that trade's policy adjustment.
type Trade struct {
	TradeID    string
	Exchange   string
	Company    string
	Operator   string
	Side       TradeSide
	Quantity   int64
	UnitPrice  int64
	ExecutedAt time.Time
}
