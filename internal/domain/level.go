package domain

import "github.com/shopspring/decimal"

// Side identifies which half of the book a level belongs to.
type Side string

const (
	Bid Side = "bid"
	Ask Side = "ask"
)

// Level is one depth entry: the absolute quantity resting at a price.
type Level struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}
