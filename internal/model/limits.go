package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Largest values the schema can hold: quantities and stock are INTEGER,
// money is NUMERIC(12,2).
const MaxQuantity = math.MaxInt32

var MaxAmount = decimal.RequireFromString("9999999999.99")

// AmountInRange reports whether d fits a money column once rounded to cents.
func AmountInRange(d decimal.Decimal) bool {
	r := d.Round(2)
	return !r.IsNegative() && r.LessThanOrEqual(MaxAmount)
}
