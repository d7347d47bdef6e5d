package ynab

import "github.com/shopspring/decimal"

// FromMilliunits converts a YNAB milliunit amount to currency units
func FromMilliunits(m int64) decimal.Decimal {
	return decimal.New(m, -3)
}

// ToMilliunits converts currency units to milliunits. Digits beyond the
// third decimal place are truncated toward zero, never rounded.
func ToMilliunits(amount decimal.Decimal) int64 {
	return amount.Shift(3).IntPart()
}
