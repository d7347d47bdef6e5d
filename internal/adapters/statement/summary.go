package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// DateRange returns the earliest and latest dates in txns
func DateRange(txns []transactions.StatementTransaction) (earliest, latest time.Time, ok bool) {
	if len(txns) == 0 {
		return time.Time{}, time.Time{}, false
	}
	earliest, latest = txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(earliest) {
			earliest = t.Date
		}
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return earliest, latest, true
}

// Latest returns the first row (in file order) bearing the latest date.
// Its running balance is the statement's current balance.
func Latest(txns []transactions.StatementTransaction) (transactions.StatementTransaction, bool) {
	if len(txns) == 0 {
		return transactions.StatementTransaction{}, false
	}
	latest := txns[0]
	for _, t := range txns[1:] {
		if t.Date.After(latest.Date) {
			latest = t
		}
	}
	return latest, true
}

// Total sums the signed amounts of txns
func Total(txns []transactions.StatementTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// Between keeps transactions dated within [from, to]. A zero bound is open.
func Between(txns []transactions.StatementTransaction, from, to time.Time) []transactions.StatementTransaction {
	out := make([]transactions.StatementTransaction, 0, len(txns))
	for _, t := range txns {
		if !from.IsZero() && t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}
