// Package reconciler turns a match result and the ledger's balances into a
// reconciliation decision: how far the cleared balance is from the bank's
// balance and which transactions explain the gap.
package reconciler

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// ErrEmptyStatement is returned when there is no statement row to take a balance from
var ErrEmptyStatement = errors.New("statement has no transactions")

// BalancedThreshold is the absolute difference below which two balances are equal
var BalancedThreshold = decimal.New(1, -2)

// Status classifies the difference between ledger and bank
type Status string

const (
	StatusBalanced     Status = "balanced"
	StatusLedgerHigher Status = "ledger_higher"
	StatusLedgerLower  Status = "ledger_lower"
)

// Balances are the ledger account balances as reported by YNAB
type Balances struct {
	Cleared   decimal.Decimal
	Working   decimal.Decimal
	Uncleared decimal.Decimal
}

// Decision is the outcome of comparing one statement with one ledger account
type Decision struct {
	StatementBalance decimal.Decimal
	ClearedBalance   decimal.Decimal
	WorkingBalance   decimal.Decimal
	UnclearedBalance decimal.Decimal
	Difference       decimal.Decimal // Cleared minus statement
	Status           Status
	AsOf             time.Time // Latest statement date
	EarliestDate     time.Time

	ToAdd         []transactions.StatementTransaction
	ToInvestigate []transactions.LedgerTransaction
}

// IsBalanced reports whether the ledger already agrees with the bank
func (d *Decision) IsBalanced() bool {
	return d.Status == StatusBalanced
}

// HasActions reports whether there is anything to add or investigate
func (d *Decision) HasActions() bool {
	return len(d.ToAdd) > 0 || len(d.ToInvestigate) > 0
}

// CurrentBalance returns the running balance of the row with the latest
// date. When several rows share that date the first in file order wins.
func CurrentBalance(statement []transactions.StatementTransaction) (decimal.Decimal, time.Time, bool) {
	if len(statement) == 0 {
		return decimal.Zero, time.Time{}, false
	}
	latest := statement[0]
	for _, row := range statement[1:] {
		if row.Date.After(latest.Date) {
			latest = row
		}
	}
	return latest.Balance, latest.Date, true
}

// Classify maps a ledger-minus-bank difference to a Status
func Classify(diff decimal.Decimal) Status {
	switch {
	case diff.Abs().LessThan(BalancedThreshold):
		return StatusBalanced
	case diff.IsPositive():
		return StatusLedgerHigher
	default:
		return StatusLedgerLower
	}
}

// FilterInvestigate keeps unmatched ledger transactions dated on or before
// latest. Anything newer cannot be on this statement yet.
func FilterInvestigate(unmatched []transactions.LedgerTransaction, latest time.Time) []transactions.LedgerTransaction {
	cutoff := transactions.DateOnly(latest)
	out := make([]transactions.LedgerTransaction, 0, len(unmatched))
	for _, tx := range unmatched {
		if transactions.DateOnly(tx.Date).After(cutoff) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Decide computes the reconciliation decision. The evidence lists are
// always populated, whatever the classification.
func Decide(statement []transactions.StatementTransaction, balances Balances, result *matcher.Result) (*Decision, error) {
	current, asOf, ok := CurrentBalance(statement)
	if !ok {
		return nil, ErrEmptyStatement
	}

	earliest := statement[0].Date
	for _, row := range statement[1:] {
		if row.Date.Before(earliest) {
			earliest = row.Date
		}
	}

	diff := balances.Cleared.Sub(current)

	d := &Decision{
		StatementBalance: current,
		ClearedBalance:   balances.Cleared,
		WorkingBalance:   balances.Working,
		UnclearedBalance: balances.Uncleared,
		Difference:       diff,
		Status:           Classify(diff),
		AsOf:             asOf,
		EarliestDate:     earliest,
		ToAdd:            []transactions.StatementTransaction{},
		ToInvestigate:    []transactions.LedgerTransaction{},
	}

	if result == nil {
		return d, nil
	}

	d.ToAdd = append(d.ToAdd, result.UnmatchedStatement...)
	sort.SliceStable(d.ToAdd, func(i, j int) bool {
		return d.ToAdd[i].Date.Before(d.ToAdd[j].Date)
	})

	d.ToInvestigate = FilterInvestigate(result.UnmatchedLedger, asOf)
	sort.SliceStable(d.ToInvestigate, func(i, j int) bool {
		return d.ToInvestigate[i].Date.Before(d.ToInvestigate[j].Date)
	})

	return d, nil
}

// Causes lists the usual explanations for a difference in the given direction
func Causes(status Status) []string {
	switch status {
	case StatusLedgerHigher:
		return []string{
			"Transactions in the bank statement that aren't in YNAB (need to add)",
			"Duplicate transactions in YNAB (need to remove)",
			"Amounts entered incorrectly in YNAB",
		}
	case StatusLedgerLower:
		return []string{
			"Transactions in YNAB that haven't cleared the bank yet",
			"Missing inflows in YNAB that are in the bank statement",
			"Amounts entered incorrectly",
		}
	default:
		return nil
	}
}
