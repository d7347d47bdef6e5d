// Package matcher correlates bank statement rows with YNAB ledger
// transactions.
//
// A statement row matches a ledger transaction when:
//   - the calendar dates are at most DateTolerance days apart (either direction)
//   - the absolute amounts differ by at most AmountTolerance
//   - the ledger transaction has not already been claimed
//
// Signs are ignored because banks and YNAB do not agree on them. Each ledger
// transaction can be claimed by at most one statement row.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	result := m.Compare(statementRows, ledgerTxns)
//	for _, row := range result.UnmatchedStatement {
//		// missing from YNAB
//	}
package matcher

import (
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// Matcher matches statement rows with ledger transactions
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	if config.Strategy == "" {
		config.Strategy = StrategyFirstFit
	}
	return &Matcher{
		config: config,
	}
}

// Config returns the matcher's configuration
func (m *Matcher) Config() Config {
	return m.config
}

// FindMatch finds a ledger transaction for row among the unclaimed ones.
// Returns nil if none satisfies both tolerances.
func (m *Matcher) FindMatch(
	row transactions.StatementTransaction,
	ledger []transactions.LedgerTransaction,
	claimed map[string]bool,
) *Match {
	var best *Match

	rowAmount := row.GetAbsAmount()

	for _, tx := range ledger {
		if claimed[tx.ID] {
			continue
		}

		dateDiff := transactions.DaysBetween(row.Date, tx.Date)
		if dateDiff > m.config.DateTolerance {
			continue
		}

		amountDiff := rowAmount.Sub(tx.GetAbsAmount()).Abs()
		if amountDiff.GreaterThan(m.config.AmountTolerance) {
			continue
		}

		candidate := &Match{
			Statement:  row,
			Ledger:     tx,
			DateDiff:   dateDiff,
			AmountDiff: amountDiff,
		}

		if m.config.Strategy == StrategyFirstFit {
			return candidate
		}

		// Closest date: strictly smaller diff replaces, so ties keep the earlier one
		if best == nil || dateDiff < best.DateDiff {
			best = candidate
		}
	}

	return best
}

// Compare walks the statement in order, claiming at most one ledger
// transaction per row. Ledger transactions never claimed are returned as
// unmatched in their input order.
//
// Reconciled ledger transactions should be removed with ExcludeReconciled
// before calling Compare.
func (m *Matcher) Compare(
	statement []transactions.StatementTransaction,
	ledger []transactions.LedgerTransaction,
) *Result {
	result := &Result{
		Matches:            make([]Match, 0, len(statement)),
		UnmatchedStatement: make([]transactions.StatementTransaction, 0),
		UnmatchedLedger:    make([]transactions.LedgerTransaction, 0),
	}

	claimed := make(map[string]bool, len(ledger))

	for _, row := range statement {
		match := m.FindMatch(row, ledger, claimed)
		if match == nil {
			result.UnmatchedStatement = append(result.UnmatchedStatement, row)
			continue
		}
		claimed[match.Ledger.ID] = true
		result.Matches = append(result.Matches, *match)
	}

	for _, tx := range ledger {
		if !claimed[tx.ID] {
			result.UnmatchedLedger = append(result.UnmatchedLedger, tx)
		}
	}

	return result
}

// ExcludeReconciled drops ledger transactions already reconciled against a
// past statement. They are settled and never compared again.
func ExcludeReconciled(ledger []transactions.LedgerTransaction) ([]transactions.LedgerTransaction, int) {
	kept := make([]transactions.LedgerTransaction, 0, len(ledger))
	for _, tx := range ledger {
		if tx.IsReconciled() {
			continue
		}
		kept = append(kept, tx)
	}
	return kept, len(ledger) - len(kept)
}
