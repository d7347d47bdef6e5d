package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// Strategy selects how a candidate is chosen when several qualify
type Strategy string

const (
	// StrategyFirstFit accepts the first unclaimed ledger transaction in
	// slice order that satisfies both tolerances
	StrategyFirstFit Strategy = "first_fit"

	// StrategyClosestDate picks the qualifying candidate with the smallest
	// date difference; ties go to the earliest in slice order
	StrategyClosestDate Strategy = "closest"
)

// ParseStrategy accepts the config/flag spellings of a strategy
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "first_fit", "first-fit", "firstfit":
		return StrategyFirstFit, nil
	case "closest", "closest_date", "closest-date":
		return StrategyClosestDate, nil
	default:
		return "", fmt.Errorf("unknown match strategy %q (want first_fit or closest)", s)
	}
}

// Config holds matcher configuration
type Config struct {
	DateTolerance   int             // Days, inclusive, either direction
	AmountTolerance decimal.Decimal // Compared on absolute amounts
	Strategy        Strategy
}

// DefaultConfig returns the comparison defaults: 2 days, 1 cent, first-fit
func DefaultConfig() Config {
	return Config{
		DateTolerance:   2,
		AmountTolerance: decimal.New(1, -2),
		Strategy:        StrategyFirstFit,
	}
}

// Match pairs a statement row with the ledger transaction that claimed it
type Match struct {
	Statement  transactions.StatementTransaction
	Ledger     transactions.LedgerTransaction
	DateDiff   int             // Calendar days between the two
	AmountDiff decimal.Decimal // Difference of absolute amounts
}

// Result partitions both inputs. Every statement row ends up in exactly one
// of Matches or UnmatchedStatement; every ledger transaction in at most one
// of Matches or UnmatchedLedger.
type Result struct {
	Matches            []Match
	UnmatchedStatement []transactions.StatementTransaction
	UnmatchedLedger    []transactions.LedgerTransaction
}

// MatchedLedgerIDs returns the IDs claimed by a statement row, in match order
func (r *Result) MatchedLedgerIDs() []string {
	ids := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		ids = append(ids, m.Ledger.ID)
	}
	return ids
}
