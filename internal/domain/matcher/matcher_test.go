package matcher

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Helper to create a statement row
func makeRow(row int, date string, amount string, desc string) transactions.StatementTransaction {
	return transactions.StatementTransaction{
		Date:        day(date),
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Row:         row,
	}
}

// Helper to create a ledger transaction
func makeTransaction(id string, date string, amount string) transactions.LedgerTransaction {
	return transactions.LedgerTransaction{
		ID:      id,
		Date:    day(date),
		Amount:  decimal.RequireFromString(amount),
		Cleared: transactions.Cleared,
	}
}

func TestMatcher_SignsIgnored(t *testing.T) {
	// Arrange: bank debit, YNAB outflow stored as -42500 milliunits
	m := NewMatcher(DefaultConfig())
	statement := []transactions.StatementTransaction{
		makeRow(1, "2024-01-05", "-42.50", "Coffee Shop"),
	}
	ledger := []transactions.LedgerTransaction{
		makeTransaction("tx1", "2024-01-06", "-42.50"),
	}

	// Act
	result := m.Compare(statement, ledger)

	// Assert
	require.Len(t, result.Matches, 1)
	assert.Empty(t, result.UnmatchedStatement)
	assert.Empty(t, result.UnmatchedLedger)
	assert.Equal(t, 1, result.Matches[0].DateDiff)
	assert.True(t, result.Matches[0].AmountDiff.IsZero())
}

func TestMatcher_OppositeSignsMatch(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	match := m.FindMatch(
		makeRow(1, "2024-01-05", "-42.50", "Coffee Shop"),
		[]transactions.LedgerTransaction{makeTransaction("tx1", "2024-01-05", "42.50")},
		map[string]bool{},
	)

	require.NotNil(t, match)
	assert.Equal(t, "tx1", match.Ledger.ID)
}

func TestMatcher_DateToleranceBoundary(t *testing.T) {
	m := NewMatcher(Config{DateTolerance: 2, AmountTolerance: decimal.New(1, -2)})
	row := makeRow(1, "2024-01-10", "-10.00", "x")

	tests := []struct {
		name    string
		date    string
		matches bool
	}{
		{"same day", "2024-01-10", true},
		{"N days after", "2024-01-12", true},
		{"N days before", "2024-01-08", true},
		{"N+1 days after", "2024-01-13", false},
		{"N+1 days before", "2024-01-07", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := []transactions.LedgerTransaction{makeTransaction("tx1", tt.date, "-10.00")}
			match := m.FindMatch(row, ledger, map[string]bool{})
			assert.Equal(t, tt.matches, match != nil)
		})
	}
}

func TestMatcher_AmountToleranceBoundary(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	row := makeRow(1, "2024-01-10", "-10.00", "x")

	tests := []struct {
		name    string
		amount  string
		matches bool
	}{
		{"exact", "-10.00", true},
		{"diff equal to tolerance", "-10.01", true},
		{"diff equal to tolerance below", "-9.99", true},
		{"diff above tolerance", "-10.02", false},
		{"sub-cent above tolerance", "-10.011", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := []transactions.LedgerTransaction{makeTransaction("tx1", "2024-01-10", tt.amount)}
			match := m.FindMatch(row, ledger, map[string]bool{})
			assert.Equal(t, tt.matches, match != nil)
		})
	}
}

func TestMatcher_DuplicateStatementRowsFirstFit(t *testing.T) {
	// Arrange: two identical charges on the statement, one in YNAB
	m := NewMatcher(DefaultConfig())
	statement := []transactions.StatementTransaction{
		makeRow(1, "2024-02-01", "-20.00", "Parking"),
		makeRow(2, "2024-02-01", "-20.00", "Parking"),
	}
	ledger := []transactions.LedgerTransaction{
		makeTransaction("tx1", "2024-02-01", "-20.00"),
	}

	// Act
	result := m.Compare(statement, ledger)

	// Assert: first row in file order wins, second stays unmatched
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 1, result.Matches[0].Statement.Row)
	require.Len(t, result.UnmatchedStatement, 1)
	assert.Equal(t, 2, result.UnmatchedStatement[0].Row)
	assert.Empty(t, result.UnmatchedLedger)
}

func TestMatcher_FirstFitIgnoresCloserCandidate(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	row := makeRow(1, "2024-03-10", "-5.00", "x")
	ledger := []transactions.LedgerTransaction{
		makeTransaction("far", "2024-03-08", "-5.00"),
		makeTransaction("near", "2024-03-10", "-5.00"),
	}

	match := m.FindMatch(row, ledger, map[string]bool{})

	require.NotNil(t, match)
	assert.Equal(t, "far", match.Ledger.ID)
}

func TestMatcher_ClosestDateStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyClosestDate
	m := NewMatcher(cfg)
	row := makeRow(1, "2024-03-10", "-5.00", "x")

	t.Run("picks smallest date diff", func(t *testing.T) {
		ledger := []transactions.LedgerTransaction{
			makeTransaction("far", "2024-03-08", "-5.00"),
			makeTransaction("near", "2024-03-10", "-5.00"),
		}
		match := m.FindMatch(row, ledger, map[string]bool{})
		require.NotNil(t, match)
		assert.Equal(t, "near", match.Ledger.ID)
	})

	t.Run("ties keep slice order", func(t *testing.T) {
		ledger := []transactions.LedgerTransaction{
			makeTransaction("before", "2024-03-09", "-5.00"),
			makeTransaction("after", "2024-03-11", "-5.00"),
		}
		match := m.FindMatch(row, ledger, map[string]bool{})
		require.NotNil(t, match)
		assert.Equal(t, "before", match.Ledger.ID)
	})

	t.Run("skips claimed", func(t *testing.T) {
		ledger := []transactions.LedgerTransaction{
			makeTransaction("near", "2024-03-10", "-5.00"),
			makeTransaction("far", "2024-03-12", "-5.00"),
		}
		match := m.FindMatch(row, ledger, map[string]bool{"near": true})
		require.NotNil(t, match)
		assert.Equal(t, "far", match.Ledger.ID)
	})
}

func TestMatcher_NoDoubleClaim(t *testing.T) {
	m := NewMatcher(Config{DateTolerance: 10, AmountTolerance: decimal.NewFromInt(100)})
	statement := []transactions.StatementTransaction{
		makeRow(1, "2024-04-01", "-10.00", "a"),
		makeRow(2, "2024-04-02", "-11.00", "b"),
		makeRow(3, "2024-04-03", "-12.00", "c"),
	}
	ledger := []transactions.LedgerTransaction{
		makeTransaction("tx1", "2024-04-01", "-10.00"),
		makeTransaction("tx2", "2024-04-02", "-11.00"),
	}

	result := m.Compare(statement, ledger)

	seen := map[string]bool{}
	for _, id := range result.MatchedLedgerIDs() {
		assert.False(t, seen[id], "ledger %s claimed twice", id)
		seen[id] = true
	}
	assert.Len(t, result.Matches, 2)
	assert.Len(t, result.UnmatchedStatement, 1)
	assert.Empty(t, result.UnmatchedLedger)
}

func TestMatcher_ConservationAndDeterminism(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	var statement []transactions.StatementTransaction
	var ledger []transactions.LedgerTransaction
	for i := 0; i < 30; i++ {
		date := day("2024-05-01").AddDate(0, 0, i%7).Format("2006-01-02")
		amount := fmt.Sprintf("-%d.%02d", 10+i%4, i%3)
		statement = append(statement, makeRow(i+1, date, amount, "row"))
		if i%3 != 0 {
			ledger = append(ledger, makeTransaction(fmt.Sprintf("tx%d", i), date, amount))
		}
	}
	ledger = append(ledger, makeTransaction("extra", "2024-06-30", "-999.00"))

	first := m.Compare(statement, ledger)
	second := m.Compare(statement, ledger)

	assert.Equal(t, first, second)
	assert.Equal(t, len(statement), len(first.Matches)+len(first.UnmatchedStatement))
	assert.Equal(t, len(ledger), len(first.Matches)+len(first.UnmatchedLedger))
	assert.Equal(t, "extra", first.UnmatchedLedger[len(first.UnmatchedLedger)-1].ID)
}

func TestMatcher_UnmatchedLedgerKeepsInputOrder(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	ledger := []transactions.LedgerTransaction{
		makeTransaction("c", "2024-01-03", "-3.00"),
		makeTransaction("a", "2024-01-01", "-1.00"),
		makeTransaction("b", "2024-01-02", "-2.00"),
	}

	result := m.Compare(nil, ledger)

	require.Len(t, result.UnmatchedLedger, 3)
	assert.Equal(t, "c", result.UnmatchedLedger[0].ID)
	assert.Equal(t, "a", result.UnmatchedLedger[1].ID)
	assert.Equal(t, "b", result.UnmatchedLedger[2].ID)
	assert.Empty(t, result.Matches)
}

func TestExcludeReconciled(t *testing.T) {
	// Arrange: reconciled row would otherwise match
	ledger := []transactions.LedgerTransaction{
		makeTransaction("tx1", "2024-01-05", "-42.50"),
		makeTransaction("tx2", "2024-01-05", "-8.00"),
	}
	ledger[0].Cleared = transactions.Reconciled

	// Act
	kept, excluded := ExcludeReconciled(ledger)
	result := NewMatcher(DefaultConfig()).Compare(
		[]transactions.StatementTransaction{makeRow(1, "2024-01-05", "-42.50", "Coffee")},
		kept,
	)

	// Assert
	assert.Equal(t, 1, excluded)
	require.Len(t, kept, 1)
	assert.Equal(t, "tx2", kept[0].ID)
	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedStatement, 1)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyFirstFit, s)

	s, err = ParseStrategy("closest")
	require.NoError(t, err)
	assert.Equal(t, StrategyClosestDate, s)

	_, err = ParseStrategy("hungarian")
	assert.Error(t, err)
}
