// Package transactions defines the two record shapes that get reconciled:
// rows from a bank statement export and transactions from the YNAB ledger.
//
// The shapes are deliberately separate. A statement row carries a running
// balance, a ledger transaction carries a clearing status and an ID. Code
// that only needs to compare them uses the Record interface.
package transactions

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the comparison contract shared by statement and ledger rows
type Record interface {
	GetDate() time.Time
	GetAbsAmount() decimal.Decimal
	GetMatchingKey() string
}

// ClearingStatus mirrors YNAB's cleared field
type ClearingStatus string

const (
	Uncleared  ClearingStatus = "uncleared"
	Cleared    ClearingStatus = "cleared"
	Reconciled ClearingStatus = "reconciled"
)

// ParseClearingStatus maps the wire value to a ClearingStatus.
// Unknown values are treated as uncleared.
func ParseClearingStatus(s string) ClearingStatus {
	switch ClearingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case Cleared:
		return Cleared
	case Reconciled:
		return Reconciled
	default:
		return Uncleared
	}
}

// StatementTransaction is one row of a bank statement export.
// Amount keeps the sign used by the file (positive = inflow).
// Balance is the running balance after this row.
type StatementTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        string
	Balance     decimal.Decimal
	Row         int // 1-based data row in the source file
}

func (s StatementTransaction) GetDate() time.Time            { return s.Date }
func (s StatementTransaction) GetAbsAmount() decimal.Decimal { return s.Amount.Abs() }
func (s StatementTransaction) GetMatchingKey() string        { return fmt.Sprintf("row:%d", s.Row) }

// LedgerTransaction is a YNAB transaction with amounts already converted
// from milliunits to currency units.
type LedgerTransaction struct {
	Date    time.Time
	Payee   string
	Amount  decimal.Decimal
	Memo    string
	Cleared ClearingStatus
	ID      string
}

func (l LedgerTransaction) GetDate() time.Time            { return l.Date }
func (l LedgerTransaction) GetAbsAmount() decimal.Decimal { return l.Amount.Abs() }
func (l LedgerTransaction) GetMatchingKey() string        { return l.ID }

// IsReconciled reports whether the transaction was settled against a past statement
func (l LedgerTransaction) IsReconciled() bool {
	return l.Cleared == Reconciled
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute number of calendar days between a and b
func DaysBetween(a, b time.Time) int {
	diff := DateOnly(a).Sub(DateOnly(b))
	days := int(diff.Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
