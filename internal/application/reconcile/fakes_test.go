package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// fakeLedger is an in-memory Ledger
type fakeLedger struct {
	budgets      map[string]string // name -> id
	accounts     map[string]string // name -> id
	account      ynab.Account
	transactions []transactions.LedgerTransaction

	getTxErr   error
	createErrs map[string]error // payee -> error
	deleteErrs map[string]error // id -> error

	lastSince *time.Time
	created   []ynab.NewTransaction
	deleted   []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		budgets:    map[string]string{"Household": "b-1"},
		accounts:   map[string]string{"Checking": "a-1"},
		account:    ynab.Account{ID: "a-1", Name: "Checking"},
		createErrs: map[string]error{},
		deleteErrs: map[string]error{},
	}
}

func (f *fakeLedger) FindBudgetID(_ context.Context, name string) (string, error) {
	if id, ok := f.budgets[name]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ynab.ErrBudgetNotFound, name)
}

func (f *fakeLedger) FindAccountID(_ context.Context, _ string, name string) (string, error) {
	if id, ok := f.accounts[name]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ynab.ErrAccountNotFound, name)
}

func (f *fakeLedger) GetAccount(context.Context, string, string) (*ynab.Account, error) {
	a := f.account
	return &a, nil
}

func (f *fakeLedger) GetTransactions(_ context.Context, _, _ string, since *time.Time) ([]transactions.LedgerTransaction, error) {
	f.lastSince = since
	if f.getTxErr != nil {
		return nil, f.getTxErr
	}
	return append([]transactions.LedgerTransaction(nil), f.transactions...), nil
}

func (f *fakeLedger) CreateTransaction(_ context.Context, _ string, tx ynab.NewTransaction) (string, error) {
	if err := f.createErrs[tx.PayeeName]; err != nil {
		return "", err
	}
	f.created = append(f.created, tx)
	return fmt.Sprintf("new-%d", len(f.created)), nil
}

func (f *fakeLedger) DeleteTransaction(_ context.Context, _, id string) error {
	if err := f.deleteErrs[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

var errRemote = errors.New("remote failure")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stmtRow(row int, date, amount, desc, balance string) transactions.StatementTransaction {
	return transactions.StatementTransaction{
		Row:         row,
		Date:        day(date),
		Amount:      dec(amount),
		Description: desc,
		Balance:     dec(balance),
	}
}

func ledgerTx(id, date, amount, payee string, status transactions.ClearingStatus) transactions.LedgerTransaction {
	return transactions.LedgerTransaction{
		ID:      id,
		Date:    day(date),
		Amount:  dec(amount),
		Payee:   payee,
		Cleared: status,
	}
}

// recordingConfirmer answers from a queue and records the prompts
type recordingConfirmer struct {
	answers []bool
	prompts []string
	err     error
}

func (c *recordingConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return false, c.err
	}
	if len(c.answers) == 0 {
		return false, nil
	}
	a := c.answers[0]
	c.answers = c.answers[1:]
	return a, nil
}
