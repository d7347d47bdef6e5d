package ynab

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a YNAB budget (plan) summary
type Budget struct {
	ID   string
	Name string
}

// Account is a YNAB account with balances converted to currency units
type Account struct {
	ID               string
	Name             string
	Type             string
	Closed           bool
	Balance          decimal.Decimal // Working balance
	ClearedBalance   decimal.Decimal
	UnclearedBalance decimal.Decimal
}

// NewTransaction is the payload for creating a ledger transaction
type NewTransaction struct {
	AccountID string
	Date      time.Time
	Amount    decimal.Decimal
	PayeeName string
	Memo      string
	Cleared   string
	Approved  bool
}

// Wire shapes. Amounts are milliunits.

type budgetsEnvelope struct {
	Data struct {
		Budgets []budgetDTO `json:"budgets"`
	} `json:"data"`
}

type budgetDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type accountsEnvelope struct {
	Data struct {
		Accounts []accountDTO `json:"accounts"`
	} `json:"data"`
}

type accountEnvelope struct {
	Data struct {
		Account accountDTO `json:"account"`
	} `json:"data"`
}

type accountDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Closed           bool   `json:"closed"`
	Deleted          bool   `json:"deleted"`
	Balance          int64  `json:"balance"`
	ClearedBalance   int64  `json:"cleared_balance"`
	UnclearedBalance int64  `json:"uncleared_balance"`
}

func (a accountDTO) toAccount() Account {
	return Account{
		ID:               a.ID,
		Name:             a.Name,
		Type:             a.Type,
		Closed:           a.Closed,
		Balance:          FromMilliunits(a.Balance),
		ClearedBalance:   FromMilliunits(a.ClearedBalance),
		UnclearedBalance: FromMilliunits(a.UnclearedBalance),
	}
}

type transactionsEnvelope struct {
	Data struct {
		Transactions []transactionDTO `json:"transactions"`
	} `json:"data"`
}

type transactionDTO struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Amount    int64   `json:"amount"`
	Memo      *string `json:"memo"`
	Cleared   string  `json:"cleared"`
	Approved  bool    `json:"approved"`
	PayeeName *string `json:"payee_name"`
	Deleted   bool    `json:"deleted"`
}

type saveTransactionRequest struct {
	Transaction saveTransactionDTO `json:"transaction"`
}

type saveTransactionDTO struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	Amount    int64  `json:"amount"`
	PayeeName string `json:"payee_name,omitempty"`
	Memo      string `json:"memo,omitempty"`
	Cleared   string `json:"cleared,omitempty"`
	Approved  bool   `json:"approved"`
}

type saveTransactionEnvelope struct {
	Data struct {
		TransactionIDs []string       `json:"transaction_ids"`
		Transaction    transactionDTO `json:"transaction"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}
