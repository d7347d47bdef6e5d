package dto

import (
	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/reconciler"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

const dateLayout = "2006-01-02"

// StatementTransactionResponse is a bank row missing from the ledger.
// Amounts are decimal strings.
type StatementTransactionResponse struct {
	Row         int    `json:"row"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type,omitempty"`
	Balance     string `json:"balance"`
}

// LedgerTransactionResponse is a ledger row with no bank counterpart.
type LedgerTransactionResponse struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Payee   string `json:"payee"`
	Memo    string `json:"memo,omitempty"`
	Amount  string `json:"amount"`
	Cleared string `json:"cleared"`
}

// CompareResponse is returned by POST /api/compare.
type CompareResponse struct {
	RunID              int64                          `json:"run_id,omitempty"`
	Account            string                         `json:"account"`
	StatementCount     int                            `json:"statement_count"`
	LedgerCount        int                            `json:"ledger_count"`
	ReconciledExcluded int                            `json:"reconciled_excluded"`
	Matched            int                            `json:"matched"`
	AsOf               string                         `json:"as_of"`
	EarliestDate       string                         `json:"earliest_date"`
	StatementBalance   string                         `json:"statement_balance"`
	ClearedBalance     string                         `json:"cleared_balance"`
	WorkingBalance     string                         `json:"working_balance"`
	UnclearedBalance   string                         `json:"uncleared_balance"`
	Difference         string                         `json:"difference"`
	Status             string                         `json:"status"`
	Causes             []string                       `json:"causes,omitempty"`
	ToAdd              []StatementTransactionResponse `json:"to_add"`
	ToInvestigate      []LedgerTransactionResponse    `json:"to_investigate"`
}

// NewCompareResponse converts a prepared plan.
func NewCompareResponse(plan *reconcile.Plan) CompareResponse {
	d := plan.Decision
	resp := CompareResponse{
		RunID:              plan.RunID,
		Account:            plan.AccountName,
		StatementCount:     len(plan.Statement),
		LedgerCount:        plan.LedgerFetched,
		ReconciledExcluded: plan.ReconciledExcluded,
		Matched:            len(plan.Comparison.Matches),
		AsOf:               d.AsOf.Format(dateLayout),
		EarliestDate:       d.EarliestDate.Format(dateLayout),
		StatementBalance:   d.StatementBalance.StringFixed(2),
		ClearedBalance:     d.ClearedBalance.StringFixed(2),
		WorkingBalance:     d.WorkingBalance.StringFixed(2),
		UnclearedBalance:   d.UnclearedBalance.StringFixed(2),
		Difference:         d.Difference.StringFixed(2),
		Status:             string(d.Status),
		Causes:             reconciler.Causes(d.Status),
		ToAdd:              make([]StatementTransactionResponse, 0, len(d.ToAdd)),
		ToInvestigate:      make([]LedgerTransactionResponse, 0, len(d.ToInvestigate)),
	}
	for _, t := range d.ToAdd {
		resp.ToAdd = append(resp.ToAdd, newStatementTransactionResponse(t))
	}
	for _, t := range d.ToInvestigate {
		resp.ToInvestigate = append(resp.ToInvestigate, newLedgerTransactionResponse(t))
	}
	return resp
}

func newStatementTransactionResponse(t transactions.StatementTransaction) StatementTransactionResponse {
	return StatementTransactionResponse{
		Row:         t.Row,
		Date:        t.Date.Format(dateLayout),
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Type:        t.Type,
		Balance:     t.Balance.StringFixed(2),
	}
}

func newLedgerTransactionResponse(t transactions.LedgerTransaction) LedgerTransactionResponse {
	return LedgerTransactionResponse{
		ID:      t.ID,
		Date:    t.Date.Format(dateLayout),
		Payee:   t.Payee,
		Memo:    t.Memo,
		Amount:  t.Amount.StringFixed(2),
		Cleared: string(t.Cleared),
	}
}
