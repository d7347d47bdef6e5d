package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/statement"
	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/reconciler"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

var breakdownThreshold = decimal.NewFromFloat(0.01)

// PrintPlan prints everything a user needs before confirming: inputs,
// balances and both evidence lists
func PrintPlan(w io.Writer, plan *reconcile.Plan) {
	PrintPlanSummary(w, plan)
	PrintDecision(w, plan.Decision, plan.AccountName)
	if plan.AlreadyReconciled() {
		return
	}
	PrintToAdd(w, plan.Decision.ToAdd)
	PrintToInvestigate(w, plan.Decision.ToInvestigate)
	if len(plan.Decision.ToInvestigate) > 0 {
		PrintDeleteCaution(w)
	}
}

// PrintDecision prints the balance block, the classification and the
// usual causes of a difference
func PrintDecision(w io.Writer, d *reconciler.Decision, accountName string) {
	Section(w, "🔄 RECONCILIATION")
	fmt.Fprintf(w, "\n📊 Reconciling '%s' to bank balance:\n", accountName)
	fmt.Fprintf(w, "   As of: %s\n", d.AsOf.Format("January 02, 2006"))
	fmt.Fprintf(w, "\n   Bank Balance:                %14s\n", FormatMoney(d.StatementBalance))
	fmt.Fprintf(w, "   YNAB Cleared Balance:        %14s\n", FormatMoney(d.ClearedBalance))
	fmt.Fprintf(w, "   %s\n", strings.Repeat("-", 52))
	fmt.Fprintf(w, "   Reconciliation Difference:   %14s\n", FormatMoney(d.Difference))

	switch d.Status {
	case reconciler.StatusBalanced:
		fmt.Fprintln(w, green("\n✅ The cleared balance in YNAB matches your bank balance."))
	case reconciler.StatusLedgerHigher:
		fmt.Fprintln(w, yellow(fmt.Sprintf("\n⚠️  YNAB's cleared balance is %s HIGHER than the bank", FormatMoney(d.Difference.Abs()))))
	case reconciler.StatusLedgerLower:
		fmt.Fprintln(w, yellow(fmt.Sprintf("\n⚠️  YNAB's cleared balance is %s LOWER than the bank", FormatMoney(d.Difference.Abs()))))
	}

	if causes := reconciler.Causes(d.Status); len(causes) > 0 {
		fmt.Fprintln(w, "   Possible causes:")
		for _, c := range causes {
			fmt.Fprintf(w, "   • %s\n", c)
		}
	}

	if d.UnclearedBalance.Abs().GreaterThan(breakdownThreshold) {
		fmt.Fprintln(w, "\n📝 YNAB Balance Breakdown:")
		fmt.Fprintf(w, "   • Cleared Balance:    %14s (used for reconciliation)\n", FormatMoney(d.ClearedBalance))
		fmt.Fprintf(w, "   • Uncleared Balance:  %14s (pending transactions)\n", FormatMoney(d.UnclearedBalance))
		fmt.Fprintf(w, "   • Working Balance:    %14s (total)\n", FormatMoney(d.WorkingBalance))
	}
}

// PrintToAdd lists statement rows missing from the ledger
func PrintToAdd(w io.Writer, txns []transactions.StatementTransaction) {
	if len(txns) == 0 {
		return
	}
	Section(w, fmt.Sprintf("FOUND %d TRANSACTIONS IN BANK STATEMENT BUT NOT IN YNAB", len(txns)))
	fmt.Fprintln(w, "\n📋 Evidence from the bank statement - these will be ADDED to YNAB:")
	fmt.Fprintln(w)

	for i, t := range txns {
		fmt.Fprintf(w, "%d. %s | %14s | %s\n", i+1, t.Date.Format("2006-01-02"), FormatAmount(t.Amount), t.Description)

		var notes []string
		if t.Type != "" {
			notes = append(notes, "["+t.Type+"]")
		}
		if t.Balance.IsPositive() {
			notes = append(notes, "Balance after: "+FormatMoney(t.Balance))
		}
		if len(notes) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(notes, " "))
		}
	}
}

// PrintToInvestigate lists ledger rows with no statement counterpart
func PrintToInvestigate(w io.Writer, txns []transactions.LedgerTransaction) {
	if len(txns) == 0 {
		return
	}
	Section(w, fmt.Sprintf("FOUND %d TRANSACTIONS IN YNAB BUT NOT IN BANK STATEMENT", len(txns)))
	fmt.Fprintln(w, yellow("\n⚠️  These may be duplicates, transfers, or incorrectly entered:"))
	fmt.Fprintln(w)

	for i, t := range txns {
		memo := ""
		if t.Memo != "" {
			memo = " (" + t.Memo + ")"
		}
		fmt.Fprintf(w, "%d. %s | %12s | %s%s\n", i+1, t.Date.Format("2006-01-02"), FormatAmount(t.Amount), t.Payee, memo)
	}
}

// PrintDeleteCaution follows the deletion candidates
func PrintDeleteCaution(w io.Writer) {
	fmt.Fprintln(w)
	Rule(w)
	fmt.Fprintln(w, yellow("\n⚠️  CAUTION: Only delete if you're SURE these are duplicates or errors!"))
	fmt.Fprintln(w, "Transfers between YNAB accounts won't show in bank statements.")
}

// PrintBalanceComparison compares the bank balance with the YNAB working
// balance (bank minus working). It is not the cleared-balance difference
// that PrintDecision reports.
func PrintBalanceComparison(w io.Writer, bank, working decimal.Decimal) {
	Section(w, "WORKING BALANCE COMPARISON")
	fmt.Fprintf(w, "Bank Balance:                %s\n", FormatMoney(bank))
	fmt.Fprintf(w, "YNAB Working Balance:        %s\n", FormatMoney(working))
	fmt.Fprintf(w, "Bank minus YNAB Working:     %s\n", FormatMoney(bank.Sub(working)))
	fmt.Fprintln(w, "(includes uncleared YNAB transactions; see the cleared-balance decision below)")
}

// byDate returns date-sorted copies of both unmatched lists. Rows on the
// same date keep their input order.
func byDate(result *matcher.Result) ([]transactions.StatementTransaction, []transactions.LedgerTransaction) {
	stmt := append([]transactions.StatementTransaction(nil), result.UnmatchedStatement...)
	sort.SliceStable(stmt, func(i, j int) bool { return stmt[i].Date.Before(stmt[j].Date) })

	ledger := append([]transactions.LedgerTransaction(nil), result.UnmatchedLedger...)
	sort.SliceStable(ledger, func(i, j int) bool { return ledger[i].Date.Before(ledger[j].Date) })
	return stmt, ledger
}

// PrintUnmatched prints both unmatched lists one after the other, oldest first
func PrintUnmatched(w io.Writer, result *matcher.Result) {
	if len(result.UnmatchedStatement) == 0 && len(result.UnmatchedLedger) == 0 {
		Section(w, "All transactions matched!")
		return
	}
	stmt, ledger := byDate(result)
	if n := len(stmt); n > 0 {
		Section(w, fmt.Sprintf("TRANSACTIONS IN BANK STATEMENT BUT NOT IN YNAB (%d)", n))
		for _, t := range stmt {
			fmt.Fprintf(w, "%s | %12s | %s\n", t.Date.Format("2006-01-02"), FormatAmount(t.Amount), t.Description)
		}
	}
	if n := len(ledger); n > 0 {
		Section(w, fmt.Sprintf("TRANSACTIONS IN YNAB BUT NOT IN BANK STATEMENT (%d)", n))
		for _, t := range ledger {
			memo := ""
			if t.Memo != "" {
				memo = " (" + t.Memo + ")"
			}
			fmt.Fprintf(w, "%s | %12s | %s%s\n", t.Date.Format("2006-01-02"), FormatAmount(t.Amount), t.Payee, memo)
		}
	}
}

const (
	sideWidth       = 55
	sideTextWidth   = 28
	sideRuleWidth   = 120
	sideColumnSplit = " | "
)

// PrintSideBySide prints unmatched rows in two columns, then totals
func PrintSideBySide(w io.Writer, result *matcher.Result, dateTolerance int) {
	stmt, ledger := byDate(result)
	wide := strings.Repeat("=", sideRuleWidth)

	if earliest, latest, ok := statement.DateRange(append(stmtOf(result.Matches), stmt...)); ok {
		fmt.Fprintln(w, wide)
		fmt.Fprintf(w, "RECONCILIATION COMPARISON: %s to %s\n", earliest.Format("2006-01-02"), latest.Format("2006-01-02"))
		fmt.Fprintln(w, wide)
		fmt.Fprintf(w, "Matching: YNAB date within ±%d days of the bank date\n\n", dateTolerance)
	}

	fmt.Fprintln(w, wide)
	fmt.Fprintln(w, "TRANSACTIONS THAT DON'T MATCH")
	fmt.Fprintln(w, wide)
	fmt.Fprintf(w, "%-*s%s%-*s\n", sideWidth, "IN BANK, NOT IN YNAB", sideColumnSplit, sideWidth, "IN YNAB, NOT IN BANK")
	fmt.Fprintln(w, strings.Repeat("-", sideRuleWidth))

	for i := 0; i < max(len(stmt), len(ledger)); i++ {
		left, right := "", ""
		if i < len(stmt) {
			t := stmt[i]
			left = fmt.Sprintf("%s %11s %s", t.Date.Format("2006-01-02"), FormatAmount(t.Amount), clip(t.Description, sideTextWidth))
		}
		if i < len(ledger) {
			t := ledger[i]
			right = fmt.Sprintf("%s %11s %s", t.Date.Format("2006-01-02"), FormatAmount(t.Amount), clip(t.Payee, sideTextWidth))
		}
		fmt.Fprintf(w, "%-*s%s%s\n", sideWidth, left, sideColumnSplit, right)
	}

	stmtTotal := statement.Total(stmt)
	ledgerTotal := decimal.Zero
	for _, t := range ledger {
		ledgerTotal = ledgerTotal.Add(t.Amount)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, wide)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, wide)
	fmt.Fprintf(w, "Matched: %d transactions\n", len(result.Matches))
	fmt.Fprintf(w, "In bank, not in YNAB: %d transactions (ADD to YNAB)\n", len(stmt))
	fmt.Fprintf(w, "In YNAB, not in bank: %d transactions (INVESTIGATE)\n\n", len(ledger))
	fmt.Fprintf(w, "Unmatched bank total: %s\n", FormatMoney(stmtTotal))
	fmt.Fprintf(w, "Unmatched YNAB total: %s\n", FormatMoney(ledgerTotal))
	fmt.Fprintf(w, "Net difference: %s\n", FormatMoney(stmtTotal.Sub(ledgerTotal)))
}

func stmtOf(matches []matcher.Match) []transactions.StatementTransaction {
	out := make([]transactions.StatementTransaction, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Statement)
	}
	return out
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
