// Package cli renders reconciliation reports to the console and reads
// confirmations from the user.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
)

const ruleWidth = 80

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Rule prints a full-width separator
func Rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

// Section prints a title between two rules, preceded by a blank line
func Section(w io.Writer, title string) {
	fmt.Fprintln(w)
	Rule(w)
	fmt.Fprintln(w, bold(title))
	Rule(w)
}

// FormatAmount renders a signed amount as +$12.34 or -$12.34
func FormatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}

// FormatMoney renders an amount with thousands separators: $1,234.56 or -$1,234.56
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// PrintHeader prints the application header
func PrintHeader(w io.Writer, statementPath string, dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Fprintf(w, "ynab-reconcile: %s (%s mode)\n", statementPath, mode)
}

// PrintPlanSummary prints what was loaded before the balance block
func PrintPlanSummary(w io.Writer, plan *reconcile.Plan) {
	d := plan.Decision
	fmt.Fprintf(w, "✅ Parsed %d statement transactions\n", len(plan.Statement))
	fmt.Fprintf(w, "📅 Date range: %s to %s\n", d.EarliestDate.Format("2006-01-02"), d.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "💰 Most recent balance (as of %s): %s\n", d.AsOf.Format("2006-01-02"), FormatMoney(d.StatementBalance))
	fmt.Fprintf(w, "\nFound %d YNAB transactions total\n", plan.LedgerFetched)
	fmt.Fprintf(w, "  • %d unreconciled (will compare)\n", len(plan.Ledger))
	fmt.Fprintf(w, "  • %d already reconciled (will ignore)\n", plan.ReconciledExcluded)
}

// PrintPhaseResult prints the outcome of one mutation phase. verb is the
// bare form ("add", "delete").
func PrintPhaseResult(w io.Writer, verb string, r reconcile.PhaseResult) {
	past := strings.TrimSuffix(verb, "e") + "ed"
	switch {
	case r.Skipped > 0:
		fmt.Fprintf(w, "⏭️  Dry run: would have %s %d transaction(s)\n", past, r.Skipped)
	case r.Attempted > 0:
		fmt.Fprintf(w, "%s %s %d transaction(s)\n", green("✅"), strings.ToUpper(past[:1])+past[1:], r.Succeeded)
	}
	if r.Failed > 0 {
		fmt.Fprintf(w, "%s Failed to %s %d transaction(s):\n", red("❌"), verb, r.Failed)
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  - %v\n", err)
		}
	}
}

// PrintRunSummary prints the result of applying a plan
func PrintRunSummary(w io.Writer, result *reconcile.Result) {
	if result.NothingToDo {
		fmt.Fprintln(w, green("\n✅ Perfect! Your account is reconciled."))
		return
	}

	Section(w, "SUMMARY")
	if result.AddsDeclined {
		fmt.Fprintln(w, "⏭️  Skipped adding transactions.")
	}
	if result.DeletesDeclined {
		fmt.Fprintln(w, "⏭️  Skipped deleting transactions.")
	}
	PrintPhaseResult(w, "add", result.Adds)
	PrintPhaseResult(w, "delete", result.Deletes)

	changed := result.Adds.Succeeded + result.Deletes.Succeeded
	if changed == 0 && result.Adds.Skipped+result.Deletes.Skipped == 0 {
		fmt.Fprintln(w, "\n❌ No changes made.")
		return
	}
	if changed > 0 {
		fmt.Fprintln(w, "\n🎉 Run the comparison again to verify the balance matches!")
	}
}
