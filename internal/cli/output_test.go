package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
)

func init() {
	color.NoColor = true
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.34", "+$12.34"},
		{"-12.34", "-$12.34"},
		{"0", "+$0.00"},
		{"1234.5", "+$1234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"999.99", "$999.99"},
		{"1000", "$1,000.00"},
		{"1234.56", "$1,234.56"},
		{"-1234.56", "-$1,234.56"},
		{"1234567.891", "$1,234,567.89"},
		{"-50", "-$50.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintHeader(&buf, "jan.csv", true)
	assert.Equal(t, "ynab-reconcile: jan.csv (DRY-RUN mode)\n", buf.String())
}

func TestPrintPhaseResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		PrintPhaseResult(&buf, "add", reconcile.PhaseResult{Attempted: 2, Succeeded: 2})
		assert.Equal(t, "✅ Added 2 transaction(s)\n", buf.String())
	})

	t.Run("failures list errors", func(t *testing.T) {
		var buf bytes.Buffer
		PrintPhaseResult(&buf, "delete", reconcile.PhaseResult{
			Attempted: 2, Succeeded: 1, Failed: 1,
			Errors: []error{errors.New("delete t-9: not found")},
		})
		out := buf.String()
		assert.Contains(t, out, "✅ Deleted 1 transaction(s)")
		assert.Contains(t, out, "❌ Failed to delete 1 transaction(s):")
		assert.Contains(t, out, "  - delete t-9: not found")
	})

	t.Run("dry run", func(t *testing.T) {
		var buf bytes.Buffer
		PrintPhaseResult(&buf, "delete", reconcile.PhaseResult{Skipped: 3})
		assert.Contains(t, buf.String(), "would have deleted 3 transaction(s)")
	})

	t.Run("nothing attempted prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		PrintPhaseResult(&buf, "add", reconcile.PhaseResult{})
		assert.Empty(t, buf.String())
	})
}

func TestPrintRunSummary(t *testing.T) {
	t.Run("already reconciled", func(t *testing.T) {
		var buf bytes.Buffer
		PrintRunSummary(&buf, &reconcile.Result{NothingToDo: true})
		assert.Contains(t, buf.String(), "Your account is reconciled")
		assert.NotContains(t, buf.String(), "SUMMARY")
	})

	t.Run("everything declined", func(t *testing.T) {
		var buf bytes.Buffer
		PrintRunSummary(&buf, &reconcile.Result{AddsDeclined: true, DeletesDeclined: true})
		out := buf.String()
		assert.Contains(t, out, "Skipped adding transactions.")
		assert.Contains(t, out, "Skipped deleting transactions.")
		assert.Contains(t, out, "No changes made.")
	})

	t.Run("applied", func(t *testing.T) {
		var buf bytes.Buffer
		PrintRunSummary(&buf, &reconcile.Result{
			Adds:    reconcile.PhaseResult{Attempted: 1, Succeeded: 1},
			Deletes: reconcile.PhaseResult{Attempted: 1, Succeeded: 1},
		})
		out := buf.String()
		assert.Contains(t, out, "Added 1 transaction(s)")
		assert.Contains(t, out, "Deleted 1 transaction(s)")
		assert.Contains(t, out, "verify the balance")
		assert.NotContains(t, out, "No changes made.")
	})
}
