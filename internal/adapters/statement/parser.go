// Package statement parses bank statement CSV exports into
// transactions.StatementTransaction values.
//
// Export variants disagree on column names, so the date column is looked up
// through a list of aliases. Rows without a usable date are skipped. Money
// columns may carry "$" and thousands separators; a value that still fails
// to parse becomes zero instead of dropping the row.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// DateColumns are tried in order; the first non-empty cell wins
var DateColumns = []string{"Transaction Date", "Posting Date", "Date"}

// DateLayouts are tried in order
var DateLayouts = []string{"01/02/2006", "2006-01-02"}

const (
	columnDescription = "Description"
	columnAmount      = "Amount"
	columnType        = "Type"
	columnBalance     = "Balance"
)

// ErrNoHeader is returned when the input has no header row
var ErrNoHeader = errors.New("statement has no header row")

// Parser reads statement exports
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger discards debug output.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{logger: logger.With("system", "statement")}
}

// ParseFile opens path and parses it
func (p *Parser) ParseFile(path string) ([]transactions.StatementTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return txns, nil
}

// Parse reads a CSV with a header row. Output keeps file order.
func (p *Parser) Parse(r io.Reader) ([]transactions.StatementTransaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports sometimes have trailing commas
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var txns []transactions.StatementTransaction
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}
		row++

		cell := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		dateStr := ""
		for _, column := range DateColumns {
			if v := cell(column); v != "" {
				dateStr = v
				break
			}
		}
		if dateStr == "" {
			p.logger.Debug("Skipping row without date", "row", row)
			continue
		}

		date, ok := ParseDate(dateStr)
		if !ok {
			p.logger.Debug("Skipping row with unparseable date", "row", row, "date", dateStr)
			continue
		}

		txns = append(txns, transactions.StatementTransaction{
			Date:        date,
			Description: cell(columnDescription),
			Amount:      ParseAmount(cell(columnAmount)),
			Type:        cell(columnType),
			Balance:     ParseAmount(cell(columnBalance)),
			Row:         row,
		})
	}

	p.logger.Debug("Parsed statement", "rows", row, "transactions", len(txns))
	return txns, nil
}

// ParseDate tries each of DateLayouts and returns the date at midnight UTC
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount strips currency symbols and thousands separators.
// Anything unparseable is zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
