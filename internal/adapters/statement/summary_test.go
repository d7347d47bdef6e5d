package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRangeAndLatest(t *testing.T) {
	txns := []transactions.StatementTransaction{
		{Date: day(5), Balance: dec("900"), Row: 1},
		{Date: day(9), Balance: dec("1000"), Row: 2},
		{Date: day(2), Balance: dec("800"), Row: 3},
		{Date: day(9), Balance: dec("1100"), Row: 4},
	}

	earliest, latest, ok := DateRange(txns)
	require.True(t, ok)
	assert.Equal(t, day(2), earliest)
	assert.Equal(t, day(9), latest)

	// Ties resolve to the first row in file order
	last, ok := Latest(txns)
	require.True(t, ok)
	assert.Equal(t, 2, last.Row)
	assert.True(t, dec("1000").Equal(last.Balance))
}

func TestDateRange_Empty(t *testing.T) {
	_, _, ok := DateRange(nil)
	assert.False(t, ok)

	_, ok = Latest(nil)
	assert.False(t, ok)
}

func TestTotalAndBetween(t *testing.T) {
	txns := []transactions.StatementTransaction{
		{Date: day(1), Amount: dec("-10.25")},
		{Date: day(3), Amount: dec("100")},
		{Date: day(6), Amount: dec("-0.75")},
	}

	assert.True(t, dec("89").Equal(Total(txns)))

	assert.Len(t, Between(txns, day(2), time.Time{}), 2)
	assert.Len(t, Between(txns, time.Time{}, day(3)), 2)
	assert.Len(t, Between(txns, day(3), day(3)), 1)
	assert.Len(t, Between(txns, time.Time{}, time.Time{}), 3)
}
