package ynab

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMilliunits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"12.345", 12345},
		{"12.3456", 12345},
		{"12.3459", 12345},
		{"-42.50", -42500},
		{"-0.0009", 0},
		{"0", 0},
		{"1000", 1000000},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMilliunits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFromMilliunits(t *testing.T) {
	assert.True(t, decimal.RequireFromString("-42.5").Equal(FromMilliunits(-42500)))
	assert.True(t, decimal.RequireFromString("0.001").Equal(FromMilliunits(1)))
	assert.True(t, FromMilliunits(0).IsZero())
}
