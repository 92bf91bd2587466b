package server

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"50", "$50.00"},
		{"612.09", "$612.09"},
		{"9500", "$9,500.00"},
		{"10000", "$10,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-9740", "-$9,740.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, usd(decimal.RequireFromString(tc.in)), tc.in)
	}
}
