package server

import (
	"strconv"
	"strings"

	"github.com/kelechionyeama/Finance-app/internal/finance"
)

// formSymbol normalizes a submitted ticker symbol. Normalizing case here
// keeps "aapl" and "AAPL" from splitting one position in the ledger.
func formSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// formShares parses a submitted share count. Anything that is not a
// positive base-10 integer is rejected, including zero.
func formShares(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || shares <= 0 {
		return 0, &finance.ValidationError{Field: "shares", Reason: "must be a positive whole number"}
	}
	return shares, nil
}
