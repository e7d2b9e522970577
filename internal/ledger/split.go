package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EqualSplit returns each member's share of a total split evenly across
// memberCount members, rounded to 2 decimal places. There is no remainder
// redistribution: shares may differ from the exact quotient by rounding only.
func EqualSplit(total decimal.Decimal, memberCount int) (decimal.Decimal, error) {
	if memberCount <= 0 {
		return decimal.Zero, ErrNoMembers
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: total amount must be greater than 0", ErrValidation)
	}
	return total.Div(decimal.NewFromInt(int64(memberCount))).Round(2), nil
}
