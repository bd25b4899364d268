package gateway

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-market/random"
	"github.com/shopspring/decimal"
)

// SimulatedCards stands in for a card network. It performs no authorization
// and accepts every charge; callers validate the card details beforehand.
type SimulatedCards struct{}

func (SimulatedCards) Charge(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := random.TransactionID(CardTransactionPrefix)
	if err != nil {
		return "", fmt.Errorf("generating transaction id for %s %s: %w", amount.StringFixed(2), currency, err)
	}

	return id, nil
}
