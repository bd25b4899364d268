package payment

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, p Payment) error {
	p.Amount = p.Amount.Round(2)

	const q = `
	INSERT INTO payments
		(payment_id, user_id, course_id, amount, currency, method, status, transaction_id, provider_order_id, created_at)
	VALUES
		(:payment_id, :user_id, :course_id, :amount, :currency, :method, :status, :transaction_id, :provider_order_id, :created_at)`

	if _, err := database.NamedExecContext(ctx, db, q, p); err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, paymentID string) (Payment, error) {
	in := struct {
		ID string `db:"payment_id"`
	}{
		ID: paymentID,
	}

	const q = `
	SELECT
		payment_id, user_id, course_id, amount, currency, method, status, transaction_id, provider_order_id, created_at
	FROM
		payments
	WHERE
		payment_id = :payment_id`

	var p Payment
	if err := database.NamedQueryStruct(ctx, db, q, in, &p); err != nil {
		return Payment{}, fmt.Errorf("selecting payment[%s]: %w", paymentID, err)
	}

	return p, nil
}

// FetchByProviderOrder returns the payment of userID that settled the given
// provider order.
func FetchByProviderOrder(ctx context.Context, db sqlx.ExtContext, userID, providerOrderID string) (Payment, error) {
	in := struct {
		UserID          string `db:"user_id"`
		ProviderOrderID string `db:"provider_order_id"`
	}{
		UserID:          userID,
		ProviderOrderID: providerOrderID,
	}

	const q = `
	SELECT
		payment_id, user_id, course_id, amount, currency, method, status, transaction_id, provider_order_id, created_at
	FROM
		payments
	WHERE
		user_id = :user_id AND provider_order_id = :provider_order_id`

	var p Payment
	if err := database.NamedQueryStruct(ctx, db, q, in, &p); err != nil {
		return Payment{}, fmt.Errorf("selecting payment for order[%s]: %w", providerOrderID, err)
	}

	return p, nil
}

func ListByUser(ctx context.Context, db sqlx.ExtContext, userID string) ([]Record, error) {
	in := struct {
		UserID string `db:"user_id"`
	}{
		UserID: userID,
	}

	const q = `
	SELECT
		p.payment_id, p.user_id, p.course_id, p.amount, p.currency, p.method, p.status,
		p.transaction_id, p.provider_order_id, p.created_at, c.title
	FROM
		payments p
	JOIN
		courses c ON c.course_id = p.course_id
	WHERE
		p.user_id = :user_id
	ORDER BY
		p.created_at DESC, p.payment_id`

	var out []Record
	if err := database.NamedQuerySlice(ctx, db, q, in, &out); err != nil {
		return nil, fmt.Errorf("selecting payments of user[%s]: %w", userID, err)
	}

	return out, nil
}
