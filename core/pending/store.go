package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, o Order) error {
	const q = `
	INSERT INTO pending_orders
		(pending_order_id, user_id, course_id, provider_order_id, amount, created_at, expires_at)
	VALUES
		(:pending_order_id, :user_id, :course_id, :provider_order_id, :amount, :created_at, :expires_at)`

	if _, err := database.NamedExecContext(ctx, db, q, o); err != nil {
		return fmt.Errorf("inserting pending order: %w", err)
	}

	return nil
}

// FetchByProviderID only finds orders owned by userID, so one user can never
// resume another user's order.
func FetchByProviderID(ctx context.Context, db sqlx.ExtContext, userID, providerOrderID string) (Order, error) {
	in := struct {
		UserID          string `db:"user_id"`
		ProviderOrderID string `db:"provider_order_id"`
	}{
		UserID:          userID,
		ProviderOrderID: providerOrderID,
	}

	const q = `
	SELECT
		pending_order_id, user_id, course_id, provider_order_id, amount, created_at, expires_at
	FROM
		pending_orders
	WHERE
		user_id = :user_id AND provider_order_id = :provider_order_id`

	var o Order
	if err := database.NamedQueryStruct(ctx, db, q, in, &o); err != nil {
		return Order{}, fmt.Errorf("selecting pending order[%s]: %w", providerOrderID, err)
	}

	return o, nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	in := struct {
		ID string `db:"pending_order_id"`
	}{
		ID: id,
	}

	const q = `
	DELETE FROM
		pending_orders
	WHERE
		pending_order_id = :pending_order_id`

	if _, err := database.NamedExecContext(ctx, db, q, in); err != nil {
		return fmt.Errorf("deleting pending order[%s]: %w", id, err)
	}

	return nil
}

// DeleteExpired removes every order whose expiry is before now and returns
// how many were removed.
func DeleteExpired(ctx context.Context, db sqlx.ExtContext, now time.Time) (int64, error) {
	in := struct {
		Now time.Time `db:"now"`
	}{
		Now: now,
	}

	const q = `
	DELETE FROM
		pending_orders
	WHERE
		expires_at < :now`

	res, err := database.NamedExecContext(ctx, db, q, in)
	if err != nil {
		return 0, fmt.Errorf("deleting expired pending orders: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting expired pending orders: %w", err)
	}

	return n, nil
}
