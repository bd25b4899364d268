package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

func FetchItems(ctx context.Context, db sqlx.ExtContext, userID string) ([]Item, error) {
	in := struct {
		UserID string `db:"user_id"`
	}{
		UserID: userID,
	}

	const q = `
	SELECT
		i.user_id, i.course_id, c.title, c.price, i.created_at
	FROM
		cart_items i
	JOIN
		courses c ON c.course_id = i.course_id
	WHERE
		i.user_id = :user_id
	ORDER BY
		i.created_at`

	var items []Item
	if err := database.NamedQuerySlice(ctx, db, q, in, &items); err != nil {
		return nil, fmt.Errorf("selecting cart items of user[%s]: %w", userID, err)
	}

	return items, nil
}

// CreateItem adds a course to the cart; adding it twice is not an error.
func CreateItem(ctx context.Context, db sqlx.ExtContext, userID, courseID string, now time.Time) error {
	in := struct {
		UserID    string    `db:"user_id"`
		CourseID  string    `db:"course_id"`
		CreatedAt time.Time `db:"created_at"`
	}{
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: now,
	}

	const q = `
	INSERT INTO cart_items
		(user_id, course_id, created_at)
	VALUES
		(:user_id, :course_id, :created_at)`

	if _, err := database.NamedExecContext(ctx, db, q, in); err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return nil
		}
		return fmt.Errorf("inserting cart item: %w", err)
	}

	return nil
}

func DeleteItem(ctx context.Context, db sqlx.ExtContext, userID, courseID string) error {
	in := struct {
		UserID   string `db:"user_id"`
		CourseID string `db:"course_id"`
	}{
		UserID:   userID,
		CourseID: courseID,
	}

	const q = `
	DELETE FROM
		cart_items
	WHERE
		user_id = :user_id AND course_id = :course_id`

	if _, err := database.NamedExecContext(ctx, db, q, in); err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}

	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, userID string) error {
	in := struct {
		UserID string `db:"user_id"`
	}{
		UserID: userID,
	}

	const q = `
	DELETE FROM
		cart_items
	WHERE
		user_id = :user_id`

	if _, err := database.NamedExecContext(ctx, db, q, in); err != nil {
		return fmt.Errorf("deleting cart of user[%s]: %w", userID, err)
	}

	return nil
}
