package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

func Exists(ctx context.Context, db sqlx.ExtContext, userID, courseID string) (bool, error) {
	if _, err := Fetch(ctx, db, userID, courseID); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts e. A second entitlement for the same user and course fails
// with database.ErrDBDuplicatedEntry.
func Create(ctx context.Context, db sqlx.ExtContext, e Entitlement) error {
	e.Progress = ClampProgress(e.Progress)

	const q = `
	INSERT INTO purchased_courses
		(purchase_id, user_id, course_id, payment_id, progress, purchased_at, updated_at)
	VALUES
		(:purchase_id, :user_id, :course_id, :payment_id, :progress, :purchased_at, :updated_at)`

	if _, err := database.NamedExecContext(ctx, db, q, e); err != nil {
		return fmt.Errorf("inserting entitlement: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, userID, courseID string) (Entitlement, error) {
	in := struct {
		UserID   string `db:"user_id"`
		CourseID string `db:"course_id"`
	}{
		UserID:   userID,
		CourseID: courseID,
	}

	const q = `
	SELECT
		purchase_id, user_id, course_id, payment_id, progress, purchased_at, updated_at
	FROM
		purchased_courses
	WHERE
		user_id = :user_id AND course_id = :course_id`

	var e Entitlement
	if err := database.NamedQueryStruct(ctx, db, q, in, &e); err != nil {
		return Entitlement{}, fmt.Errorf("selecting entitlement user[%s] course[%s]: %w", userID, courseID, err)
	}

	return e, nil
}

func ListOwned(ctx context.Context, db sqlx.ExtContext, userID string) ([]Owned, error) {
	in := struct {
		UserID string `db:"user_id"`
	}{
		UserID: userID,
	}

	const q = `
	SELECT
		p.purchase_id, p.user_id, p.course_id, p.payment_id, p.progress, p.purchased_at, p.updated_at,
		c.title, c.image_url
	FROM
		purchased_courses p
	JOIN
		courses c ON c.course_id = p.course_id
	WHERE
		p.user_id = :user_id
	ORDER BY
		p.purchased_at DESC, p.purchase_id`

	var out []Owned
	if err := database.NamedQuerySlice(ctx, db, q, in, &out); err != nil {
		return nil, fmt.Errorf("selecting owned courses of user[%s]: %w", userID, err)
	}

	return out, nil
}

// UpdateProgress stores pct clamped to [0,100] and returns the stored value.
func UpdateProgress(ctx context.Context, db sqlx.ExtContext, userID, courseID string, pct int, now time.Time) (int, error) {
	in := struct {
		UserID    string    `db:"user_id"`
		CourseID  string    `db:"course_id"`
		Progress  int       `db:"progress"`
		UpdatedAt time.Time `db:"updated_at"`
	}{
		UserID:    userID,
		CourseID:  courseID,
		Progress:  ClampProgress(pct),
		UpdatedAt: now,
	}

	const q = `
	UPDATE purchased_courses SET
		progress = :progress,
		updated_at = :updated_at
	WHERE
		user_id = :user_id AND course_id = :course_id`

	res, err := database.NamedExecContext(ctx, db, q, in)
	if err != nil {
		return 0, fmt.Errorf("updating progress: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("updating progress user[%s] course[%s]: %w", userID, courseID, database.ErrDBNotFound)
	}

	return in.Progress, nil
}
