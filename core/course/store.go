package course

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	INSERT INTO courses
		(course_id, title, description, instructor, image_url, price, student_count, created_at, updated_at)
	VALUES
		(:course_id, :title, :description, :instructor, :image_url, :price, :student_count, :created_at, :updated_at)`

	if _, err := database.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	in := struct {
		ID string `db:"course_id"`
	}{
		ID: id,
	}

	const q = `
	SELECT
		course_id, title, description, instructor, image_url, price, student_count, created_at, updated_at
	FROM
		courses
	WHERE
		course_id = :course_id`

	var c Course
	if err := database.NamedQueryStruct(ctx, db, q, in, &c); err != nil {
		return Course{}, fmt.Errorf("selecting course[%s]: %w", id, err)
	}

	return c, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Course, error) {
	const q = `
	SELECT
		course_id, title, description, instructor, image_url, price, student_count, created_at, updated_at
	FROM
		courses
	ORDER BY
		created_at, course_id`

	var cs []Course
	if err := database.NamedQuerySlice(ctx, db, q, struct{}{}, &cs); err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}

	return cs, nil
}

// IncrementStudents bumps the cached student counter of a course.
func IncrementStudents(ctx context.Context, db sqlx.ExtContext, id string, now time.Time) error {
	in := struct {
		ID        string    `db:"course_id"`
		UpdatedAt time.Time `db:"updated_at"`
	}{
		ID:        id,
		UpdatedAt: now,
	}

	const q = `
	UPDATE courses SET
		student_count = student_count + 1,
		updated_at = :updated_at
	WHERE
		course_id = :course_id`

	res, err := database.NamedExecContext(ctx, db, q, in)
	if err != nil {
		return fmt.Errorf("incrementing students of course[%s]: %w", id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("incrementing students of course[%s]: %w", id, database.ErrDBNotFound)
	}

	return nil
}
