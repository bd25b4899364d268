package user

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, usr User) error {
	const q = `
	INSERT INTO users
		(user_id, name, email, password_hash, role, created_at, updated_at)
	VALUES
		(:user_id, :name, :email, :password_hash, :role, :created_at, :updated_at)`

	if _, err := database.NamedExecContext(ctx, db, q, usr); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	in := struct {
		ID string `db:"user_id"`
	}{
		ID: id,
	}

	const q = `
	SELECT
		user_id, name, email, password_hash, role, created_at, updated_at
	FROM
		users
	WHERE
		user_id = :user_id`

	var usr User
	if err := database.NamedQueryStruct(ctx, db, q, in, &usr); err != nil {
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}

	return usr, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	in := struct {
		Email string `db:"email"`
	}{
		Email: email,
	}

	const q = `
	SELECT
		user_id, name, email, password_hash, role, created_at, updated_at
	FROM
		users
	WHERE
		email = :email`

	var usr User
	if err := database.NamedQueryStruct(ctx, db, q, in, &usr); err != nil {
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}

	return usr, nil
}
