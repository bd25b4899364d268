package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/irsalhamdi/course-market/api/web"
	"github.com/irsalhamdi/course-market/api/weberr"
	"github.com/irsalhamdi/course-market/core/claims"
	"github.com/irsalhamdi/course-market/core/user"
	"github.com/irsalhamdi/course-market/database"
	"github.com/irsalhamdi/course-market/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type tokenResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func HandleSignup(db *sqlx.DB, tokens *Tokens) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in user.UserSignup
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("generating password hash: %w", err)
		}

		now := time.Now().UTC()
		usr := user.User{
			ID:           validate.GenerateID(),
			Name:         in.Name,
			Email:        strings.ToLower(in.Email),
			PasswordHash: string(hash),
			Role:         claims.RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := user.Create(ctx, db, usr); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.BadRequest(errors.New("email already registered"))
			}
			return fmt.Errorf("creating user: %w", err)
		}

		token, err := tokens.Sign(claims.Claims{UserID: usr.ID, Role: usr.Role}, now)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, tokenResponse{Token: token, User: usr}, http.StatusCreated)
	}
}

func HandleLogin(db *sqlx.DB, tokens *Tokens) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in user.UserLogin
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		usr, err := user.FetchByEmail(ctx, db, strings.ToLower(in.Email))
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotAuthorized(errors.New("invalid credentials"))
			}
			return fmt.Errorf("fetching user: %w", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
			return weberr.NotAuthorized(errors.New("invalid credentials"))
		}

		token, err := tokens.Sign(claims.Claims{UserID: usr.ID, Role: usr.Role}, time.Now().UTC())
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, tokenResponse{Token: token, User: usr}, http.StatusOK)
	}
}
