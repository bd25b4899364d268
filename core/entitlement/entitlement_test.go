package entitlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irsalhamdi/course-market/core/course"
	"github.com/irsalhamdi/course-market/core/entitlement"
	"github.com/irsalhamdi/course-market/core/payment"
	"github.com/irsalhamdi/course-market/core/user"
	"github.com/irsalhamdi/course-market/database"
	"github.com/irsalhamdi/course-market/database/dbtest"
	"github.com/shopspring/decimal"
)

func TestClampProgress(t *testing.T) {
	tests := map[int]int{
		150: 100,
		-5:  0,
		0:   0,
		100: 100,
		42:  42,
	}

	for in, want := range tests {
		if got := entitlement.ClampProgress(in); got != want {
			t.Errorf("ClampProgress(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestStore(t *testing.T) {
	db := dbtest.NewSQLite(t)
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	usr := user.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: "USER", CreatedAt: t0, UpdatedAt: t0}
	if err := user.Create(ctx, db, usr); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	c := course.Course{ID: "ts-mastery", Title: "TypeScript Mastery", Description: "d", Price: "$16.99", CreatedAt: t0, UpdatedAt: t0}
	if err := course.Create(ctx, db, c); err != nil {
		t.Fatalf("creating course: %v", err)
	}
	p := payment.Payment{
		ID:            "p1",
		UserID:        "u1",
		CourseID:      "ts-mastery",
		Amount:        decimal.RequireFromString("16.99"),
		Currency:      "USD",
		Method:        payment.MethodCreditCard,
		Status:        payment.StatusCompleted,
		TransactionID: "CC-AAAAAAAAAAAAAAAAAAAA",
		CreatedAt:     t0,
	}
	if err := payment.Create(ctx, db, p); err != nil {
		t.Fatalf("creating payment: %v", err)
	}

	owned, err := entitlement.Exists(ctx, db, "u1", "ts-mastery")
	if err != nil || owned {
		t.Fatalf("expected no entitlement yet, got %v (%v)", owned, err)
	}

	e := entitlement.Entitlement{ID: "e1", UserID: "u1", CourseID: "ts-mastery", PaymentID: "p1", PurchasedAt: t0, UpdatedAt: t0}
	if err := entitlement.Create(ctx, db, e); err != nil {
		t.Fatalf("creating entitlement: %v", err)
	}

	e.ID = "e2"
	if err := entitlement.Create(ctx, db, e); !errors.Is(err, database.ErrDBDuplicatedEntry) {
		t.Fatalf("expected duplicated entry, got %v", err)
	}

	owned, err = entitlement.Exists(ctx, db, "u1", "ts-mastery")
	if err != nil || !owned {
		t.Fatalf("expected entitlement, got %v (%v)", owned, err)
	}

	for _, tt := range []struct{ in, want int }{{150, 100}, {-5, 0}, {37, 37}} {
		got, err := entitlement.UpdateProgress(ctx, db, "u1", "ts-mastery", tt.in, t0)
		if err != nil {
			t.Fatalf("updating progress: %v", err)
		}
		stored, err := entitlement.Fetch(ctx, db, "u1", "ts-mastery")
		if err != nil {
			t.Fatalf("fetching entitlement: %v", err)
		}
		if got != tt.want || stored.Progress != tt.want {
			t.Fatalf("progress %d: returned %d, stored %d, want %d", tt.in, got, stored.Progress, tt.want)
		}
	}

	if _, err := entitlement.UpdateProgress(ctx, db, "u1", "missing", 10, t0); !errors.Is(err, database.ErrDBNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := entitlement.ListOwned(ctx, db, "u1")
	if err != nil {
		t.Fatalf("listing owned: %v", err)
	}
	if len(list) != 1 || list[0].CourseID != "ts-mastery" || list[0].Title != "TypeScript Mastery" || list[0].PaymentID != "p1" {
		t.Fatalf("unexpected owned list %+v", list)
	}
}
