package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-market/core/cart"
	"github.com/irsalhamdi/course-market/core/course"
	"github.com/irsalhamdi/course-market/core/user"
	"github.com/irsalhamdi/course-market/database/dbtest"
)

func TestItems(t *testing.T) {
	db := dbtest.NewSQLite(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	usr := user.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: "USER", CreatedAt: now, UpdatedAt: now}
	if err := user.Create(ctx, db, usr); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	for _, id := range []string{"go-basics", "ts-mastery"} {
		c := course.Course{ID: id, Title: id, Description: "d", Price: "$16.99", CreatedAt: now, UpdatedAt: now}
		if err := course.Create(ctx, db, c); err != nil {
			t.Fatalf("creating course: %v", err)
		}
	}

	if err := cart.CreateItem(ctx, db, usr.ID, "go-basics", now); err != nil {
		t.Fatalf("adding item: %v", err)
	}
	if err := cart.CreateItem(ctx, db, usr.ID, "ts-mastery", now.Add(time.Second)); err != nil {
		t.Fatalf("adding item: %v", err)
	}
	if err := cart.CreateItem(ctx, db, usr.ID, "ts-mastery", now.Add(2*time.Second)); err != nil {
		t.Fatalf("adding item twice: %v", err)
	}

	items, err := cart.FetchItems(ctx, db, usr.ID)
	if err != nil {
		t.Fatalf("fetching items: %v", err)
	}

	var got []string
	for _, it := range items {
		got = append(got, it.CourseID)
	}
	if diff := cmp.Diff([]string{"go-basics", "ts-mastery"}, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	if err := cart.DeleteItem(ctx, db, usr.ID, "go-basics"); err != nil {
		t.Fatalf("deleting item: %v", err)
	}
	items, _ = cart.FetchItems(ctx, db, usr.ID)
	if len(items) != 1 || items[0].CourseID != "ts-mastery" || items[0].Price != "$16.99" {
		t.Fatalf("unexpected items after delete: %+v", items)
	}

	if err := cart.Delete(ctx, db, usr.ID); err != nil {
		t.Fatalf("emptying cart: %v", err)
	}
	items, _ = cart.FetchItems(ctx, db, usr.ID)
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}
