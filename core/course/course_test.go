package course_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irsalhamdi/course-market/core/course"
	"github.com/irsalhamdi/course-market/database"
	"github.com/irsalhamdi/course-market/database/dbtest"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$16.99", "16.99"},
		{"16.99", "16.99"},
		{" $1,299.5 ", "1299.5"},
		{"9.999", "10"},
		{"$0", "0"},
		{"19.99 USD", "19.99"},
	}

	for _, tt := range tests {
		got, err := course.ParsePrice(tt.in)
		if err != nil {
			t.Errorf("ParsePrice(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParsePrice(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "free", "$-3.00", "12.3.4"} {
		if _, err := course.ParsePrice(bad); !errors.Is(err, course.ErrInvalidPrice) {
			t.Errorf("ParsePrice(%q): expected ErrInvalidPrice, got %v", bad, err)
		}
	}
}

func TestStore(t *testing.T) {
	db := dbtest.NewSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := course.Course{
		ID:          "ts-mastery",
		Title:       "TypeScript Mastery",
		Description: "Types all the way down",
		Price:       "$16.99",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := course.Create(ctx, db, c); err != nil {
		t.Fatalf("creating course: %v", err)
	}

	if err := course.Create(ctx, db, c); !errors.Is(err, database.ErrDBDuplicatedEntry) {
		t.Fatalf("expected duplicated entry, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := course.IncrementStudents(ctx, db, c.ID, now); err != nil {
			t.Fatalf("incrementing students: %v", err)
		}
	}

	got, err := course.Fetch(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("fetching course: %v", err)
	}
	if got.StudentCount != 2 || got.Price != "$16.99" {
		t.Fatalf("unexpected course %+v", got)
	}

	if _, err := course.Fetch(ctx, db, "missing"); !errors.Is(err, database.ErrDBNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := course.IncrementStudents(ctx, db, "missing", now); !errors.Is(err, database.ErrDBNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	cs, err := course.List(ctx, db)
	if err != nil || len(cs) != 1 {
		t.Fatalf("expected one course, got %d (%v)", len(cs), err)
	}
}
