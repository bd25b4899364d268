// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/irsalhamdi/course-market/config"
	"github.com/irsalhamdi/course-market/database"
	"github.com/jmoiron/sqlx"
)

var seq int64

// NewSQLite returns a migrated in-memory sqlite database private to t.
func NewSQLite(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	name = fmt.Sprintf("%s_%d", name, atomic.AddInt64(&seq, 1))

	db, err := database.Open(config.DB{Driver: database.DriverSQLite, Name: name, InMemory: true})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating sqlite: %v", err)
	}
	return db
}
