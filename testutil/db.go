//go:build integration

package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tatame-app/tatame/storage/database"
)

var tables = []string{
	"news", "activity_logs", "payments", "attendance_records", "schedule_assistants", "class_schedules",
	"users", "students", "academy_assistants", "professors", "academies", "graduations",
}

// OpenDB starts a throwaway Postgres container, migrates it and returns a connection to it.
// The container is terminated when the test ends.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("tatame"),
		postgres.WithUsername("tatame"),
		postgres.WithPassword("tatame"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("OpenDB() starting postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pg.Terminate(context.Background()); err != nil {
			t.Logf("terminating postgres: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable", "timezone=utc")
	if err != nil {
		t.Fatalf("OpenDB() connection string: %v", err)
	}
	db, err := sqlx.Open(database.EnginePostgres, dsn)
	if err != nil {
		t.Fatalf("OpenDB() opening: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.StatusCheck(ctx, db); err != nil {
		t.Fatalf("OpenDB() status check: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("OpenDB() migrating: %v", err)
	}
	return db
}

// ResetDB empties every table except theme_settings and restarts the id sequences.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	query := "TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
