package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keybook.db")
	db, err := Open("sqlite://" + path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver string
		wantSource string
		wantErr    string
	}{
		{"relative sqlite", "sqlite://keybook.db", DriverSQLite, "keybook.db", ""},
		{"absolute sqlite", "sqlite:///var/lib/enigma/keybook.db", DriverSQLite, "/var/lib/enigma/keybook.db", ""},
		{"postgres", "postgres://u:p@localhost:5432/enigma?sslmode=disable", DriverPostgres, "postgres://u:p@localhost:5432/enigma?sslmode=disable", ""},
		{"postgresql alias", "postgresql://localhost/enigma", DriverPostgres, "postgresql://localhost/enigma", ""},
		{"empty sqlite path", "sqlite://", "", "", "no path"},
		{"unknown scheme", "mysql://localhost/enigma", "", "", "unsupported database scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, source, err := parseURL(tt.url)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseURL(%q) error = %v, want containing %q", tt.url, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseURL(%q) error = %v", tt.url, err)
			}
			if driver != tt.wantDriver || source != tt.wantSource {
				t.Errorf("parseURL(%q) = (%q, %q), want (%q, %q)", tt.url, driver, source, tt.wantDriver, tt.wantSource)
			}
		})
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() error = %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM rotor_keys"); err != nil {
		t.Fatalf("rotor_keys table missing: %v", err)
	}
	if count != 0 {
		t.Errorf("rotor_keys has %d rows, want 0", count)
	}
}

func TestMigrateStatus(t *testing.T) {
	db := openTestDB(t)

	before, err := MigrateStatus(db)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v", err)
	}
	if len(before) == 0 {
		t.Fatal("MigrateStatus() returned no migrations")
	}
	for _, s := range before {
		if s.Applied {
			t.Errorf("migration %s applied before MigrateUp", s.ID)
		}
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	after, err := MigrateStatus(db)
	if err != nil {
		t.Fatalf("MigrateStatus() error = %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("MigrateStatus() returned %d migrations, want %d", len(after), len(before))
	}
	for _, s := range after {
		if !s.Applied {
			t.Errorf("migration %s not applied", s.ID)
		}
		if s.AppliedAt == nil {
			t.Errorf("migration %s has no applied_at", s.ID)
		}
	}
	if after[0].ID != "001_rotor_keys.sql" {
		t.Errorf("first migration = %q, want 001_rotor_keys.sql", after[0].ID)
	}
}

func TestMigrateUp_ChecksumMismatch(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	if _, err := db.Exec("UPDATE migrations SET checksum = 'tampered'"); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	err := MigrateUp(db)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("MigrateUp() error = %v, want checksum mismatch", err)
	}
}

func TestMigrateUp_UnknownMigration(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	_, err := db.Exec(
		"INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)",
		"999_future.sql", "abc", "2026-01-01T00:00:00Z", 1,
	)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	err = MigrateUp(db)
	if err == nil || !strings.Contains(err.Error(), "not in embedded files") {
		t.Fatalf("MigrateUp() error = %v, want unknown migration error", err)
	}
}

func TestQueries(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	q, err := LoadQueries(db)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}
	ctx := context.Background()

	_, err = q.ExecContext(ctx, "insert-rotor-key",
		"0190a4c2-0000-7000-8000-000000000001", "2026-10-18", "r1", "r2", "r3", "2026-10-18T00:00:00Z")
	if err != nil {
		t.Fatalf("insert-rotor-key: %v", err)
	}

	var row struct {
		KeyID     string `db:"key_id"`
		Label     string `db:"label"`
		Rotor1    string `db:"rotor1"`
		Rotor2    string `db:"rotor2"`
		Rotor3    string `db:"rotor3"`
		CreatedAt string `db:"created_at"`
	}
	if err := q.GetContext(ctx, "get-rotor-key-by-label", &row, "2026-10-18"); err != nil {
		t.Fatalf("get-rotor-key-by-label: %v", err)
	}
	if row.Rotor2 != "r2" {
		t.Errorf("rotor2 = %q, want r2", row.Rotor2)
	}

	err = q.GetContext(ctx, "get-rotor-key", &row, "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("get-rotor-key(missing) error = %v, want sql.ErrNoRows", err)
	}

	var count int
	if err := q.GetContext(ctx, "count-rotor-keys-by-label", &count, "2026-10-18"); err != nil {
		t.Fatalf("count-rotor-keys-by-label: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	if _, err := q.ExecContext(ctx, "no-such-query"); err == nil {
		t.Error("ExecContext(no-such-query) succeeded")
	}
}
