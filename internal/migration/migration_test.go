package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 for fresh database, got %d", version)
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_create_users.sql": "CREATE TABLE users (id TEXT PRIMARY KEY);",
		"002_create_tasks.sql": "CREATE TABLE tasks (id TEXT PRIMARY KEY, user_id TEXT);",
	}))

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2 after applying, got %d", version)
	}

	// Both tables should exist.
	for _, table := range []string{"users", "tasks"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE notes (id TEXT PRIMARY KEY);",
	}))

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("first ApplyMigrations failed: %v", err)
	}
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", applied)
	}
}

func TestApplyMigrationsPartialFailure(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_good.sql": "CREATE TABLE good (id TEXT PRIMARY KEY);",
		"002_bad.sql":  "CREATE BROKEN SYNTAX;",
	}))

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", applied)
	}

	// The good migration's version sticks; the bad one rolled back.
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after partial failure, got %d", version)
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	db := setupTestDB(t)

	cases := map[string]string{
		"no underscore": "001.sql",
		"bad version":   "abc_init.sql",
		"version zero":  "000_init.sql",
	}
	for name, filename := range cases {
		t.Run(name, func(t *testing.T) {
			runner := NewRunner(db, migrationFS(map[string]string{
				filename: "CREATE TABLE x (id INTEGER);",
			}))
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Errorf("expected error for filename %s", filename)
			}
		})
	}
}

func TestReadMigrationFilesRejectsDuplicateVersions(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_first.sql":  "CREATE TABLE a (id INTEGER);",
		"001_second.sql": "CREATE TABLE b (id INTEGER);",
	}))

	if _, err := runner.ReadMigrationFiles(); err == nil {
		t.Error("expected error for duplicate versions")
	} else if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewerDatabaseRejected(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE x (id INTEGER);",
	}))

	if err := runner.EnsureSchemaVersionTable(); err != nil {
		t.Fatalf("failed to ensure schema_version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected ValidateVersion to reject a newer database")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("expected ApplyMigrations to reject a newer database")
	}
}
