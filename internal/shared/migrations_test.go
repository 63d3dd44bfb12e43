package shared

import (
	"database/sql"
	"testing"
)

var schemaTables = []string{
	"playlists", "songs", "playlist_songs", "artists", "artist_genres", "song_artists",
}

func newMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ConfigureDatabase(db, 1, 1)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return count > 0
}

func TestRunMigrations(t *testing.T) {
	db := newMigratedDB(t)

	for _, table := range schemaTables {
		if !tableExists(t, db, table) {
			t.Errorf("expected table %s to exist", table)
		}
	}

	// re-running must be a no-op
	if err := RunMigrations(db); err != nil {
		t.Fatalf("re-running migrations should not fail: %v", err)
	}
}

func TestRollbackMigration(t *testing.T) {
	db := newMigratedDB(t)

	if err := RollbackMigration(db); err != nil {
		t.Fatalf("failed to rollback migration: %v", err)
	}

	for _, table := range schemaTables {
		if tableExists(t, db, table) {
			t.Errorf("expected table %s to be dropped", table)
		}
	}

	if err := RollbackMigration(db); err == nil {
		t.Error("expected error when no migrations remain to rollback")
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	db := newMigratedDB(t)

	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("failed to read pragma: %v", err)
	}
	if enabled != 1 {
		t.Error("expected foreign key enforcement to be enabled")
	}
}
