package migrations

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	for _, table := range []string{"albums", "players", "teams", "users", "tokens", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus(t *testing.T) {
	t.Run("fresh database needs migration", func(t *testing.T) {
		db := openTestDB(t)

		err := CheckDBMigrationStatus(db)
		if err == nil {
			t.Fatal("CheckDBMigrationStatus() expected error for fresh database")
		}
		if err.Error() != "database has no schema version (needs migration)" {
			t.Errorf("CheckDBMigrationStatus() error = %q", err)
		}
	})

	t.Run("up to date after MigrateUp", func(t *testing.T) {
		db := openTestDB(t)
		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}
		if err := CheckDBMigrationStatus(db); err != nil {
			t.Errorf("CheckDBMigrationStatus() error = %v", err)
		}
	})

	t.Run("reports how far behind", func(t *testing.T) {
		db := openTestDB(t)
		if err := MigrateTo(db, 1); err != nil {
			t.Fatalf("MigrateTo(1) error = %v", err)
		}
		err := CheckDBMigrationStatus(db)
		if err == nil || !strings.Contains(err.Error(), "1 migrations behind") {
			t.Errorf("CheckDBMigrationStatus() error = %v, want 1 migrations behind", err)
		}
	})
}

func TestGetStatus(t *testing.T) {
	db := openTestDB(t)

	st, err := GetStatus(db)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if st.Current != 0 || st.Latest != 2 || st.UpToDate() {
		t.Errorf("GetStatus() = %+v, want Current=0 Latest=2", st)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	st, err = GetStatus(db)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("GetStatus() = %+v, want up to date", st)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() error = %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("second MigrateUp() error = %v", err)
	}
}

func TestMigrateTo_Down(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := MigrateTo(db, 1); err != nil {
		t.Fatalf("MigrateTo(1) error = %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='users'").Scan(&n); err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	if n != 0 {
		t.Error("users table still exists after migrating down to 1")
	}
}

func TestForeignKeyConstraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	_, err := db.Exec(`INSERT INTO tokens (id, username, created_at, expires_at) VALUES ('tok-1', 'nobody', 0, 0)`)
	if err == nil {
		t.Error("expected foreign key violation for token of unknown user")
	}
}

func TestSchema_Checks(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	t.Run("rejects unknown album type", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO albums (id, sort_key, title, year, publisher, type) VALUES ('a', 0, 'T', 2000, 'P', 'Selección')`)
		if err == nil {
			t.Error("expected check constraint violation")
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO users (username, password_hash, role, created_at) VALUES ('u', 'h', 'root', 0)`)
		if err == nil {
			t.Error("expected check constraint violation")
		}
	})

	t.Run("album id is unique", func(t *testing.T) {
		ins := `INSERT INTO albums (id, sort_key, title, year, publisher) VALUES ('dup', 0, 'T', 2000, 'P')`
		if _, err := db.Exec(ins); err != nil {
			t.Fatalf("first insert: %v", err)
		}
		if _, err := db.Exec(ins); err == nil {
			t.Error("expected unique constraint violation")
		}
	})
}

// openTestDB opens a single-connection in-memory database with foreign keys on.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}
	return db
}
