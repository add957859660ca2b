package db

import (
	"errors"
	"testing"
)

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		driver  string
		dsn     string
		dialect Dialect
	}{
		{"postgres://u:p@db:5432/stats", "pgx", "postgres://u:p@db:5432/stats", DialectPostgres},
		{"postgresql+asyncpg://u:p@db/stats", "pgx", "postgres://u:p@db/stats", DialectPostgres},
		{"mysql://u:p@db:3307/stats", "mysql", "u:p@tcp(db:3307)/stats", DialectMySQL},
		{"mysql+aiomysql://u@db/stats?charset=utf8mb4", "mysql", "u@tcp(db:3306)/stats?charset=utf8mb4", DialectMySQL},
		{"sqlite+aiosqlite:///stats.db", "sqlite", "stats.db?_pragma=busy_timeout(5000)", DialectSQLite},
		{"sqlite:////var/lib/stats.db", "sqlite", "/var/lib/stats.db?_pragma=busy_timeout(5000)", DialectSQLite},
		{"sqlite://", "sqlite", ":memory:", DialectSQLite},
		{"stats.db", "sqlite", "stats.db?_pragma=busy_timeout(5000)", DialectSQLite},
		{"file::memory:?cache=shared", "sqlite", "file::memory:?cache=shared", DialectSQLite},
	}

	for _, tt := range tests {
		src, err := ParseDatabaseURL(tt.raw)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.raw, err)
			continue
		}
		if src.Driver != tt.driver || src.DSN != tt.dsn || src.Dialect != tt.dialect {
			t.Errorf("%s: got (%s, %s, %s), want (%s, %s, %s)",
				tt.raw, src.Driver, src.DSN, src.Dialect, tt.driver, tt.dsn, tt.dialect)
		}
	}
}

func TestParseDatabaseURLErrors(t *testing.T) {
	if _, err := ParseDatabaseURL(""); err == nil {
		t.Error("Expected error for empty url")
	}
	if _, err := ParseDatabaseURL("redis://localhost:6379"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("Expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestPlaceholder(t *testing.T) {
	if got := DialectPostgres.Placeholder(3); got != "$3" {
		t.Errorf("Expected $3, got %s", got)
	}
	if got := DialectMySQL.Placeholder(3); got != "?" {
		t.Errorf("Expected ?, got %s", got)
	}
	if got := DialectSQLite.Placeholder(1); got != "?" {
		t.Errorf("Expected ?, got %s", got)
	}
}
