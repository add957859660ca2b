package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

var ErrUnsupportedScheme = errors.New("unsupported database url scheme")

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

type Source struct {
	Driver  string
	DSN     string
	Dialect Dialect
}

// ParseDatabaseURL maps DATABASE_URL to a database/sql driver and DSN.
// SQLAlchemy style schemes ("postgresql+asyncpg://", "sqlite+aiosqlite:///")
// are accepted; the "+driver" suffix is ignored.
func ParseDatabaseURL(raw string) (*Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty database url")
	}

	idx := strings.Index(raw, "://")
	if idx < 0 {
		if strings.HasPrefix(raw, "file:") || !strings.Contains(raw, ":") || raw == ":memory:" {
			return &Source{Driver: "sqlite", DSN: sqliteDSN(raw), Dialect: DialectSQLite}, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, raw)
	}

	scheme := strings.ToLower(raw[:idx])
	if plus := strings.Index(scheme, "+"); plus >= 0 {
		scheme = scheme[:plus]
	}
	rest := raw[idx+3:]

	switch scheme {
	case "postgres", "postgresql":
		return &Source{Driver: "pgx", DSN: "postgres://" + rest, Dialect: DialectPostgres}, nil
	case "mysql", "mariadb":
		dsn, err := mysqlDSN(rest)
		if err != nil {
			return nil, err
		}
		return &Source{Driver: "mysql", DSN: dsn, Dialect: DialectMySQL}, nil
	case "sqlite", "sqlite3":
		// sqlite:///relative.db and sqlite:////abs/path.db
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			path = ":memory:"
		}
		return &Source{Driver: "sqlite", DSN: sqliteDSN(path), Dialect: DialectSQLite}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}

func mysqlDSN(rest string) (string, error) {
	u, err := url.Parse("mysql://" + rest)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}

	var sb strings.Builder
	if u.User != nil {
		sb.WriteString(u.User.Username())
		if pass, ok := u.User.Password(); ok {
			sb.WriteString(":" + pass)
		}
		sb.WriteString("@")
	}
	host := u.Host
	if host == "" {
		host = "127.0.0.1:3306"
	} else if u.Port() == "" {
		host += ":3306"
	}
	sb.WriteString("tcp(" + host + ")")
	sb.WriteString("/" + strings.TrimPrefix(u.Path, "/"))
	if u.RawQuery != "" {
		sb.WriteString("?" + u.RawQuery)
	}
	return sb.String(), nil
}

// Open connects using DATABASE_URL and verifies the connection.
func Open(databaseURL string) (*sql.DB, Dialect, error) {
	src, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	sqlDB, err := sql.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", src.Dialect, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, "", fmt.Errorf("ping %s: %w", src.Dialect, err)
	}
	return sqlDB, src.Dialect, nil
}
