package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// OpenRemote connects to the remote tier named by url. Supported schemes:
// postgres://, postgresql://, sqlite://<path>, redis://, rediss://.
func OpenRemote(ctx context.Context, url string) (Remote, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db, err := sql.Open("pgx", url)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return newSQLRemoteOrClose(ctx, db, DialectPostgres)

	case strings.HasPrefix(url, "sqlite://"):
		db, err := OpenSQLite(strings.TrimPrefix(url, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return newSQLRemoteOrClose(ctx, db, DialectSQLite)

	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisRemote(RedisConfig{URL: url})

	default:
		return nil, fmt.Errorf("unsupported remote cache url %q", redact(url))
	}
}

// OpenSQLite opens a SQLite database for use as a remote tier. SQLite allows
// one writer, so the pool is limited to a single connection; this also keeps
// ":memory:" databases shared across queries.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func newSQLRemoteOrClose(ctx context.Context, db *sql.DB, dialect Dialect) (Remote, error) {
	r, err := NewSQLRemote(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// redact drops credentials from a connection string for error messages.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	return scheme + "://" + rest
}
