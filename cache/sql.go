package cache

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Dialect selects the SQL flavour of a SQLRemote.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// SQLRemote stores records in the translation_cache table.
type SQLRemote struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLRemote migrates the schema and returns a remote tier over db.
func NewSQLRemote(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLRemote, error) {
	if err := migrate(ctx, db, dialect); err != nil {
		return nil, err
	}
	return &SQLRemote{db: db, dialect: dialect}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var gd database.Dialect
	switch dialect {
	case DialectPostgres:
		gd = database.DialectPostgres
	case DialectSQLite:
		gd = database.DialectSQLite3
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	fsys, err := fs.Sub(migrations, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	provider, err := goose.NewProvider(gd, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// LoadAll implements Remote.
func (r *SQLRemote) LoadAll(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT "key", value FROM translation_cache`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out[key] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return out, nil
}

// Upsert implements Remote.
func (r *SQLRemote) Upsert(ctx context.Context, key string, value []byte) error {
	query := r.rebind(`
		INSERT INTO translation_cache ("key", value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT ("key") DO UPDATE SET
		  value = excluded.value,
		  updated_at = excluded.updated_at`)

	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", key, err)
	}
	return nil
}

// Close implements Remote.
func (r *SQLRemote) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to the dialect's form.
func (r *SQLRemote) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

var _ Remote = (*SQLRemote)(nil)
