// internal/results/db.go
//
// Database plumbing for finished-game results.
// Responsibilities:
//   - Opening SQLite (default), Postgres or MySQL with per-dialect pool settings.
//   - Creating the parent directory for file-backed SQLite DSNs.
//   - Applying embedded migrations in lexical order, idempotently, recorded in _migrations.

package results

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed sql
var migrationFS embed.FS

// DB is a connection plus the dialect it speaks.
type DB struct {
	*sql.DB
	dialect dialect
}

// Open connects, configures and migrates.
func Open(ctx context.Context, driver Driver, dsn string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if d.driver == DriverSQLite {
		if dsn == "" {
			dsn = "./data/results.db"
		}
		dsn, err = sqliteDSN(dsn)
		if err != nil {
			return nil, err
		}
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s: DB_DSN is required", d.driver)
	}

	sqlDB, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	if err := d.configure(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("configure %s: %w", d.driver, err)
	}

	db := &DB{DB: sqlDB, dialect: d}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN makes sure the directory for a file path exists and adds the busy timeout.
func sqliteDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return dsn, nil
	}
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if strings.Contains(dsn, "?") {
		return dsn, nil
	}
	return dsn + "?_busy_timeout=5000&_journal_mode=WAL", nil
}

// Backend reports the configured driver.
func (db *DB) Backend() Driver { return db.dialect.driver }

func (db *DB) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, db.dialect.rewrite(q), args...)
}

func (db *DB) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.dialect.rewrite(q), args...)
}

func (db *DB) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return db.QueryRowContext(ctx, db.dialect.rewrite(q), args...)
}

// migrate applies sql/<dialect>/*.sql in lexical order.
// Each file runs in its own transaction together with its _migrations row.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, db.dialect.migTable); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	dir := path.Join("sql", db.dialect.migrations)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var done int
		err := db.queryRow(ctx, `SELECT 1 FROM _migrations WHERE name=?`, name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrationFS.ReadFile(path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, stmt := range statements(string(body)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply %s: %w", name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, db.dialect.rewrite(`INSERT INTO _migrations(name) VALUES (?)`), name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
		log.Info().Str("migration", name).Str("driver", string(db.dialect.driver)).Msg("applied")
	}
	return nil
}

// statements splits a migration file on semicolons, dropping comment-only
// fragments. Migrations do not contain semicolons inside literals.
func statements(body string) []string {
	var out []string
	for _, part := range strings.Split(body, ";") {
		var keep []string
		for _, line := range strings.Split(part, "\n") {
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "--") {
				keep = append(keep, line)
			}
		}
		if len(keep) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(keep, "\n")))
		}
	}
	return out
}
