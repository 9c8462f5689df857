package results

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"  // driver: mysql
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "github.com/mattn/go-sqlite3"    // driver: sqlite3
)

// Driver names the configured backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// dialect carries what differs between backends. Queries are written with
// ? placeholders and rewritten per dialect.
type dialect struct {
	driver     Driver
	driverName string // for sql.Open
	numbered   bool   // $1, $2 … placeholders
	migrations string // subdirectory of sql/
	migTable   string
	configure  func(db *sql.DB) error
}

func dialectFor(d Driver) (dialect, error) {
	switch Driver(strings.ToLower(string(d))) {
	case DriverSQLite, "sqlite3", "":
		return dialect{
			driver:     DriverSQLite,
			driverName: "sqlite3",
			migrations: "sqlite",
			migTable:   `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`,
			configure: func(db *sql.DB) error {
				// single writer
				db.SetMaxOpenConns(1)
				_, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`)
				return err
			},
		}, nil
	case DriverPostgres, "postgresql", "pgx":
		return dialect{
			driver:     DriverPostgres,
			driverName: "pgx",
			numbered:   true,
			migrations: "postgres",
			migTable:   `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`,
			configure:  pool,
		}, nil
	case DriverMySQL:
		return dialect{
			driver:     DriverMySQL,
			driverName: "mysql",
			migrations: "mysql",
			migTable:   `CREATE TABLE IF NOT EXISTS _migrations (name VARCHAR(255) PRIMARY KEY)`,
			configure:  pool,
		}, nil
	}
	return dialect{}, fmt.Errorf("unsupported driver: %s", d)
}

func pool(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

var placeholder = regexp.MustCompile(`\?`)

// rewrite converts ? placeholders to $1, $2 … where the dialect needs it.
func (d dialect) rewrite(query string) string {
	if !d.numbered {
		return query
	}
	n := 0
	return placeholder.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

// insertIgnore makes an INSERT skip rows that violate a unique key.
func (d dialect) insertIgnore(query string) string {
	if d.driver == DriverMySQL {
		return strings.Replace(query, "INSERT INTO", "INSERT IGNORE INTO", 1)
	}
	return strings.TrimRight(query, " \n") + " ON CONFLICT DO NOTHING"
}
