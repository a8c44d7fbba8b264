package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// sqliteUnicodeDriver is go-sqlite3 with lower() replaced by a Unicode-aware
// version. The builtin only folds ASCII, so "Île" would never match "île".
const sqliteUnicodeDriver = "sqlite3_unicode"

func init() {
	sql.Register(sqliteUnicodeDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

//go:embed schema/*.sql
var schemaFS embed.FS

// Open connects to the database and verifies the connection.
// MySQL DSNs need parseTime=true so DATETIME columns scan into time.Time.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}

	driverName := driver
	if driver == DriverSQLite {
		driverName = sqliteUnicodeDriver
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite allows one writer at a time
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(35)
	}
	return db, nil
}

// EnsureSchema applies the bootstrap DDL for the driver. Every statement is
// CREATE ... IF NOT EXISTS so running it twice is harmless.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts, err := Statements(driver)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: apply schema: %w", err)
		}
	}
	return nil
}

// Statements returns the DDL statements for the driver in execution order.
func Statements(driver string) ([]string, error) {
	var name string
	switch driver {
	case DriverMySQL:
		name = "schema/mysql.sql"
	case DriverSQLite:
		name = "schema/sqlite.sql"
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", driver)
	}

	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}

	var stmts []string
	for _, part := range strings.Split(string(data), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}
