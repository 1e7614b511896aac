// Package db opens the Postgres connection and embeds the SQL migrations.
package db

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a Postgres connection using the given DSN. Caller must call Close when done.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
