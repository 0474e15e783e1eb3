// Package database writes simulation results to PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/hervehildenbrand/bgp-sim/pkg/simio"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS rib_entries (
	id BIGSERIAL PRIMARY KEY,
	run_at TIMESTAMPTZ NOT NULL,
	asn BIGINT NOT NULL,
	prefix TEXT NOT NULL,
	as_path TEXT NOT NULL
)`

// RIBWriter bulk-loads exported RIB rows into PostgreSQL.
type RIBWriter struct {
	db *sql.DB
}

// NewRIBWriter connects to the database and ensures the rib_entries table
// exists.
func NewRIBWriter(databaseURL string) (*RIBWriter, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create rib_entries table: %w", err)
	}

	log.Printf("Connected to PostgreSQL database")
	return &RIBWriter{db: db}, nil
}

// Close releases the database connection.
func (w *RIBWriter) Close() error {
	return w.db.Close()
}

// WriteRows loads all rows in a single COPY transaction. Paths are stored
// space-separated, most recent hop first.
func (w *RIBWriter) WriteRows(rows []simio.RIBRow) error {
	runAt := time.Now()

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn("rib_entries", "run_at", "asn", "prefix", "as_path"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}

	for _, row := range rows {
		path := make([]string, len(row.ASPath))
		for i, asn := range row.ASPath {
			path[i] = strconv.FormatUint(uint64(asn), 10)
		}
		if _, err := stmt.Exec(runAt, int64(row.ASN), row.Prefix, strings.Join(path, " ")); err != nil {
			stmt.Close()
			return fmt.Errorf("copy row: %w", err)
		}
	}

	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("Wrote %d RIB rows to PostgreSQL", len(rows))
	return nil
}
