package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jimezsa/jobsweep/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const createListings = `CREATE TABLE IF NOT EXISTS listings (
	id integer not null primary key,
	run_id text not null,
	designation text,
	page_link text,
	company text,
	location text,
	time_captured text not null,
	query_title text,
	query_location text,
	page integer
);`

const createRunIndex = `CREATE INDEX IF NOT EXISTS listings_run_id ON listings(run_id);`

const insertListing = `INSERT INTO listings
	(run_id, designation, page_link, company, location, time_captured, query_title, query_location, page)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

// SQLite appends listings to a local database file. Absent fields are
// stored as NULL.
type SQLite struct {
	db *sql.DB
}

var _ Sink = (*SQLite)(nil)

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database file not set")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// The driver does not allow concurrent writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{createListings, createRunIndex} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, runID string, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertListing)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, listing := range listings {
		_, err := stmt.ExecContext(ctx,
			runID,
			nullable(listing.Designation),
			nullable(listing.PageLink),
			nullable(listing.Company),
			nullable(listing.Location),
			listing.TimeCaptured.UTC().Format(time.RFC3339Nano),
			listing.QueryTitle,
			listing.QueryLocation,
			listing.Page,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert listing: %w", err)
		}
	}
	return tx.Commit()
}

// Listings reads back the listings stored for runID in insertion order.
func (s *SQLite) Listings(ctx context.Context, runID string) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT designation, page_link, company, location, time_captured, query_title, query_location, page
		FROM listings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var (
			designation, link, company, location sql.NullString
			captured                             string
			listing                              models.Listing
		)
		if err := rows.Scan(&designation, &link, &company, &location, &captured,
			&listing.QueryTitle, &listing.QueryLocation, &listing.Page); err != nil {
			return nil, err
		}
		listing.Designation = optional(designation)
		listing.PageLink = optional(link)
		listing.Company = optional(company)
		listing.Location = optional(location)
		listing.TimeCaptured, err = time.Parse(time.RFC3339Nano, captured)
		if err != nil {
			return nil, fmt.Errorf("parse time_captured %q: %w", captured, err)
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullable(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func optional(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return models.Some(value.String)
}
