// Package store keeps the customer listing in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"customer-nav/internal/models"
)

const schemaVersion = 1

// pos keeps insertion order, which is the order the listing is served in.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS customers (
	pos        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         INTEGER NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL
);
`

// ErrEmpty is returned by Seed when there is nothing to seed with.
var ErrEmpty = errors.New("no customers")

// SampleCustomers is the listing a fresh store is seeded with when no sheet is configured.
var SampleCustomers = []models.Customer{
	{ID: 1, Name: "Customer A", Latitude: 6.9271, Longitude: 79.8612},
	{ID: 2, Name: "Customer B", Latitude: 6.9147, Longitude: 79.9733},
	{ID: 3, Name: "Customer C", Latitude: 6.8650, Longitude: 79.8991},
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite

	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_meta").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("check schema version: %w", err)
	}
	if n == 0 {
		if _, err := db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("insert schema version: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all customers in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, latitude, longitude FROM customers ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&n)
	return n, err
}

// ReplaceAll swaps the whole listing in one transaction. Duplicate ids abort the swap.
func (s *Store) ReplaceAll(ctx context.Context, customers []models.Customer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := replaceTx(ctx, tx, customers); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func replaceTx(ctx context.Context, tx *sql.Tx, customers []models.Customer) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM customers"); err != nil {
		return fmt.Errorf("clear customers: %w", err)
	}
	// restart pos so order matches the new listing
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'customers'"); err != nil {
		return fmt.Errorf("reset sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (id, name, latitude, longitude)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range customers {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Latitude, c.Longitude); err != nil {
			return fmt.Errorf("insert customer %d: %w", c.ID, err)
		}
	}
	return nil
}

// Seed fills an empty store with customers. A store that already has rows is left alone.
func (s *Store) Seed(ctx context.Context, customers []models.Customer) (bool, error) {
	if len(customers) == 0 {
		return false, ErrEmpty
	}
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.ReplaceAll(ctx, customers); err != nil {
		return false, err
	}
	return true, nil
}
