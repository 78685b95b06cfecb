// Package store persists predictions served by the interactive predictor.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// Store is a SQLite-backed prediction log.
type Store struct {
	db *sql.DB
}

// Prediction is one served prediction: the inputs as JSON, the probability
// returned, and the run the model belongs to.
type Prediction struct {
	ID          int64
	RunID       string
	Inputs      string
	Probability float64
	Leaning     string
	CreatedAt   time.Time
}

// Open opens or creates the prediction log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening prediction log %q: %w", path, err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		inputs TEXT NOT NULL,
		probability REAL NOT NULL,
		leaning TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("creating predictions table: %w", err)
	}
	return nil
}

// Record appends one prediction to the log.
func (s *Store) Record(ctx context.Context, prediction Prediction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (run_id, inputs, probability, leaning) VALUES (?, ?, ?, ?)`,
		prediction.RunID, prediction.Inputs, prediction.Probability, prediction.Leaning)
	if err != nil {
		return fmt.Errorf("recording prediction: %w", err)
	}
	return nil
}

// Recent returns the most recent predictions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Prediction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, inputs, probability, leaning, created_at
		 FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Println(err)
		}
	}()

	var predictions []Prediction
	for rows.Next() {
		var prediction Prediction
		err := rows.Scan(&prediction.ID, &prediction.RunID, &prediction.Inputs,
			&prediction.Probability, &prediction.Leaning, &prediction.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	return predictions, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
