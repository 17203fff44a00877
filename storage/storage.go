/*
Package storage is an optional SQLite-backed sink for the CLI demo: a
place to persist every fired spike queryable after a run, as an
alternative to (or alongside) the binary spike log. Grounded on the
pattern of wrapping database/sql with the mattn/go-sqlite3 driver the
corpus's storage-adjacent examples use — a thin repository over a single
table, no ORM.
*/
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SynapticNetworks/hummus/snntypes"
)

// SpikeStore persists fired spikes to a SQLite database file.
type SpikeStore struct {
	db *sql.DB
}

// Open creates (or reuses) the spikes table at path.
func Open(path string) (*SpikeStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS spikes (
		timestamp REAL NOT NULL,
		neuron_id INTEGER NOT NULL,
		layer_id  INTEGER NOT NULL,
		class_label TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}
	return &SpikeStore{db: db}, nil
}

// Record inserts one fired-spike row.
func (s *SpikeStore) Record(t float64, neuronID snntypes.NeuronID, layerID snntypes.LayerID, classLabel string) error {
	_, err := s.db.Exec(
		`INSERT INTO spikes (timestamp, neuron_id, layer_id, class_label) VALUES (?, ?, ?, ?)`,
		t, uint32(neuronID), uint32(layerID), classLabel,
	)
	return err
}

// CountByLabel returns how many recorded spikes carry the given class
// label, a building block for post-run accuracy queries.
func (s *SpikeStore) CountByLabel(classLabel string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM spikes WHERE class_label = ?`, classLabel).Scan(&n)
	return n, err
}

// Close flushes and closes the underlying database handle.
func (s *SpikeStore) Close() error {
	return s.db.Close()
}
