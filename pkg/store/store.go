// Package store persists validated generators in SQLite.
//
// Each row keeps the generator's full JSON mapping next to a few indexed
// columns used for lookups. Rows are re-validated through
// plexos.NewGenerator when read, so a store never hands out a record that
// violates the schema.
package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/r2x-project/r2x-go/pkg/enums"
	"github.com/r2x-project/r2x-go/pkg/plexos"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// ErrNotFound is returned when no generator matches a lookup.
var ErrNotFound = errors.New("generator not found")

// Store provides SQLite persistence for generators and load runs.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	opts []plexos.Option
}

// Open opens or creates the database at path. Use ":memory:" for an
// in-memory database. opts are applied when rows are read back.
func Open(path string, opts ...plexos.Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db, opts: opts}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT,
		version TEXT,
		accepted INTEGER DEFAULT 0,
		rejected INTEGER DEFAULT 0,
		loaded_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS generators (
		uuid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		fuel TEXT,
		prime_mover TEXT,
		max_capacity_mw REAL,
		run_id TEXT REFERENCES runs(id) ON DELETE SET NULL,
		record_json TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_generators_name ON generators(name);
	CREATE INDEX IF NOT EXISTS idx_generators_prime_mover ON generators(prime_mover);
	CREATE INDEX IF NOT EXISTS idx_generators_fuel ON generators(fuel);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

const upsertGenerator = `
	INSERT INTO generators (uuid, name, category, fuel, prime_mover, max_capacity_mw, run_id, record_json, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(uuid) DO UPDATE SET
		name = excluded.name,
		category = excluded.category,
		fuel = excluded.fuel,
		prime_mover = excluded.prime_mover,
		max_capacity_mw = excluded.max_capacity_mw,
		run_id = excluded.run_id,
		record_json = excluded.record_json,
		updated_at = excluded.updated_at
`

func (s *Store) put(ex execer, g *plexos.Generator, runID string) error {
	if err := g.Validate(s.opts...); err != nil {
		return err
	}

	record, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding generator %s: %w", g.Label(), err)
	}

	var fuel, primeMover, run sql.NullString
	var maxCap sql.NullFloat64
	if g.Fuel != nil {
		fuel = sql.NullString{String: *g.Fuel, Valid: true}
	}
	if g.PrimeMoverType != nil {
		primeMover = sql.NullString{String: g.PrimeMoverType.String(), Valid: true}
	}
	if g.MaxCapacity != nil {
		maxCap = sql.NullFloat64{Float64: g.MaxCapacity.In(units.Megawatt), Valid: true}
	}
	if runID != "" {
		run = sql.NullString{String: runID, Valid: true}
	}

	_, err = ex.Exec(upsertGenerator,
		g.UUID.String(), g.Name, g.Category, fuel, primeMover, maxCap, run,
		string(record), time.Now().UTC())
	return err
}

// Put inserts a generator, or replaces the stored one with the same UUID.
// The generator is validated first.
func (s *Store) Put(g *plexos.Generator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(s.db, g, "")
}

// Import stores every accepted generator of a load, and the run summary,
// in one transaction.
func (s *Store) Import(res *plexos.LoadResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs (id, source, version, accepted, rejected, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, res.RunID, res.Source, res.Version.String(), len(res.Generators), len(res.Rejected), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	for _, g := range res.Generators {
		if err := s.put(tx, g, res.RunID); err != nil {
			return fmt.Errorf("storing %s: %w", g.Label(), err)
		}
	}

	return tx.Commit()
}

// decode rebuilds a generator from its stored JSON mapping.
func (s *Store) decode(record string) (*plexos.Generator, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(record)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("corrupt record: %w", err)
	}
	return plexos.NewGenerator(fields, s.opts...)
}

// Get retrieves a generator by UUID.
func (s *Store) Get(id uuid.UUID) (*plexos.Generator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record string
	err := s.db.QueryRow(`SELECT record_json FROM generators WHERE uuid = ?`, id.String()).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s.decode(record)
}

// GetByName retrieves a generator by name. When several share the name,
// the most recently stored one is returned.
func (s *Store) GetByName(name string) (*plexos.Generator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record string
	err := s.db.QueryRow(`
		SELECT record_json FROM generators WHERE name = ?
		ORDER BY updated_at DESC LIMIT 1
	`, name).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return s.decode(record)
}

// Query filters List. Zero fields match everything.
type Query struct {
	PrimeMover *enums.PrimeMoverType
	Fuel       string
	Category   string

	// MinCapacity keeps generators with max_capacity at or above it.
	MinCapacity *units.Quantity

	Limit  int
	Offset int
}

// List returns the generators matching q, ordered by name.
func (s *Store) List(q Query) ([]*plexos.Generator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if q.PrimeMover != nil {
		where = append(where, "prime_mover = ?")
		args = append(args, q.PrimeMover.String())
	}
	if q.Fuel != "" {
		where = append(where, "fuel = ?")
		args = append(args, q.Fuel)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if q.MinCapacity != nil {
		mw, err := q.MinCapacity.To(units.Megawatt)
		if err != nil {
			return nil, err
		}
		where = append(where, "max_capacity_mw >= ?")
		args = append(args, mw.Value)
	}

	query := `SELECT record_json FROM generators`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, uuid"
	switch {
	case q.Limit > 0:
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	case q.Offset > 0:
		// SQLite requires a LIMIT before OFFSET; -1 means no limit.
		query += " LIMIT -1 OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []string
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*plexos.Generator, 0, len(records))
	for _, record := range records {
		g, err := s.decode(record)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Count returns the number of stored generators.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM generators`).Scan(&count)
	return count, err
}

// Delete removes a generator.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM generators WHERE uuid = ?`, id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Run summarizes an imported load.
type Run struct {
	ID       string
	Source   string
	Version  string
	Accepted int
	Rejected int
	LoadedAt time.Time
}

// ListRuns returns the imported runs, most recent first.
func (s *Store) ListRuns() ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, source, version, accepted, rejected, loaded_at
		FROM runs ORDER BY loaded_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var source, ver sql.NullString
		var loadedAt sql.NullTime
		if err := rows.Scan(&r.ID, &source, &ver, &r.Accepted, &r.Rejected, &loadedAt); err != nil {
			return nil, err
		}
		r.Source = source.String
		r.Version = ver.String
		if loadedAt.Valid {
			r.LoadedAt = loadedAt.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
