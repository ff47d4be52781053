// SPDX-License-Identifier: MIT

// Package pgstore serves reference data from PostgreSQL.
//
// Every table carries a statement trigger that bumps dataset_revision, so a
// snapshot is only re-read when its revision moved. All reads of one snapshot
// happen inside a single REPEATABLE READ, READ ONLY transaction.
package pgstore

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/katalvlaran/lca/assemble"
	"github.com/katalvlaran/lca/units"
)

const (
	qRevision         = `SELECT revision FROM dataset_revision WHERE id = 1`
	qProcesses        = `SELECT position, id, name FROM processes ORDER BY position`
	qTechnologyRows   = `SELECT position, flow, flow_id FROM technology_rows ORDER BY position`
	qTechnologyCells  = `SELECT row_position, process_position, value, unit FROM technology_cells`
	qInterventionRows = `SELECT code, flow, unit, "values" FROM intervention_rows ORDER BY code`
	qCharacterization = `SELECT flow, category, factor FROM characterization_factors ORDER BY flow, category`
	qMaterials        = `SELECT material, species_class, species_name, input_unit, output_unit, factor FROM material_factors ORDER BY id`
)

// Store reads snapshots from a pgx pool. Safe for concurrent use.
type Store struct {
	pool   *pgxpool.Pool
	logger *log.Logger

	mu       sync.Mutex
	revision int64
	cached   *assemble.Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps an existing pool. The caller keeps ownership of pool.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Connect opens a pool for dsn and checks it with a ping.
func Connect(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}

	return New(pool, opts...), nil
}

// Close closes the underlying pool.
func (s *Store) Close() { s.pool.Close() }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Snapshot returns the snapshot of the current revision.
func (s *Store) Snapshot(ctx context.Context) (*assemble.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rev int64
	if err = tx.QueryRow(ctx, qRevision).Scan(&rev); err != nil {
		return nil, fmt.Errorf("pgstore: revision: %w", err)
	}
	s.mu.Lock()
	if s.cached != nil && s.revision == rev {
		snap := s.cached
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	rows, err := load(ctx, tx)
	if err != nil {
		return nil, err
	}
	snap, err := rows.Snapshot("pg-" + strconv.FormatInt(rev, 10))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil || rev >= s.revision {
		s.cached, s.revision = snap, rev
		s.logger.Info("dataset loaded", "revision", rev, "processes", len(rows.Processes))
	}

	return snap, nil
}

func load(ctx context.Context, tx pgx.Tx) (Rows, error) {
	var r Rows
	var err error
	if r.Processes, err = collect[ProcessRow](ctx, tx, qProcesses); err != nil {
		return Rows{}, err
	}
	if r.Technology, err = collect[TechnologyRow](ctx, tx, qTechnologyRows); err != nil {
		return Rows{}, err
	}
	if r.Cells, err = collect[TechnologyCell](ctx, tx, qTechnologyCells); err != nil {
		return Rows{}, err
	}
	if r.Intervention, err = collect[InterventionRow](ctx, tx, qInterventionRows); err != nil {
		return Rows{}, err
	}
	if r.Characterization, err = collect[CharacterizationRow](ctx, tx, qCharacterization); err != nil {
		return Rows{}, err
	}
	if r.Materials, err = collect[units.MaterialFactor](ctx, tx, qMaterials); err != nil {
		return Rows{}, err
	}

	return r, nil
}

func collect[T any](ctx context.Context, tx pgx.Tx, query string) ([]T, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgstore: query: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("pgstore: scan: %w", err)
	}

	return out, nil
}
