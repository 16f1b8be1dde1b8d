// Package pgstore persists roster snapshots in Postgres. Save replaces the
// players and teams tables inside a single transaction, so a snapshot is
// either fully committed or not at all.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/team"
)

// Store is a Postgres-backed persistence store.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database, verifies the connection, and ensures the
// schema exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			position   INT PRIMARY KEY,
			game_id    TEXT NOT NULL UNIQUE,
			game_class TEXT NOT NULL,
			selected   BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE TABLE IF NOT EXISTS teams (
			position INT PRIMARY KEY,
			captain  TEXT NOT NULL,
			members  TEXT[] NOT NULL
		)`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Load reads the full snapshot, preserving insertion order.
func (s *Store) Load(ctx context.Context) ([]roster.Player, []team.Team, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT game_id, game_class, selected
		FROM players
		ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	players := []roster.Player{}
	for rows.Next() {
		var p roster.Player
		if err := rows.Scan(&p.ID, &p.Class, &p.Selected); err != nil {
			return nil, nil, fmt.Errorf("scanning player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating player rows: %w", err)
	}

	teamRows, err := s.pool.Query(ctx, `
		SELECT captain, members
		FROM teams
		ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying teams: %w", err)
	}
	defer teamRows.Close()

	teams := []team.Team{}
	for teamRows.Next() {
		var t team.Team
		if err := teamRows.Scan(&t.Captain, &t.Members); err != nil {
			return nil, nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := teamRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return players, teams, nil
}

// Save replaces both tables with the given snapshot in one transaction.
func (s *Store) Save(ctx context.Context, players []roster.Player, teams []team.Team) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("clearing players: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM teams`); err != nil {
		return fmt.Errorf("clearing teams: %w", err)
	}

	for i, p := range players {
		_, err := tx.Exec(ctx, `
			INSERT INTO players (position, game_id, game_class, selected)
			VALUES ($1, $2, $3, $4)`,
			i, p.ID, p.Class, p.Selected)
		if err != nil {
			return fmt.Errorf("inserting player %s: %w", p.ID, err)
		}
	}

	for i, t := range teams {
		_, err := tx.Exec(ctx, `
			INSERT INTO teams (position, captain, members)
			VALUES ($1, $2, $3)`,
			i, t.Captain, t.Members)
		if err != nil {
			return fmt.Errorf("inserting team %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}
