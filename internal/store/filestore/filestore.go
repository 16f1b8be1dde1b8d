// Package filestore persists roster snapshots as a local file pair:
// players.csv and teams.json under a single data directory. Existing data
// files from the original deployment load as-is.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/store"
	"github.com/squadup/squadup/internal/team"
)

const (
	playersFile = "players.csv"
	teamsFile   = "teams.json"
)

// Store persists snapshots under a single data directory.
type Store struct {
	dir string
}

// New creates a file-backed store, creating the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load reads both files. Missing files yield empty state rather than an
// error, so a fresh data directory starts the service empty.
func (s *Store) Load(_ context.Context) ([]roster.Player, []team.Team, error) {
	playersData, err := s.readFile(playersFile)
	if err != nil {
		return nil, nil, err
	}
	players, err := store.DecodePlayersCSV(playersData)
	if err != nil {
		return nil, nil, err
	}

	teamsData, err := s.readFile(teamsFile)
	if err != nil {
		return nil, nil, err
	}
	teams, err := store.DecodeTeamsJSON(teamsData)
	if err != nil {
		return nil, nil, err
	}

	return players, teams, nil
}

// Save writes both files atomically (temp file + rename per file).
func (s *Store) Save(_ context.Context, players []roster.Player, teams []team.Team) error {
	playersData, err := store.EncodePlayersCSV(players)
	if err != nil {
		return err
	}
	teamsData, err := store.EncodeTeamsJSON(teams)
	if err != nil {
		return err
	}

	if err := s.writeFile(playersFile, playersData); err != nil {
		return err
	}
	return s.writeFile(teamsFile, teamsData)
}

// Ping verifies the data directory is present and is a directory.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

// readFile returns nil content for a missing file.
func (s *Store) readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) writeFile(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
