package roster

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateID is returned when adding a player whose id already exists.
var ErrDuplicateID = errors.New("player id already exists")

// ErrPlayerNotFound is returned when an operation references an unknown player.
var ErrPlayerNotFound = errors.New("player not found")

// Store is the in-memory player table. It is the source of truth for
// player availability; the Selected flag is written only through the
// team registry (or the admin reset), never directly by callers.
type Store struct {
	mu      sync.Mutex
	players []Player
	index   map[string]int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Replace swaps the entire roster for the given players, preserving their
// order. Used when hydrating from a persistence backend.
func (s *Store) Replace(players []Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make([]Player, len(players))
	copy(s.players, players)
	s.index = make(map[string]int, len(players))
	for i, p := range s.players {
		s.index[p.ID] = i
	}
}

// List returns a copy of all players in insertion order.
func (s *Store) List() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Player, len(s.players))
	copy(out, s.players)
	return out
}

// ListAvailable returns a copy of all players whose Selected flag is false,
// in insertion order.
func (s *Store) ListAvailable() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		if !p.Selected {
			out = append(out, p)
		}
	}
	return out
}

// Exists reports whether a player with the given id is on the roster.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.index[id]
	return ok
}

// ClassOf returns the class of the given player, or UnknownClass when the
// id is not on the roster. It never fails.
func (s *Store) ClassOf(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return UnknownClass
	}
	return s.players[i].Class
}

// SetSelected bulk-updates the Selected flag for the given ids. The update
// is atomic: if any id is unknown the whole operation fails with
// ErrPlayerNotFound and no flag changes.
func (s *Store) SetSelected(ids []string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.index[id]; !ok {
			return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
	}
	for _, id := range ids {
		s.players[s.index[id]].Selected = value
	}
	return nil
}

// SelectedIDs returns the ids of all players whose Selected flag is true.
func (s *Store) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, p := range s.players {
		if p.Selected {
			out = append(out, p.ID)
		}
	}
	return out
}

// ResetAllSelections sets every player's Selected flag to false.
func (s *Store) ResetAllSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.players {
		s.players[i].Selected = false
	}
}

// Add appends a new player with Selected=false. Returns ErrDuplicateID if
// the id is already taken.
func (s *Store) Add(id, class string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	s.players = append(s.players, Player{ID: id, Class: class})
	s.index[id] = len(s.players) - 1
	return nil
}

// Get returns the player with the given id.
func (s *Store) Get(id string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return s.players[i], nil
}

// SetClass updates a player's class and returns the previous class.
func (s *Store) SetClass(id, class string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	prev := s.players[i].Class
	s.players[i].Class = class
	return prev, nil
}

// Remove deletes the player with the given id, preserving the order of the
// remaining players. Returns the removed player and its position so the
// caller can restore it on a failed transaction.
func (s *Store) Remove(id string) (Player, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return Player{}, 0, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	removed := s.players[i]
	s.players = append(s.players[:i], s.players[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.players); j++ {
		s.index[s.players[j].ID] = j
	}
	return removed, i, nil
}

// Restore re-inserts a previously removed player at its original position.
// The position is clamped to the current roster size.
func (s *Store) Restore(pos int, p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 0 {
		pos = 0
	}
	if pos > len(s.players) {
		pos = len(s.players)
	}
	s.players = append(s.players[:pos], append([]Player{p}, s.players[pos:]...)...)
	for j := pos; j < len(s.players); j++ {
		s.index[s.players[j].ID] = j
	}
}
