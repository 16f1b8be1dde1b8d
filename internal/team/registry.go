package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/squadup/squadup/internal/roster"
)

// Persister is the snapshot persistence contract the registry flushes to
// after every durable mutation. Implementations live under internal/store.
type Persister interface {
	Load(ctx context.Context) ([]roster.Player, []Team, error)
	Save(ctx context.Context, players []roster.Player, teams []Team) error
	Ping(ctx context.Context) error
}

// Registry owns the list of formed teams and is the only writer of the
// roster's Selected flags. Every mutation follows the same protocol:
// validate, apply in memory, persist a snapshot, and roll the in-memory
// change back if persistence fails, so memory and durable state never
// diverge silently.
type Registry struct {
	// mu is the single writer lock: the validate/mutate/persist sequence
	// of every operation runs under it, so the disjointness check and the
	// flag mutation are atomic with respect to each other.
	mu sync.Mutex

	roster *roster.Store
	store  Persister

	// teamSize is the required total size including the captain.
	// 0 selects the relaxed rule: any size with at least one member.
	teamSize int

	teams []Team
}

// NewRegistry creates a Registry over the given roster and persistence
// backend. teamSize is the total team size including the captain; pass 0
// for the relaxed rule (captain plus at least one member).
func NewRegistry(r *roster.Store, store Persister, teamSize int) *Registry {
	return &Registry{roster: r, store: store, teamSize: teamSize}
}

// Load hydrates the roster and team list from the persistence backend.
// Called once at startup, before the registry is shared.
func (g *Registry) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	players, teams, err := g.store.Load(ctx)
	if err != nil {
		return &PersistError{Op: "load", Err: err}
	}
	g.roster.Replace(players)
	g.teams = make([]Team, len(teams))
	for i, t := range teams {
		g.teams[i] = t.clone()
	}
	return nil
}

// Teams returns a copy of all formed teams in creation order.
func (g *Registry) Teams() []Team {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.teamsLocked()
}

func (g *Registry) teamsLocked() []Team {
	out := make([]Team, len(g.teams))
	for i, t := range g.teams {
		out[i] = t.clone()
	}
	return out
}

// FormTeam validates and forms a new team from a captain and the remaining
// members (the captain must not be repeated in members). On success the
// team is appended, every member's Selected flag is set, and the snapshot
// is persisted.
//
// Validation order is fixed so callers get deterministic errors: size,
// then existence, then cross-team disjointness, then duplicates within
// the submission itself.
func (g *Registry) FormTeam(ctx context.Context, captain string, members []string) (Team, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	all := make([]string, 0, 1+len(members))
	all = append(all, captain)
	all = append(all, members...)

	if g.teamSize > 0 {
		if len(all) != g.teamSize {
			return Team{}, &SizeError{Want: g.teamSize, Got: len(all)}
		}
	} else if len(all) < 2 {
		return Team{}, &SizeError{Got: len(all)}
	}

	for _, id := range all {
		if !g.roster.Exists(id) {
			return Team{}, &UnknownPlayerError{ID: id}
		}
	}

	assigned := g.assignedSet()
	var taken []string
	for _, id := range all {
		if assigned[id] {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return Team{}, &AlreadyAssignedError{IDs: taken}
	}

	seen := make(map[string]bool, len(all))
	var dups []string
	for _, id := range all {
		if seen[id] {
			dups = append(dups, id)
		}
		seen[id] = true
	}
	if len(dups) > 0 {
		return Team{}, &AlreadyAssignedError{IDs: dups}
	}

	formed := Team{Captain: captain, Members: all}
	g.teams = append(g.teams, formed)
	if err := g.roster.SetSelected(all, true); err != nil {
		// Unreachable after the existence check above; restore the list
		// rather than continue with a half-applied mutation.
		g.teams = g.teams[:len(g.teams)-1]
		return Team{}, fmt.Errorf("marking members selected: %w", err)
	}

	if err := g.flush(ctx, "form team"); err != nil {
		g.teams = g.teams[:len(g.teams)-1]
		if rbErr := g.roster.SetSelected(all, false); rbErr != nil {
			slog.Error("rollback of selected flags failed", "error", rbErr)
		}
		return Team{}, err
	}

	return formed.clone(), nil
}

// Disband removes the team at the given 1-based index, clears its members'
// Selected flags, and persists the snapshot.
func (g *Registry) Disband(ctx context.Context, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index < 1 || index > len(g.teams) {
		return &IndexError{Index: index, Count: len(g.teams)}
	}

	i := index - 1
	removed := g.teams[i]
	g.teams = append(g.teams[:i], g.teams[i+1:]...)
	if err := g.roster.SetSelected(removed.Members, false); err != nil {
		// Members deleted from the roster while assigned; clear what we can
		// and keep going, the team itself is already gone.
		slog.Warn("disband found members missing from roster", "error", err)
		for _, id := range removed.Members {
			if g.roster.Exists(id) {
				_ = g.roster.SetSelected([]string{id}, false)
			}
		}
	}

	if err := g.flush(ctx, "disband team"); err != nil {
		g.teams = append(g.teams[:i], append([]Team{removed}, g.teams[i:]...)...)
		for _, id := range removed.Members {
			if g.roster.Exists(id) {
				_ = g.roster.SetSelected([]string{id}, true)
			}
		}
		return err
	}

	return nil
}

// ResetSelections clears every player's Selected flag, regardless of the
// team list, and persists the snapshot. Idempotent admin bulk action.
func (g *Registry) ResetSelections(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev := g.roster.SelectedIDs()
	g.roster.ResetAllSelections()

	if err := g.flush(ctx, "reset selections"); err != nil {
		if rbErr := g.roster.SetSelected(prev, true); rbErr != nil {
			slog.Error("rollback of selection reset failed", "error", rbErr)
		}
		return err
	}
	return nil
}

// AddPlayer adds a new roster entry with Selected=false and persists.
func (g *Registry) AddPlayer(ctx context.Context, id, class string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.roster.Add(id, class); err != nil {
		return err
	}
	if err := g.flush(ctx, "add player"); err != nil {
		if _, _, rbErr := g.roster.Remove(id); rbErr != nil {
			slog.Error("rollback of player add failed", "error", rbErr)
		}
		return err
	}
	return nil
}

// UpdatePlayer changes a player's class and persists.
func (g *Registry) UpdatePlayer(ctx context.Context, id, class string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev, err := g.roster.SetClass(id, class)
	if err != nil {
		return err
	}
	if err := g.flush(ctx, "update player"); err != nil {
		if _, rbErr := g.roster.SetClass(id, prev); rbErr != nil {
			slog.Error("rollback of player update failed", "error", rbErr)
		}
		return err
	}
	return nil
}

// RemovePlayer deletes a roster entry and persists. Players currently on
// a team cannot be removed; disband the team first.
func (g *Registry) RemovePlayer(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.assignedSet()[id] {
		return &AlreadyAssignedError{IDs: []string{id}}
	}
	removed, pos, err := g.roster.Remove(id)
	if err != nil {
		return err
	}
	if err := g.flush(ctx, "remove player"); err != nil {
		g.roster.Restore(pos, removed)
		return err
	}
	return nil
}

// assignedSet collects every id that appears in any team's member list.
func (g *Registry) assignedSet() map[string]bool {
	assigned := make(map[string]bool)
	for _, t := range g.teams {
		for _, id := range t.Members {
			assigned[id] = true
		}
	}
	return assigned
}

// flush persists the current snapshot, wrapping failures as PersistError.
// Callers hold mu.
func (g *Registry) flush(ctx context.Context, op string) error {
	if err := g.store.Save(ctx, g.roster.List(), g.teamsLocked()); err != nil {
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

// IsValidationError reports whether err is one of the registry's
// validation errors (as opposed to a persistence failure).
func IsValidationError(err error) bool {
	var se *SizeError
	var ue *UnknownPlayerError
	var ae *AlreadyAssignedError
	var ie *IndexError
	return errors.As(err, &se) || errors.As(err, &ue) || errors.As(err, &ae) || errors.As(err, &ie)
}
