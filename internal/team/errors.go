package team

import (
	"fmt"
	"strings"
)

// SizeError is returned when a submission does not match the configured
// team size. Want is the configured size; Want == 0 means the relaxed rule
// (captain plus at least one member) was violated.
type SizeError struct {
	Want int
	Got  int
}

func (e *SizeError) Error() string {
	if e.Want == 0 {
		return fmt.Sprintf("a team needs a captain and at least one member, got %d players", e.Got)
	}
	return fmt.Sprintf("a team needs exactly %d players, got %d", e.Want, e.Got)
}

// UnknownPlayerError is returned when a submitted id is not on the roster.
type UnknownPlayerError struct {
	ID string
}

func (e *UnknownPlayerError) Error() string {
	return fmt.Sprintf("player %s does not exist", e.ID)
}

// AlreadyAssignedError is returned when submitted ids are already on a
// team, or appear more than once in the same submission.
type AlreadyAssignedError struct {
	IDs []string
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("players already assigned to a team: %s", strings.Join(e.IDs, ", "))
}

// IndexError is returned when a disband request references a team index
// outside the registry. Index is the 1-based index as submitted.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("no team at index %d (have %d)", e.Index, e.Count)
}

// PersistError wraps a failure from the persistence backend. The in-memory
// mutation that triggered the save has been rolled back by the time this
// error is returned.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting state (%s): %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
