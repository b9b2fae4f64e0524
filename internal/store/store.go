// Package store holds the entity model and the row storage contracts.
// Concrete backings are chosen once at startup: sqlite for everything,
// with an optional local JSON file store for boards.
package store

import "errors"

var (
	// ErrNotFound is returned when a row does not exist in the owner's scope.
	ErrNotFound = errors.New("store: not found")
)

// LogPatch is a partial update for a work log. Nil fields are left untouched.
type LogPatch struct {
	Title  *string
	Impact *string
}

// ProjectPatch is a partial update for a project.
type ProjectPatch struct {
	Name        *string
	Description *string
	BoardID     *string
}

// Store is the row accessor for the owner-scoped entities. Every read is
// scoped by owner id; an absent owner simply yields empty results.
type Store interface {
	// Work logs. ListLogs returns rows newest-first by creation time;
	// any manual ordering on top of that is the caller's concern.
	ListLogs(ownerID string) ([]WorkLog, error)
	GetLog(ownerID, id string) (*WorkLog, error)
	InsertLog(l *WorkLog) error
	UpdateLog(ownerID, id string, p LogPatch) error
	DeleteLog(ownerID, id string) error
	// SetLogOrders bulk-writes manual sort positions keyed by log id.
	SetLogOrders(ownerID string, orders map[string]int) error
	// ShiftLogOrders increments every assigned sort position by one,
	// opening slot 0 for a new entry.
	ShiftLogOrders(ownerID string) error

	// Projects, newest-first.
	ListProjects(ownerID string) ([]Project, error)
	GetProject(ownerID, id string) (*Project, error)
	InsertProject(p *Project) error
	UpdateProject(ownerID, id string, patch ProjectPatch) error
	DeleteProject(ownerID, id string) error

	// Profiles are upserted, never multiply created.
	GetProfile(id string) (*Profile, error)
	ListProfiles() ([]Profile, error)
	UpsertProfile(p *Profile) error

	// Users and sessions.
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id string) (*User, error)
	InsertUser(u *User) error
	InsertSession(s *Session) error
	GetSession(token string) (*Session, error)
	DeleteSession(token string) error

	Close() error
}

// BoardStore is split from Store so board definitions can live either in
// the sqlite database or in a per-owner local JSON file.
type BoardStore interface {
	// ListBoards returns the owner's boards ordered by position.
	ListBoards(ownerID string) ([]Board, error)
	InsertBoard(b *Board) error
	UpdateBoard(b *Board) error
	DeleteBoard(ownerID, id string) error
	// UpsertBoards replaces position/name state for the given rows.
	UpsertBoards(ownerID string, boards []Board) error
}
