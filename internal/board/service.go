package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/store"
)

var (
	// ErrEmptyName rejects blank or whitespace-only board names.
	ErrEmptyName = errors.New("board: name must not be empty")
	// ErrNoChange rejects a rename to the board's current name.
	ErrNoChange = errors.New("board: name unchanged")
	// ErrLastBoard refuses deletion of the only remaining board.
	ErrLastBoard = errors.New("board: cannot delete the last board")
)

// Service applies board operations against the configured backing store,
// keeping positions unique and contiguous from zero per owner.
type Service struct {
	boards store.BoardStore
	rows   store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a Service. rows is used to rewrite project membership
// when boards are renamed or deleted.
func NewService(boards store.BoardStore, rows store.Store, logger *zap.Logger) *Service {
	return &Service{boards: boards, rows: rows, logger: logger, now: time.Now}
}

// List returns the owner's boards in position order, seeding the default
// set when the owner has none.
func (s *Service) List(ownerID string) ([]store.Board, error) {
	boards, err := s.boards.ListBoards(ownerID)
	if err != nil {
		return nil, err
	}
	if len(boards) > 0 {
		return boards, nil
	}
	return s.seed(ownerID)
}

func (s *Service) seed(ownerID string) ([]store.Board, error) {
	now := s.now().UnixMilli()
	seeded := make([]store.Board, 0, len(DefaultBoards))
	for i, name := range DefaultBoards {
		b := store.Board{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			Name:      name,
			Position:  i,
			CreatedAt: now,
		}
		if err := s.boards.InsertBoard(&b); err != nil {
			return nil, fmt.Errorf("seed boards: %w", err)
		}
		seeded = append(seeded, b)
	}
	s.logger.Info("seeded default boards", zap.String("owner", ownerID))
	return seeded, nil
}

// Add appends a new board at the end of the owner's set.
func (s *Service) Add(ownerID, name string) (*store.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	boards, err := s.List(ownerID)
	if err != nil {
		return nil, err
	}
	b := store.Board{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Position:  len(boards),
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.boards.InsertBoard(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Rename updates a board's name and rewrites the embedded marker on every
// project still encoding membership by the old slug, so grouping stays
// stable across the rename. A rewrite failure is reported, never silent.
func (s *Service) Rename(ownerID, boardID, newName string) (*store.Board, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrEmptyName
	}
	boards, err := s.List(ownerID)
	if err != nil {
		return nil, err
	}
	var target *store.Board
	for i := range boards {
		if boards[i].ID == boardID {
			target = &boards[i]
			break
		}
	}
	if target == nil {
		return nil, store.ErrNotFound
	}
	if target.Name == newName {
		return nil, ErrNoChange
	}

	oldSlug := Slugify(target.Name)
	target.Name = newName
	if err := s.boards.UpdateBoard(target); err != nil {
		return nil, err
	}

	projects, err := s.rows.ListProjects(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects for marker rewrite: %w", err)
	}
	rewritten := 0
	for _, p := range projects {
		if ExtractSlug(p) != oldSlug {
			continue
		}
		desc := InjectMarker(p.Description, newName)
		if err := s.rows.UpdateProject(ownerID, p.ID, store.ProjectPatch{Description: &desc}); err != nil {
			return nil, fmt.Errorf("rename rewrote %d project markers, then failed on %s: %w",
				rewritten, p.ID, err)
		}
		rewritten++
	}
	if rewritten > 0 {
		s.logger.Info("rewrote board markers",
			zap.String("board", boardID), zap.Int("projects", rewritten))
	}
	return target, nil
}

// Delete removes a board. The last remaining board is never deleted.
// Member projects have their explicit membership cleared; they resolve to
// the new first board through the resolution fallback.
func (s *Service) Delete(ownerID, boardID string) error {
	boards, err := s.List(ownerID)
	if err != nil {
		return err
	}
	if len(boards) <= 1 {
		return ErrLastBoard
	}
	found := false
	for _, b := range boards {
		if b.ID == boardID {
			found = true
			break
		}
	}
	if !found {
		return store.ErrNotFound
	}
	if err := s.boards.DeleteBoard(ownerID, boardID); err != nil {
		return err
	}

	projects, err := s.rows.ListProjects(ownerID)
	if err != nil {
		return fmt.Errorf("list projects after board delete: %w", err)
	}
	empty := ""
	for _, p := range projects {
		if p.BoardID != boardID {
			continue
		}
		if err := s.rows.UpdateProject(ownerID, p.ID, store.ProjectPatch{BoardID: &empty}); err != nil {
			return fmt.Errorf("clear board membership on %s: %w", p.ID, err)
		}
	}

	// Re-pack positions so they stay contiguous from 0.
	remaining, err := s.boards.ListBoards(ownerID)
	if err != nil {
		return err
	}
	var changed []store.Board
	for i := range remaining {
		if remaining[i].Position != i {
			remaining[i].Position = i
			changed = append(changed, remaining[i])
		}
	}
	if len(changed) > 0 {
		return s.boards.UpsertBoards(ownerID, changed)
	}
	return nil
}

// Move swaps a board's position with its neighbor. Boundary moves are
// no-ops.
func (s *Service) Move(ownerID, boardID string, dir Direction) ([]store.Board, error) {
	boards, err := s.List(ownerID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, b := range boards {
		if b.ID == boardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	target := idx - 1
	if dir == Right {
		target = idx + 1
	}
	if target < 0 || target >= len(boards) {
		return boards, nil
	}
	boards[idx].Position, boards[target].Position = boards[target].Position, boards[idx].Position
	if err := s.boards.UpsertBoards(ownerID, []store.Board{boards[idx], boards[target]}); err != nil {
		return nil, err
	}
	boards[idx], boards[target] = boards[target], boards[idx]
	return boards, nil
}

// Grouped returns the owner's projects partitioned by board id, plus the
// boards themselves in position order.
func (s *Service) Grouped(ownerID string) ([]store.Board, map[string][]store.Project, error) {
	boards, err := s.List(ownerID)
	if err != nil {
		return nil, nil, err
	}
	projects, err := s.rows.ListProjects(ownerID)
	if err != nil {
		return nil, nil, err
	}
	return boards, GroupByBoard(projects, boards), nil
}

// MoveProject swaps a project with its neighbor inside its resolved group
// and returns the group's new ordering. Membership never changes here;
// the ordering is a view concern and is returned rather than persisted.
func (s *Service) MoveProject(ownerID, boardID, projectID string, dir Direction) ([]store.Project, error) {
	boards, grouped, err := s.Grouped(ownerID)
	if err != nil {
		return nil, err
	}
	var target *store.Board
	for i := range boards {
		if boards[i].ID == boardID {
			target = &boards[i]
			break
		}
	}
	if target == nil {
		return nil, store.ErrNotFound
	}
	return MoveProjectInGroup(grouped[target.ID], projectID, dir), nil
}
