package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// LocalBoardStore keeps board definitions in per-owner JSON files under
// the data directory, keyed "pollen-boards-<ownerID>". It is the
// offline-first alternative to the boards table, selected at startup.
type LocalBoardStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalBoardStore creates the backing directory if needed.
func NewLocalBoardStore(dataDir string) (*LocalBoardStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &LocalBoardStore{dir: dataDir}, nil
}

func (s *LocalBoardStore) path(ownerID string) string {
	return filepath.Join(s.dir, "pollen-boards-"+ownerID+".json")
}

func (s *LocalBoardStore) load(ownerID string) ([]Board, error) {
	data, err := os.ReadFile(s.path(ownerID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read boards: %w", err)
	}
	var boards []Board
	if err := json.Unmarshal(data, &boards); err != nil {
		return nil, fmt.Errorf("decode boards: %w", err)
	}
	return boards, nil
}

func (s *LocalBoardStore) save(ownerID string, boards []Board) error {
	data, err := json.MarshalIndent(boards, "", "  ")
	if err != nil {
		return fmt.Errorf("encode boards: %w", err)
	}
	if err := os.WriteFile(s.path(ownerID), data, 0644); err != nil {
		return fmt.Errorf("write boards: %w", err)
	}
	return nil
}

func (s *LocalBoardStore) ListBoards(ownerID string) ([]Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(boards, func(i, j int) bool {
		return boards[i].Position < boards[j].Position
	})
	return boards, nil
}

func (s *LocalBoardStore) InsertBoard(b *Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards, err := s.load(b.OwnerID)
	if err != nil {
		return err
	}
	boards = append(boards, *b)
	return s.save(b.OwnerID, boards)
}

func (s *LocalBoardStore) UpdateBoard(b *Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards, err := s.load(b.OwnerID)
	if err != nil {
		return err
	}
	for i := range boards {
		if boards[i].ID == b.ID {
			boards[i].Name = b.Name
			boards[i].Position = b.Position
			return s.save(b.OwnerID, boards)
		}
	}
	return ErrNotFound
}

func (s *LocalBoardStore) DeleteBoard(ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards, err := s.load(ownerID)
	if err != nil {
		return err
	}
	kept := boards[:0]
	found := false
	for _, b := range boards {
		if b.ID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return ErrNotFound
	}
	return s.save(ownerID, kept)
}

func (s *LocalBoardStore) UpsertBoards(ownerID string, upserts []Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards, err := s.load(ownerID)
	if err != nil {
		return err
	}
	byID := make(map[string]int, len(boards))
	for i, b := range boards {
		byID[b.ID] = i
	}
	for _, u := range upserts {
		if i, ok := byID[u.ID]; ok {
			boards[i].Name = u.Name
			boards[i].Position = u.Position
		} else {
			boards = append(boards, u)
		}
	}
	return s.save(ownerID, boards)
}
