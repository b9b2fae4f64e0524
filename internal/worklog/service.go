package worklog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/store"
)

// ErrValidation wraps every input rejection so it is refused before any
// store call and surfaced to the user synchronously.
var ErrValidation = errors.New("worklog: invalid input")

// CreateInput is the user submission for a new log entry.
type CreateInput struct {
	Title     string         `json:"title"`
	Impact    string         `json:"impact"`
	Category  store.Category `json:"category"`
	Status    store.Status   `json:"status"`
	TimeSpent int            `json:"time_spent"`
	Tags      []string       `json:"tags"`
	Links     []string       `json:"links"`
	ProjectID string         `json:"project_id"`
}

func (in *CreateInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Impact = strings.TrimSpace(in.Impact)
	if in.Title == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	if in.Impact == "" {
		return fmt.Errorf("%w: impact required", ErrValidation)
	}
	if !store.ValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if !store.ValidStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.TimeSpent < 0 {
		return fmt.Errorf("%w: time spent must not be negative", ErrValidation)
	}
	return nil
}

// Service runs work log operations against the store. Writes are
// pessimistic: state is persisted before the new view is returned.
type Service struct {
	rows   store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(rows store.Store, logger *zap.Logger) *Service {
	return &Service{rows: rows, logger: logger, now: time.Now}
}

// List returns the owner's logs in display order with a dense manual
// ranking. Normalization is applied to the read; orders are only written
// back when the user reorders.
func (s *Service) List(ownerID string) ([]store.WorkLog, error) {
	logs, err := s.rows.ListLogs(ownerID)
	if err != nil {
		return nil, err
	}
	return Normalize(logs), nil
}

// Create validates and stores a new entry at manual position 0, shifting
// every existing ordered entry down by one.
func (s *Service) Create(ownerID string, in CreateInput) (*store.WorkLog, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.rows.ShiftLogOrders(ownerID); err != nil {
		return nil, err
	}
	l := store.WorkLog{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     in.Title,
		Impact:    in.Impact,
		Category:  in.Category,
		Status:    in.Status,
		TimeSpent: in.TimeSpent,
		Tags:      in.Tags,
		Links:     in.Links,
		ProjectID: in.ProjectID,
		SortOrder: 0,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.rows.InsertLog(&l); err != nil {
		return nil, err
	}
	s.logger.Info("log created", zap.String("owner", ownerID), zap.String("id", l.ID))
	return &l, nil
}

// Update edits the title and impact of an existing entry.
func (s *Service) Update(ownerID, id, title, impact string) error {
	title = strings.TrimSpace(title)
	impact = strings.TrimSpace(impact)
	if title == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	if impact == "" {
		return fmt.Errorf("%w: impact required", ErrValidation)
	}
	return s.rows.UpdateLog(ownerID, id, store.LogPatch{Title: &title, Impact: &impact})
}

// Delete removes an entry from storage entirely.
func (s *Service) Delete(ownerID, id string) error {
	return s.rows.DeleteLog(ownerID, id)
}

// Move swaps the log at index with its neighbor and persists the new
// dense ordering. A boundary move returns the sequence unchanged.
func (s *Service) Move(ownerID string, index int, dir Direction) ([]store.WorkLog, error) {
	logs, err := s.List(ownerID)
	if err != nil {
		return nil, err
	}
	moved := Move(logs, index, dir)
	orders := make(map[string]int, len(moved))
	for _, l := range moved {
		orders[l.ID] = l.SortOrder
	}
	if err := s.rows.SetLogOrders(ownerID, orders); err != nil {
		return nil, err
	}
	return moved, nil
}
