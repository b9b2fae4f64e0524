package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/store"
)

// Sender delivers one reminder email.
type Sender interface {
	SendReminder(to, name string) error
}

// Scheduler checks once a minute whether any profile's reminder time has
// come around and nudges owners who have not logged anything today. At
// most one reminder goes out per profile per day.
type Scheduler struct {
	rows   store.Store
	sender Sender
	logger *zap.Logger
	now    func() time.Time

	sent map[string]string // profile id -> day key of last reminder
}

func NewScheduler(rows store.Store, sender Sender, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		rows:   rows,
		sender: sender,
		logger: logger,
		now:    time.Now,
		sent:   make(map[string]string),
	}
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// Tick sends reminders due at now. Exported for tests; Run is the only
// production caller.
func (s *Scheduler) Tick(now time.Time) {
	profiles, err := s.rows.ListProfiles()
	if err != nil {
		s.logger.Warn("list profiles for reminders", zap.Error(err))
		return
	}

	clock := now.Format("15:04")
	day := now.Format("2006-01-02")
	for _, p := range profiles {
		if p.ReminderTime != clock || s.sent[p.ID] == day {
			continue
		}
		if s.loggedToday(p.ID, now) {
			s.sent[p.ID] = day
			continue
		}
		if err := s.sender.SendReminder(p.Email, p.Name); err != nil {
			s.logger.Warn("send reminder", zap.String("profile", p.ID), zap.Error(err))
			continue
		}
		s.sent[p.ID] = day
		s.logger.Info("reminder sent", zap.String("profile", p.ID))
	}
}

func (s *Scheduler) loggedToday(ownerID string, now time.Time) bool {
	logs, err := s.rows.ListLogs(ownerID)
	if err != nil {
		return false
	}
	day := now.Format("2006-01-02")
	for _, l := range logs {
		if time.UnixMilli(l.CreatedAt).In(now.Location()).Format("2006-01-02") == day {
			return true
		}
	}
	return false
}
