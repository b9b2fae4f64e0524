package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pollenhq/pollen/internal/store"
	"github.com/pollenhq/pollen/internal/worklog"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	p, err := s.rows.GetProfile(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Name         string            `json:"name"`
		AvatarURL    string            `json:"avatar_url"`
		AccentColor  store.AccentColor `json:"accent_color"`
		ReminderTime string            `json:"reminder_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if !store.ValidAccent(req.AccentColor) {
		writeError(w, http.StatusBadRequest, "unknown accent color")
		return
	}
	p := &store.Profile{
		ID:           u.ID,
		Name:         req.Name,
		Email:        u.Email,
		AvatarURL:    req.AvatarURL,
		AccentColor:  req.AccentColor,
		ReminderTime: req.ReminderTime,
	}
	if err := s.rows.UpsertProfile(p); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	logs, err := s.logs.List(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, worklog.Summarize(logs, s.now()))
}
