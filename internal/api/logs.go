package api

import (
	"encoding/json"
	"net/http"

	"github.com/pollenhq/pollen/internal/worklog"
)

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	logs, err := s.logs.List(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var in worklog.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	l, err := s.logs.Create(u.ID, in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Title  string `json:"title"`
		Impact string `json:"impact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.logs.Update(u.ID, r.PathValue("id"), req.Title, req.Impact); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if err := s.logs.Delete(u.ID, r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveLog(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Index     int               `json:"index"`
		Direction worklog.Direction `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Direction != worklog.Up && req.Direction != worklog.Down {
		writeError(w, http.StatusBadRequest, "direction must be up or down")
		return
	}
	logs, err := s.logs.Move(u.ID, req.Index, req.Direction)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
