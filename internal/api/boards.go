package api

import (
	"encoding/json"
	"net/http"

	"github.com/pollenhq/pollen/internal/board"
	"github.com/pollenhq/pollen/internal/store"
)

func parseBoardDirection(raw string) (board.Direction, bool) {
	d := board.Direction(raw)
	return d, d == board.Left || d == board.Right
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	boards, err := s.boards.List(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// boardGroup is one board with its member projects, emitted in board order.
type boardGroup struct {
	Board    store.Board     `json:"board"`
	Projects []store.Project `json:"projects"`
}

func (s *Server) handleGroupedBoards(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	boards, groups, err := s.boards.Grouped(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]boardGroup, 0, len(boards))
	for _, b := range boards {
		projects := groups[b.ID]
		if projects == nil {
			projects = []store.Project{}
		}
		out = append(out, boardGroup{Board: b, Projects: projects})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddBoard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	b, err := s.boards.Add(u.ID, req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleRenameBoard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	b, err := s.boards.Rename(u.ID, r.PathValue("id"), req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if err := s.boards.Delete(u.ID, r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveBoard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	dir, ok := parseBoardDirection(req.Direction)
	if !ok {
		writeError(w, http.StatusBadRequest, "direction must be left or right")
		return
	}
	boards, err := s.boards.Move(u.ID, r.PathValue("id"), dir)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleMoveProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	dir, ok := parseBoardDirection(req.Direction)
	if !ok {
		writeError(w, http.StatusBadRequest, "direction must be left or right")
		return
	}
	projects, err := s.boards.MoveProject(u.ID, r.PathValue("id"), r.PathValue("pid"), dir)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}
