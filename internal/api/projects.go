package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pollenhq/pollen/internal/store"
)

type projectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardID     string `json:"board_id"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	projects, err := s.rows.ListProjects(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	var req projectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	existing, err := s.rows.ListProjects(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	p := &store.Project{
		ID:          uuid.NewString(),
		OwnerID:     u.ID,
		Name:        req.Name,
		Description: req.Description,
		BoardID:     req.BoardID,
		Color:       store.ProjectColors[len(existing)%len(store.ProjectColors)],
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := s.rows.InsertProject(p); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id := r.PathValue("id")
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		BoardID     *string `json:"board_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "name required")
			return
		}
		req.Name = &trimmed
	}
	patch := store.ProjectPatch{Name: req.Name, Description: req.Description, BoardID: req.BoardID}
	if err := s.rows.UpdateProject(u.ID, id, patch); err != nil {
		s.writeServiceError(w, err)
		return
	}
	p, err := s.rows.GetProject(u.ID, id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if err := s.rows.DeleteProject(u.ID, r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
