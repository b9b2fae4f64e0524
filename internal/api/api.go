// Package api exposes the JSON HTTP surface. Write failures surface as
// JSON errors; read failures degrade to empty lists; report generation
// failures resolve to fallback text with status 200.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/auth"
	"github.com/pollenhq/pollen/internal/board"
	"github.com/pollenhq/pollen/internal/report"
	"github.com/pollenhq/pollen/internal/store"
	"github.com/pollenhq/pollen/internal/worklog"
)

// Server wires the services behind the HTTP handlers.
type Server struct {
	rows      store.Store
	auth      *auth.Service
	boards    *board.Service
	logs      *worklog.Service
	generator *report.Generator // nil when no summarizer is configured
	logger    *zap.Logger
	now       func() time.Time
}

// NewServer builds the handler set. generator may be nil; the reports
// endpoints then resolve to fallback text.
func NewServer(rows store.Store, authSvc *auth.Service, boards *board.Service,
	logs *worklog.Service, generator *report.Generator, logger *zap.Logger) *Server {
	return &Server{
		rows:      rows,
		auth:      authSvc,
		boards:    boards,
		logs:      logs,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes mounts every route on mux. Auth routes are public; the
// rest sit behind the session middleware.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/login", s.handleSignIn)
	mux.HandleFunc("POST /api/logout", s.handleSignOut)

	app := http.NewServeMux()
	app.HandleFunc("GET /api/me", s.handleMe)

	app.HandleFunc("GET /api/logs", s.handleListLogs)
	app.HandleFunc("POST /api/logs", s.handleCreateLog)
	app.HandleFunc("PUT /api/logs/{id}", s.handleUpdateLog)
	app.HandleFunc("DELETE /api/logs/{id}", s.handleDeleteLog)
	app.HandleFunc("POST /api/logs/move", s.handleMoveLog)

	app.HandleFunc("GET /api/projects", s.handleListProjects)
	app.HandleFunc("POST /api/projects", s.handleCreateProject)
	app.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	app.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	app.HandleFunc("GET /api/boards", s.handleListBoards)
	app.HandleFunc("GET /api/boards/grouped", s.handleGroupedBoards)
	app.HandleFunc("POST /api/boards", s.handleAddBoard)
	app.HandleFunc("PUT /api/boards/{id}", s.handleRenameBoard)
	app.HandleFunc("DELETE /api/boards/{id}", s.handleDeleteBoard)
	app.HandleFunc("POST /api/boards/{id}/move", s.handleMoveBoard)
	app.HandleFunc("POST /api/boards/{id}/projects/{pid}/move", s.handleMoveProject)

	app.HandleFunc("GET /api/profile", s.handleGetProfile)
	app.HandleFunc("PUT /api/profile", s.handleUpdateProfile)

	app.HandleFunc("GET /api/analytics", s.handleAnalytics)

	app.HandleFunc("GET /api/reports/weekly", s.handleWeeklyReport)
	app.HandleFunc("POST /api/reports/generate", s.handleGenerateReport)

	mux.Handle("/api/", s.sessionMiddleware(app))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, worklog.ErrValidation),
		errors.Is(err, board.ErrEmptyName),
		errors.Is(err, board.ErrNoChange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, board.ErrLastBoard):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
