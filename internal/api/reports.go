package api

import (
	"net/http"

	"github.com/pollenhq/pollen/internal/report"
)

// weeklyReport is the raw seven-day window bucketed by status, the data
// a report is generated from.
type weeklyReport struct {
	WindowDays int            `json:"window_days"`
	Buckets    report.Buckets `json:"buckets"`
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	logs, err := s.logs.List(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	windowed := report.Window(logs, s.now())
	writeJSON(w, http.StatusOK, weeklyReport{
		WindowDays: report.WindowDays,
		Buckets:    report.BucketByStatus(windowed),
	})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if s.generator == nil {
		writeJSON(w, http.StatusOK, report.Result{
			Text:  report.Fallback("Summaries are not configured on this server"),
			State: report.StateFailedError,
		})
		return
	}
	if s.generator.Busy() {
		writeError(w, http.StatusConflict, "a report is already being generated")
		return
	}
	logs, err := s.logs.List(u.ID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	windowed := report.Window(logs, s.now())
	writeJSON(w, http.StatusOK, s.generator.Generate(r.Context(), windowed))
}
