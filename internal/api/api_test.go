package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/auth"
	"github.com/pollenhq/pollen/internal/board"
	"github.com/pollenhq/pollen/internal/report"
	"github.com/pollenhq/pollen/internal/store"
	"github.com/pollenhq/pollen/internal/worklog"
)

type stubSummarizer struct {
	text string
	err  error
}

func (s *stubSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func newTestServer(t *testing.T, summarizer report.Summarizer) *httptest.Server {
	t.Helper()
	rows, err := store.OpenSQLite(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { rows.Close() })

	logger := zap.NewNop()
	var generator *report.Generator
	if summarizer != nil {
		generator = report.NewGenerator(summarizer, logger)
	}
	srv := NewServer(rows, auth.NewService(rows, logger), board.NewService(rows, rows, logger),
		worklog.NewService(rows, logger), generator, logger)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t      *testing.T
	base   string
	http   *http.Client
	cookie *http.Cookie
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	return &client{t: t, base: ts.URL, http: ts.Client()}
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie && ck.MaxAge > 0 {
			c.cookie = ck
		}
	}
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (c *client) signUp(email string) {
	c.t.Helper()
	resp := c.do("POST", "/api/signup", map[string]string{"email": email, "password": "hunter2hunter2"})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	require.NotNil(c.t, c.cookie)
}

func validLogBody(title string) map[string]any {
	return map[string]any{
		"title": title, "impact": "done well",
		"category": "Design", "status": "Done", "time_spent": 30,
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)

	for _, path := range []string{"/api/logs", "/api/projects", "/api/boards", "/api/me"} {
		resp := c.do("GET", path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestSignUpLoginLogoutFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)

	c.signUp("ada@example.com")

	resp := c.do("GET", "/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[store.User](t, resp)
	assert.Equal(t, "ada@example.com", me.Email)

	resp = c.do("POST", "/api/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do("GET", "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Fresh login works after logout.
	fresh := newClient(t, ts)
	resp = fresh.do("POST", "/api/login", map[string]string{"email": "ada@example.com", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = fresh.do("POST", "/api/login", map[string]string{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignUpConflictsAndValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	other := newClient(t, ts)
	resp := other.do("POST", "/api/signup", map[string]string{"email": "ada@example.com", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = other.do("POST", "/api/signup", map[string]string{"email": "bad", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = other.do("POST", "/api/signup", map[string]string{"email": "ok@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	resp := c.do("POST", "/api/logs", validLogBody("first"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[store.WorkLog](t, resp)
	assert.Equal(t, 0, created.SortOrder)

	resp = c.do("POST", "/api/logs", validLogBody("second"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.do("GET", "/api/logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logs := decode[[]store.WorkLog](t, resp)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Title)

	resp = c.do("PUT", "/api/logs/"+created.ID, map[string]string{"title": "renamed", "impact": "still good"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do("POST", "/api/logs/move", map[string]any{"index": 1, "direction": "up"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := decode[[]store.WorkLog](t, resp)
	assert.Equal(t, "renamed", moved[0].Title)

	resp = c.do("DELETE", "/api/logs/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = c.do("DELETE", "/api/logs/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogValidationErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	body := validLogBody("x")
	body["category"] = "Yodeling"
	resp := c.do("POST", "/api/logs", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do("POST", "/api/logs/move", map[string]any{"index": 0, "direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectAndBoardFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	resp := c.do("GET", "/api/boards", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	boards := decode[[]store.Board](t, resp)
	require.Len(t, boards, len(board.DefaultBoards))

	resp = c.do("POST", "/api/projects", map[string]string{
		"name": "Pollen", "description": "Q1 work [board:enterprise]",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decode[store.Project](t, resp)
	assert.NotEmpty(t, project.Color)

	resp = c.do("GET", "/api/boards/grouped", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	groups := decode[[]boardGroup](t, resp)
	require.Len(t, groups, len(board.DefaultBoards))
	assert.Equal(t, "Enterprise", groups[1].Board.Name)
	require.Len(t, groups[1].Projects, 1)
	assert.Equal(t, project.ID, groups[1].Projects[0].ID)

	// Explicit membership moves the project off the marker's board.
	resp = c.do("PUT", "/api/projects/"+project.ID, map[string]string{"board_id": boards[0].ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.do("GET", "/api/boards/grouped", nil)
	groups = decode[[]boardGroup](t, resp)
	require.Len(t, groups[0].Projects, 1)
	assert.Empty(t, groups[1].Projects)
}

func TestBoardEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	resp := c.do("GET", "/api/boards", nil)
	boards := decode[[]store.Board](t, resp)

	resp = c.do("POST", "/api/boards", map[string]string{"name": "Platform"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.do("POST", "/api/boards", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do("PUT", "/api/boards/"+boards[0].ID, map[string]string{"name": boards[0].Name})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do("POST", "/api/boards/"+boards[1].ID+"/move", map[string]string{"direction": "left"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := decode[[]store.Board](t, resp)
	assert.Equal(t, boards[1].ID, moved[0].ID)

	for _, b := range boards {
		c.do("DELETE", "/api/boards/"+b.ID, nil)
	}
	resp = c.do("GET", "/api/boards", nil)
	remaining := decode[[]store.Board](t, resp)
	require.Len(t, remaining, 1)
	resp = c.do("DELETE", "/api/boards/"+remaining[0].ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestProfileEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	resp := c.do("GET", "/api/profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[store.Profile](t, resp)
	assert.Equal(t, "ada", profile.Name)

	resp = c.do("PUT", "/api/profile", map[string]string{
		"name": "Ada L.", "accent_color": "green", "reminder_time": "09:30",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[store.Profile](t, resp)
	assert.Equal(t, store.AccentGreen, updated.AccentColor)

	resp = c.do("PUT", "/api/profile", map[string]string{"name": "Ada", "accent_color": "chartreuse"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	c.do("POST", "/api/logs", validLogBody("one"))
	c.do("POST", "/api/logs", validLogBody("two"))

	resp := c.do("GET", "/api/analytics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[worklog.Summary](t, resp)
	assert.Equal(t, 2, sum.TotalLogs)
	assert.Equal(t, 60, sum.TodayMinutes)
	assert.Equal(t, 1, sum.StreakDays)
}

func TestGenerateReport(t *testing.T) {
	ts := newTestServer(t, &stubSummarizer{text: "**Key Accomplishments**\n- shipped"})
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	// Below the minimum the endpoint resolves to the canned message.
	resp := c.do("POST", "/api/reports/generate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[report.Result](t, resp)
	assert.Equal(t, report.InsufficientDataMessage, res.Text)

	for i := 0; i < 3; i++ {
		c.do("POST", "/api/logs", validLogBody(fmt.Sprintf("log %d", i)))
	}
	resp = c.do("POST", "/api/reports/generate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res = decode[report.Result](t, resp)
	assert.Equal(t, report.StateSucceeded, res.State)
	assert.Equal(t, "Key Accomplishments\n• shipped", res.Text)
}

func TestGenerateReportErrorsResolveToFallback(t *testing.T) {
	ts := newTestServer(t, &stubSummarizer{err: errors.New("quota exhausted")})
	c := newClient(t, ts)
	c.signUp("ada@example.com")
	for i := 0; i < 3; i++ {
		c.do("POST", "/api/logs", validLogBody(fmt.Sprintf("log %d", i)))
	}

	resp := c.do("POST", "/api/reports/generate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[report.Result](t, resp)
	assert.Equal(t, report.StateFailedError, res.State)
	assert.Contains(t, res.Text, "quota exhausted")
}

func TestGenerateReportWithoutSummarizer(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	resp := c.do("POST", "/api/reports/generate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[report.Result](t, resp)
	assert.Contains(t, res.Text, "Can't generate report right now.")
}

func TestWeeklyReportEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newClient(t, ts)
	c.signUp("ada@example.com")

	body := validLogBody("blocked thing")
	body["status"] = "Blocked"
	c.do("POST", "/api/logs", body)
	c.do("POST", "/api/logs", validLogBody("done thing"))

	resp := c.do("GET", "/api/reports/weekly", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	weekly := decode[weeklyReport](t, resp)
	assert.Equal(t, report.WindowDays, weekly.WindowDays)
	assert.Len(t, weekly.Buckets.Done, 1)
	assert.Len(t, weekly.Buckets.Blocked, 1)
}
