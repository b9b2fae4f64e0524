package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore backs Store and BoardStore with a single sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database under dataDir and
// applies migrations.
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dataDir, "pollen.db")
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			expires_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY REFERENCES users(id),
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			accent_color TEXT NOT NULL DEFAULT 'blue',
			reminder_time TEXT NOT NULL DEFAULT '17:00'
		)`,
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			board_id TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			impact TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			time_spent INTEGER NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '[]',
			links TEXT NOT NULL DEFAULT '[]',
			project_id TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT -1,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_owner ON logs(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(owner_id, position)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Work logs

const logCols = "id, owner_id, title, impact, category, status, time_spent, tags, links, project_id, sort_order, created_at"

func scanLog(row interface{ Scan(...any) error }) (*WorkLog, error) {
	var l WorkLog
	var tags, links string
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Impact, &l.Category, &l.Status,
		&l.TimeSpent, &tags, &links, &l.ProjectID, &l.SortOrder, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &l.Tags); err != nil {
		l.Tags = nil
	}
	if err := json.Unmarshal([]byte(links), &l.Links); err != nil {
		l.Links = nil
	}
	return &l, nil
}

func (s *SQLiteStore) ListLogs(ownerID string) ([]WorkLog, error) {
	rows, err := s.db.Query(
		"SELECT "+logCols+" FROM logs WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()
	var logs []WorkLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) GetLog(ownerID, id string) (*WorkLog, error) {
	l, err := scanLog(s.db.QueryRow(
		"SELECT "+logCols+" FROM logs WHERE owner_id = ? AND id = ?", ownerID, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	return l, nil
}

func (s *SQLiteStore) InsertLog(l *WorkLog) error {
	tags, _ := json.Marshal(emptyIfNil(l.Tags))
	links, _ := json.Marshal(emptyIfNil(l.Links))
	_, err := s.db.Exec(
		"INSERT INTO logs ("+logCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.OwnerID, l.Title, l.Impact, l.Category, l.Status,
		l.TimeSpent, string(tags), string(links), l.ProjectID, l.SortOrder, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateLog(ownerID, id string, p LogPatch) error {
	if p.Title != nil {
		if err := s.updateLogField(ownerID, id, "title", *p.Title); err != nil {
			return err
		}
	}
	if p.Impact != nil {
		if err := s.updateLogField(ownerID, id, "impact", *p.Impact); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) updateLogField(ownerID, id, col, val string) error {
	res, err := s.db.Exec(
		"UPDATE logs SET "+col+" = ? WHERE owner_id = ? AND id = ?", val, ownerID, id)
	if err != nil {
		return fmt.Errorf("update log %s: %w", col, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteLog(ownerID, id string) error {
	res, err := s.db.Exec("DELETE FROM logs WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SetLogOrders(ownerID string, orders map[string]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	for id, ord := range orders {
		if _, err := tx.Exec(
			"UPDATE logs SET sort_order = ? WHERE owner_id = ? AND id = ?",
			ord, ownerID, id); err != nil {
			return fmt.Errorf("set order: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ShiftLogOrders(ownerID string) error {
	_, err := s.db.Exec(
		"UPDATE logs SET sort_order = sort_order + 1 WHERE owner_id = ? AND sort_order >= 0",
		ownerID)
	if err != nil {
		return fmt.Errorf("shift orders: %w", err)
	}
	return nil
}

// Projects

const projectCols = "id, owner_id, name, description, board_id, color, created_at"

func (s *SQLiteStore) ListProjects(ownerID string) ([]Project, error) {
	rows, err := s.db.Query(
		"SELECT "+projectCols+" FROM projects WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()
	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description,
			&p.BoardID, &p.Color, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) GetProject(ownerID, id string) (*Project, error) {
	var p Project
	err := s.db.QueryRow(
		"SELECT "+projectCols+" FROM projects WHERE owner_id = ? AND id = ?", ownerID, id).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.BoardID, &p.Color, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) InsertProject(p *Project) error {
	_, err := s.db.Exec(
		"INSERT INTO projects ("+projectCols+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.OwnerID, p.Name, p.Description, p.BoardID, p.Color, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateProject(ownerID, id string, patch ProjectPatch) error {
	set := ""
	var args []any
	if patch.Name != nil {
		set += "name = ?, "
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		set += "description = ?, "
		args = append(args, *patch.Description)
	}
	if patch.BoardID != nil {
		set += "board_id = ?, "
		args = append(args, *patch.BoardID)
	}
	if set == "" {
		return nil
	}
	set = set[:len(set)-2]
	args = append(args, ownerID, id)
	res, err := s.db.Exec("UPDATE projects SET "+set+" WHERE owner_id = ? AND id = ?", args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(ownerID, id string) error {
	res, err := s.db.Exec("DELETE FROM projects WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Boards

func (s *SQLiteStore) ListBoards(ownerID string) ([]Board, error) {
	rows, err := s.db.Query(
		"SELECT id, owner_id, name, position, created_at FROM boards WHERE owner_id = ? ORDER BY position",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("query boards: %w", err)
	}
	defer rows.Close()
	var boards []Board
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Position, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *SQLiteStore) InsertBoard(b *Board) error {
	_, err := s.db.Exec(
		"INSERT INTO boards (id, owner_id, name, position, created_at) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.OwnerID, b.Name, b.Position, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert board: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateBoard(b *Board) error {
	res, err := s.db.Exec(
		"UPDATE boards SET name = ?, position = ? WHERE owner_id = ? AND id = ?",
		b.Name, b.Position, b.OwnerID, b.ID)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteBoard(ownerID, id string) error {
	res, err := s.db.Exec("DELETE FROM boards WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpsertBoards(ownerID string, boards []Board) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	for _, b := range boards {
		if _, err := tx.Exec(
			`INSERT INTO boards (id, owner_id, name, position, created_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, position = excluded.position`,
			b.ID, ownerID, b.Name, b.Position, b.CreatedAt); err != nil {
			return fmt.Errorf("upsert board: %w", err)
		}
	}
	return tx.Commit()
}

// Profiles

func (s *SQLiteStore) GetProfile(id string) (*Profile, error) {
	var p Profile
	err := s.db.QueryRow(
		"SELECT id, name, email, avatar_url, accent_color, reminder_time FROM profiles WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.AccentColor, &p.ReminderTime)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListProfiles() ([]Profile, error) {
	rows, err := s.db.Query(
		"SELECT id, name, email, avatar_url, accent_color, reminder_time FROM profiles")
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.AccentColor, &p.ReminderTime); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertProfile(p *Profile) error {
	_, err := s.db.Exec(
		`INSERT INTO profiles (id, name, email, avatar_url, accent_color, reminder_time)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email,
		 avatar_url = excluded.avatar_url, accent_color = excluded.accent_color,
		 reminder_time = excluded.reminder_time`,
		p.ID, p.Name, p.Email, p.AvatarURL, p.AccentColor, p.ReminderTime)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Users and sessions

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) InsertUser(u *User) error {
	_, err := s.db.Exec(
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertSession(sess *Session) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		sess.Token, sess.UserID, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(token string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(
		"SELECT token, user_id, expires_at FROM sessions WHERE token = ?", token).
		Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return &sess, nil
}

func (s *SQLiteStore) DeleteSession(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
