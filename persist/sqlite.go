package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"daybook/task"
)

// DatabaseFile is the name of the SQLite database within the data dir.
const DatabaseFile = "daybook.db"

// SQLiteStore persists collections in a SQLite database. Saves replace
// the whole database contents inside one transaction, mirroring the
// snapshot semantics of the file store.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database under dir.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(filepath.Join(dir, DatabaseFile)))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0,
	important INTEGER NOT NULL DEFAULT 0,
	priority TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	due_date TEXT DEFAULT NULL,
	created_at TEXT NOT NULL,
	subtasks TEXT NOT NULL DEFAULT '[]',
	label_ids TEXT NOT NULL DEFAULT '[]',
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS labels (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL,
	subtasks TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS time_entries (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT DEFAULT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads the whole database into a collection snapshot. Rows come
// back in insertion order so collection ordering survives a round trip.
func (s *SQLiteStore) Load() (task.Collections, error) {
	var c task.Collections
	var err error
	if c.Tasks, err = s.loadTasks(); err != nil {
		return task.Collections{}, err
	}
	if c.Labels, err = s.loadLabels(); err != nil {
		return task.Collections{}, err
	}
	if c.Categories, err = s.loadCategories(); err != nil {
		return task.Collections{}, err
	}
	if c.Templates, err = s.loadTemplates(); err != nil {
		return task.Collections{}, err
	}
	if c.TimeEntries, err = s.loadTimeEntries(); err != nil {
		return task.Collections{}, err
	}
	return c, nil
}

func (s *SQLiteStore) loadTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, title, description, completed, important, priority, category, due_date, created_at, subtasks, label_ids FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var completed, important int
		var priority string
		var due sql.NullString
		var created, subtasks, labelIDs string

		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &completed, &important, &priority, &t.Category, &due, &created, &subtasks, &labelIDs); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		t.Important = important == 1
		t.Priority = task.Priority(priority)
		t.DueDate = parseNullTime(due)
		t.CreatedAt = parseTime(created)
		if err := json.Unmarshal([]byte(subtasks), &t.Subtasks); err != nil {
			return nil, fmt.Errorf("parse subtasks for task %s: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(labelIDs), &t.LabelIDs); err != nil {
			return nil, fmt.Errorf("parse labels for task %s: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) loadLabels() ([]task.Label, error) {
	rows, err := s.db.Query(`SELECT id, name, color, created_at FROM labels ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []task.Label
	for rows.Next() {
		var l task.Label
		var created string
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &created); err != nil {
			return nil, err
		}
		l.CreatedAt = parseTime(created)
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (s *SQLiteStore) loadCategories() ([]task.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, color FROM categories ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []task.Category
	for rows.Next() {
		var c task.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) loadTemplates() ([]task.Template, error) {
	rows, err := s.db.Query(`SELECT id, name, description, category, priority, subtasks, created_at, updated_at FROM templates ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []task.Template
	for rows.Next() {
		var t task.Template
		var priority, subtasks, created, updated string
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &priority, &subtasks, &created, &updated); err != nil {
			return nil, err
		}
		t.Priority = task.Priority(priority)
		t.CreatedAt = parseTime(created)
		t.UpdatedAt = parseTime(updated)
		if err := json.Unmarshal([]byte(subtasks), &t.Subtasks); err != nil {
			return nil, fmt.Errorf("parse subtasks for template %s: %w", t.ID, err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *SQLiteStore) loadTimeEntries() ([]task.TimeEntry, error) {
	rows, err := s.db.Query(`SELECT id, task_id, start_time, end_time, duration_ms, is_active FROM time_entries ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []task.TimeEntry
	for rows.Next() {
		var e task.TimeEntry
		var start string
		var end sql.NullString
		var active int
		if err := rows.Scan(&e.ID, &e.TaskID, &start, &end, &e.Duration, &active); err != nil {
			return nil, err
		}
		e.StartTime = parseTime(start)
		e.EndTime = parseNullTime(end)
		e.IsActive = active == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save replaces the database contents with the given snapshot.
func (s *SQLiteStore) Save(c task.Collections) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "labels", "categories", "templates", "time_entries"} {
		if _, err := tx.Exec(`DELETE FROM ` + table + `;`); err != nil {
			return err
		}
	}

	for i, t := range c.Tasks {
		subtasks, err := json.Marshal(emptySlice(t.Subtasks))
		if err != nil {
			return err
		}
		labelIDs, err := json.Marshal(emptySlice(t.LabelIDs))
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT INTO tasks (id, title, description, completed, important, priority, category, due_date, created_at, subtasks, label_ids, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			t.ID, t.Title, t.Description, boolInt(t.Completed), boolInt(t.Important), string(t.Priority), t.Category,
			formatNullTime(t.DueDate), formatTime(t.CreatedAt), string(subtasks), string(labelIDs), i)
		if err != nil {
			return err
		}
	}

	for i, l := range c.Labels {
		if _, err := tx.Exec(`INSERT INTO labels (id, name, color, created_at, position) VALUES (?, ?, ?, ?, ?);`,
			l.ID, l.Name, l.Color, formatTime(l.CreatedAt), i); err != nil {
			return err
		}
	}

	for i, cat := range c.Categories {
		if _, err := tx.Exec(`INSERT INTO categories (id, name, color, position) VALUES (?, ?, ?, ?);`,
			cat.ID, cat.Name, cat.Color, i); err != nil {
			return err
		}
	}

	for i, t := range c.Templates {
		subtasks, err := json.Marshal(emptySlice(t.Subtasks))
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT INTO templates (id, name, description, category, priority, subtasks, created_at, updated_at, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			t.ID, t.Name, t.Description, t.Category, string(t.Priority), string(subtasks),
			formatTime(t.CreatedAt), formatTime(t.UpdatedAt), i)
		if err != nil {
			return err
		}
	}

	for i, e := range c.TimeEntries {
		if _, err := tx.Exec(`INSERT INTO time_entries (id, task_id, start_time, end_time, duration_ms, is_active, position) VALUES (?, ?, ?, ?, ?, ?, ?);`,
			e.ID, e.TaskID, formatTime(e.StartTime), formatNullTime(e.EndTime), e.Duration, boolInt(e.IsActive), i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptySlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
