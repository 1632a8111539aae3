package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/fleeting/internal/domain"
)

//go:embed schema.sql
var schema string

const thoughtColumns = `id, user_id, content, content_type, source, status, captured_at,
	processed_at, priority, tags, is_actionable, suggested_destination,
	ai_analysis, project_id, routed_to, url, url_title, url_description`

// SQLite is the local Store implementation.
type SQLite struct {
	db *sql.DB
}

// Open creates a SQLite store at the given database path and
// initializes the schema.
func Open(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// AddThought inserts a new thought, assigning id and captured_at when unset.
func (s *SQLite) AddThought(t *domain.Thought) (*domain.Thought, error) {
	stored := *t
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CapturedAt.IsZero() {
		stored.CapturedAt = time.Now()
	}
	if stored.Status == "" {
		stored.Status = domain.StatusInbox
	}
	if stored.ContentType == "" {
		stored.ContentType = domain.ContentText
	}

	tags, err := encodeTags(stored.Tags)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		INSERT INTO thoughts (`+thoughtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.UserID, stored.Content, string(stored.ContentType),
		string(stored.Source), string(stored.Status), stored.CapturedAt,
		stored.ProcessedAt, nullablePriority(stored.Priority), tags,
		nullableBool(stored.IsActionable), nullableDestination(stored.Destination),
		stored.AIAnalysis, stored.ProjectID, stored.RoutedTo,
		stored.URL, stored.URLTitle, stored.URLDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("insert thought: %w", err)
	}

	return &stored, nil
}

// GetThought retrieves a thought by id.
func (s *SQLite) GetThought(id string) (*domain.Thought, error) {
	row := s.db.QueryRow(`SELECT `+thoughtColumns+` FROM thoughts WHERE id = ?`, id)
	t, err := scanThought(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get thought: %w", err)
	}
	return t, nil
}

// ListThoughts returns recent thoughts, newest first.
func (s *SQLite) ListThoughts(limit, offset int) ([]domain.Thought, error) {
	return s.queryThoughts(`
		SELECT `+thoughtColumns+` FROM thoughts
		ORDER BY captured_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// AllThoughts returns every thought, oldest first.
func (s *SQLite) AllThoughts() ([]domain.Thought, error) {
	return s.queryThoughts(`
		SELECT ` + thoughtColumns + ` FROM thoughts ORDER BY captured_at ASC`)
}

// UnprocessedInbox returns inbox thoughts with no processed_at, oldest first.
func (s *SQLite) UnprocessedInbox() ([]domain.Thought, error) {
	return s.queryThoughts(`
		SELECT `+thoughtColumns+` FROM thoughts
		WHERE status = ? AND processed_at IS NULL
		ORDER BY captured_at ASC`, string(domain.StatusInbox))
}

// ByStatus returns thoughts in the given status, oldest first.
func (s *SQLite) ByStatus(status domain.Status) ([]domain.Thought, error) {
	return s.queryThoughts(`
		SELECT `+thoughtColumns+` FROM thoughts
		WHERE status = ? ORDER BY captured_at ASC`, string(status))
}

// UpdateThought applies a partial update by id.
func (s *SQLite) UpdateThought(id string, u ThoughtUpdate) error {
	set, args, err := buildUpdate(u)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := s.db.Exec("UPDATE thoughts SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update thought: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateIfUnprocessed applies a partial update only while processed_at
// is still null. Returns false when the guard did not hold.
func (s *SQLite) UpdateIfUnprocessed(id string, u ThoughtUpdate) (bool, error) {
	set, args, err := buildUpdate(u)
	if err != nil {
		return false, err
	}
	if len(set) == 0 {
		return true, nil
	}

	args = append(args, id)
	res, err := s.db.Exec(
		"UPDATE thoughts SET "+strings.Join(set, ", ")+" WHERE id = ? AND processed_at IS NULL",
		args...)
	if err != nil {
		return false, fmt.Errorf("update thought: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListProjects returns all projects ordered by name.
func (s *SQLite) ListProjects() ([]domain.Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, color, status, created_at
		FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetOrCreateProject finds a project by name or creates it.
func (s *SQLite) GetOrCreateProject(name, color string) (*domain.Project, error) {
	var p domain.Project
	err := s.db.QueryRow(`
		SELECT id, name, description, color, status, created_at
		FROM projects WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.CreatedAt)
	if err == nil {
		return &p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find project: %w", err)
	}

	p = domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		Status:    domain.ProjectActive,
		CreatedAt: time.Now(),
	}
	_, err = s.db.Exec(`
		INSERT INTO projects (id, name, description, color, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, nil, p.Color, string(p.Status), p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

func (s *SQLite) queryThoughts(query string, args ...any) ([]domain.Thought, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query thoughts: %w", err)
	}
	defer rows.Close()

	var thoughts []domain.Thought
	for rows.Next() {
		t, err := scanThought(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thought: %w", err)
		}
		thoughts = append(thoughts, *t)
	}
	return thoughts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThought(row rowScanner) (*domain.Thought, error) {
	var (
		t           domain.Thought
		contentType string
		source      string
		status      string
		processedAt sql.NullTime
		priority    sql.NullString
		tags        sql.NullString
		actionable  sql.NullBool
		destination sql.NullString
	)

	err := row.Scan(
		&t.ID, &t.UserID, &t.Content, &contentType, &source, &status,
		&t.CapturedAt, &processedAt, &priority, &tags, &actionable,
		&destination, &t.AIAnalysis, &t.ProjectID, &t.RoutedTo,
		&t.URL, &t.URLTitle, &t.URLDescription,
	)
	if err != nil {
		return nil, err
	}

	t.ContentType = domain.ContentType(contentType)
	t.Source = domain.Source(source)
	t.Status = domain.Status(status)
	if processedAt.Valid {
		ts := processedAt.Time
		t.ProcessedAt = &ts
	}
	if priority.Valid {
		p := domain.Priority(priority.String)
		t.Priority = &p
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &t.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if actionable.Valid {
		b := actionable.Bool
		t.IsActionable = &b
	}
	if destination.Valid {
		d := domain.Destination(destination.String)
		t.Destination = &d
	}

	return &t, nil
}

func buildUpdate(u ThoughtUpdate) (set []string, args []any, err error) {
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}

	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.Priority != nil {
		add("priority", string(*u.Priority))
	}
	if u.Tags != nil {
		tags, encErr := encodeTags(u.Tags)
		if encErr != nil {
			return nil, nil, encErr
		}
		add("tags", tags)
	}
	if u.IsActionable != nil {
		add("is_actionable", *u.IsActionable)
	}
	if u.Destination != nil {
		add("suggested_destination", string(*u.Destination))
	}
	if u.AIAnalysis != nil {
		add("ai_analysis", *u.AIAnalysis)
	}
	if u.ProjectID != nil {
		add("project_id", *u.ProjectID)
	}
	if u.RoutedTo != nil {
		add("routed_to", *u.RoutedTo)
	}
	if u.ProcessedAt != nil {
		add("processed_at", *u.ProcessedAt)
	}
	if u.URLTitle != nil {
		add("url_title", *u.URLTitle)
	}
	if u.URLDescription != nil {
		add("url_description", *u.URLDescription)
	}

	return set, args, nil
}

func encodeTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

func nullablePriority(p *domain.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func nullableDestination(d *domain.Destination) any {
	if d == nil {
		return nil
	}
	return string(*d)
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
