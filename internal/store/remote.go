package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/fleeting/internal/domain"
)

// Remote is a Store backed by a PostgREST-style record store (the
// hosted database the capture surfaces write into). Every call is one
// synchronous HTTP request; transport and API errors are returned to
// the caller and are distinct from ErrNotFound.
type Remote struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRemote creates a Remote store client. baseURL is the REST root
// (e.g. https://example.supabase.co/rest/v1).
func NewRemote(baseURL, apiKey string) *Remote {
	return &Remote{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Close is a no-op; the client holds no persistent connection state.
func (r *Remote) Close() error {
	return nil
}

// AddThought inserts a new thought row.
func (r *Remote) AddThought(t *domain.Thought) (*domain.Thought, error) {
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

	var rows []domain.Thought
	if err := r.do("POST", "/thoughts", nil, stored, &rows); err != nil {
		return nil, fmt.Errorf("insert thought: %w", err)
	}
	if len(rows) == 0 {
		return &stored, nil
	}
	return &rows[0], nil
}

// GetThought retrieves one thought by id.
func (r *Remote) GetThought(id string) (*domain.Thought, error) {
	q := url.Values{"id": {"eq." + id}}
	var rows []domain.Thought
	if err := r.do("GET", "/thoughts", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("get thought: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// ListThoughts returns recent thoughts, newest first.
func (r *Remote) ListThoughts(limit, offset int) ([]domain.Thought, error) {
	q := url.Values{
		"order":  {"captured_at.desc"},
		"limit":  {fmt.Sprint(limit)},
		"offset": {fmt.Sprint(offset)},
	}
	var rows []domain.Thought
	if err := r.do("GET", "/thoughts", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("list thoughts: %w", err)
	}
	return rows, nil
}

// AllThoughts returns every thought, oldest first.
func (r *Remote) AllThoughts() ([]domain.Thought, error) {
	q := url.Values{"order": {"captured_at.asc"}}
	var rows []domain.Thought
	if err := r.do("GET", "/thoughts", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("list thoughts: %w", err)
	}
	return rows, nil
}

// UnprocessedInbox returns inbox thoughts with no processed_at, oldest first.
func (r *Remote) UnprocessedInbox() ([]domain.Thought, error) {
	q := url.Values{
		"status":       {"eq." + string(domain.StatusInbox)},
		"processed_at": {"is.null"},
		"order":        {"captured_at.asc"},
	}
	var rows []domain.Thought
	if err := r.do("GET", "/thoughts", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}
	return rows, nil
}

// ByStatus returns thoughts in the given status, oldest first.
func (r *Remote) ByStatus(status domain.Status) ([]domain.Thought, error) {
	q := url.Values{
		"status": {"eq." + string(status)},
		"order":  {"captured_at.asc"},
	}
	var rows []domain.Thought
	if err := r.do("GET", "/thoughts", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch by status: %w", err)
	}
	return rows, nil
}

// UpdateThought applies a partial update by id.
func (r *Remote) UpdateThought(id string, u ThoughtUpdate) error {
	patch := updatePatch(u)
	if len(patch) == 0 {
		return nil
	}

	q := url.Values{"id": {"eq." + id}}
	var rows []domain.Thought
	if err := r.do("PATCH", "/thoughts", q, patch, &rows); err != nil {
		return fmt.Errorf("update thought: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateIfUnprocessed applies a partial update only while processed_at
// is still null.
func (r *Remote) UpdateIfUnprocessed(id string, u ThoughtUpdate) (bool, error) {
	patch := updatePatch(u)
	if len(patch) == 0 {
		return true, nil
	}

	q := url.Values{
		"id":           {"eq." + id},
		"processed_at": {"is.null"},
	}
	var rows []domain.Thought
	if err := r.do("PATCH", "/thoughts", q, patch, &rows); err != nil {
		return false, fmt.Errorf("update thought: %w", err)
	}
	return len(rows) > 0, nil
}

// ListProjects returns all projects ordered by name.
func (r *Remote) ListProjects() ([]domain.Project, error) {
	q := url.Values{"order": {"name.asc"}}
	var rows []domain.Project
	if err := r.do("GET", "/projects", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return rows, nil
}

// GetOrCreateProject finds a project by name or creates it.
func (r *Remote) GetOrCreateProject(name, color string) (*domain.Project, error) {
	q := url.Values{"name": {"eq." + name}}
	var rows []domain.Project
	if err := r.do("GET", "/projects", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}

	p := domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		Status:    domain.ProjectActive,
		CreatedAt: time.Now(),
	}
	var created []domain.Project
	if err := r.do("POST", "/projects", nil, p, &created); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	if len(created) > 0 {
		return &created[0], nil
	}
	return &p, nil
}

// updatePatch converts a ThoughtUpdate into a sparse JSON object so
// untouched columns stay untouched on the server.
func updatePatch(u ThoughtUpdate) map[string]any {
	patch := map[string]any{}
	if u.Status != nil {
		patch["status"] = *u.Status
	}
	if u.Priority != nil {
		patch["priority"] = *u.Priority
	}
	if u.Tags != nil {
		patch["tags"] = u.Tags
	}
	if u.IsActionable != nil {
		patch["is_actionable"] = *u.IsActionable
	}
	if u.Destination != nil {
		patch["suggested_destination"] = *u.Destination
	}
	if u.AIAnalysis != nil {
		patch["ai_analysis"] = *u.AIAnalysis
	}
	if u.ProjectID != nil {
		patch["project_id"] = *u.ProjectID
	}
	if u.RoutedTo != nil {
		patch["routed_to"] = *u.RoutedTo
	}
	if u.ProcessedAt != nil {
		patch["processed_at"] = u.ProcessedAt.Format(time.RFC3339)
	}
	if u.URLTitle != nil {
		patch["url_title"] = *u.URLTitle
	}
	if u.URLDescription != nil {
		patch["url_description"] = *u.URLDescription
	}
	return patch
}

func (r *Remote) do(method, path string, query url.Values, body, out any) error {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	// Ask the server to echo affected rows so callers can tell a
	// conditional update that matched nothing from one that succeeded.
	req.Header.Set("Prefer", "return=representation")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
