// Package store implements the persistence port for thoughts and
// projects. Two implementations exist: a local SQLite database and a
// remote PostgREST-style record store. Pipelines depend only on the
// Store interface so either can back them.
package store

import (
	"errors"
	"time"

	"github.com/pbaille/fleeting/internal/domain"
)

// ErrNotFound distinguishes "no matching record" from transport or
// validation failures.
var ErrNotFound = errors.New("record not found")

// ThoughtUpdate is a partial update: nil fields are left untouched.
// Tags replaces the whole tag set when non-nil (callers union-merge
// before updating, the store never drops tags on its own).
type ThoughtUpdate struct {
	Status         *domain.Status
	Priority       *domain.Priority
	Tags           []string
	IsActionable   *bool
	Destination    *domain.Destination
	AIAnalysis     *string
	ProjectID      *string
	RoutedTo       *string
	ProcessedAt    *time.Time
	URLTitle       *string
	URLDescription *string
}

// Store is the persistence port consumed by the capture command and the
// automated pipelines.
type Store interface {
	// AddThought inserts a new thought, assigning its id and captured_at
	// when unset, and returns the stored record.
	AddThought(t *domain.Thought) (*domain.Thought, error)

	// GetThought retrieves one thought by id. Returns ErrNotFound when
	// the id does not exist.
	GetThought(id string) (*domain.Thought, error)

	// ListThoughts returns recent thoughts, newest first.
	ListThoughts(limit, offset int) ([]domain.Thought, error)

	// AllThoughts returns every thought, oldest first. Used for index
	// rebuilds.
	AllThoughts() ([]domain.Thought, error)

	// UnprocessedInbox returns thoughts with status inbox and no
	// processed_at, oldest first.
	UnprocessedInbox() ([]domain.Thought, error)

	// ByStatus returns thoughts in the given status, oldest first.
	ByStatus(status domain.Status) ([]domain.Thought, error)

	// UpdateThought applies a partial update by id.
	UpdateThought(id string, u ThoughtUpdate) error

	// UpdateIfUnprocessed applies a partial update only while the
	// thought still has no processed_at. Returns false when the guard
	// did not hold (already processed by a concurrent run, or gone).
	UpdateIfUnprocessed(id string, u ThoughtUpdate) (bool, error)

	// ListProjects returns all projects ordered by name.
	ListProjects() ([]domain.Project, error)

	// GetOrCreateProject finds a project by name or creates it active
	// with the given color.
	GetOrCreateProject(name, color string) (*domain.Project, error)

	Close() error
}
