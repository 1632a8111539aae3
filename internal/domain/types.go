package domain

import "time"

// Status is the lifecycle state of a thought.
type Status string

const (
	StatusInbox      Status = "inbox"
	StatusProcessing Status = "processing"
	StatusRouted     Status = "routed"
	StatusDone       Status = "done"
	StatusArchived   Status = "archived"
)

// Priority buckets, highest first.
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
	PrioritySomeday Priority = "someday"
)

// Destination is the external system a thought is suggested to be routed to.
type Destination string

const (
	DestThings    Destination = "things"
	DestReminders Destination = "reminders"
	DestCalendar  Destination = "calendar"
	DestNotes     Destination = "notes"
	DestReference Destination = "reference"
	DestArchive   Destination = "archive"
)

// ContentType describes what kind of content a thought carries.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentLink  ContentType = "link"
	ContentVoice ContentType = "voice"
	ContentImage ContentType = "image"
	ContentPDF   ContentType = "pdf"
)

// Source records how a thought entered the system.
type Source string

const (
	SourceManual         Source = "manual"
	SourceShortcut       Source = "shortcut"
	SourceShareExtension Source = "share_extension"
	SourceAgent          Source = "agent"
	SourceFolderWatch    Source = "folder_watch"
)

// Thought represents a captured piece of content awaiting triage.
type Thought struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Content        string       `json:"content"`
	ContentType    ContentType  `json:"content_type"`
	Source         Source       `json:"source"`
	Status         Status       `json:"status"`
	CapturedAt     time.Time    `json:"captured_at"`
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
	Priority       *Priority    `json:"priority,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	IsActionable   *bool        `json:"is_actionable,omitempty"`
	Destination    *Destination `json:"suggested_destination,omitempty"`
	AIAnalysis     *string      `json:"ai_analysis,omitempty"`
	ProjectID      *string      `json:"project_id,omitempty"`
	RoutedTo       *string      `json:"routed_to,omitempty"`
	URL            *string      `json:"url,omitempty"`
	URLTitle       *string      `json:"url_title,omitempty"`
	URLDescription *string      `json:"url_description,omitempty"`
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Project is a named bucket thoughts can be filed under.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Color       string        `json:"color"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// LedgerThoughtNA is the thought-id sentinel for infrastructure-only
// ledger entries (no single thought involved).
const LedgerThoughtNA = "N/A"

// LedgerEntry is one immutable audit row in the pipeline ledger.
type LedgerEntry struct {
	ThoughtID string `json:"thought_id"`
	Summary   string `json:"summary"`
	Action    string `json:"action"`
	Project   string `json:"project"`
	Reasoning string `json:"reasoning"`
	Outcome   string `json:"outcome"`
}

// Analysis is the structured brief produced for a thought before it is
// materialized into a project spec.
type Analysis struct {
	Summary         string   `json:"summary"`
	Feasibility     string   `json:"feasibility"`
	NextSteps       []string `json:"nextSteps"`
	RelatedConcepts []string `json:"relatedConcepts"`
	MVPFeatures     []string `json:"mvpFeatures"`
	OutOfScope      []string `json:"outOfScope"`
	Complexity      string   `json:"complexity"`
	Platform        string   `json:"platform"`
	TechStack       []string `json:"techStack"`
}
