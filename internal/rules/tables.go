package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/fleeting/internal/domain"
)

// PriorityTier is one priority bucket with its trigger keywords.
// Tiers are evaluated in slice order; the first match wins.
type PriorityTier struct {
	Level    domain.Priority `yaml:"level"`
	Keywords []string        `yaml:"keywords"`
}

// DestinationRule maps keywords to a routing destination.
// Rules are evaluated in slice order; the first match wins.
type DestinationRule struct {
	Destination domain.Destination `yaml:"destination"`
	Keywords    []string           `yaml:"keywords"`
}

// TagRule maps keywords to a tag to attach.
type TagRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// ProjectRule maps content aliases to a known project.
// Projects are evaluated in slice order, aliases in slice order;
// the first (project, alias) hit wins.
type ProjectRule struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Tables holds every rule table the pipelines consume. It is immutable
// configuration: build one with Defaults or Load and inject it where needed.
type Tables struct {
	ActionablePhrases []string          `yaml:"actionable_phrases"`
	Priorities        []PriorityTier    `yaml:"priorities"`
	Destinations      []DestinationRule `yaml:"destinations"`
	Tags              []TagRule         `yaml:"tags"`
	Projects          []ProjectRule     `yaml:"projects"`
	HubFiles          []string          `yaml:"hub_files"`
	Extensions        []string          `yaml:"extensions"`
	UserID            string            `yaml:"user_id"`
}

// Defaults returns the built-in rule tables.
func Defaults() Tables {
	return Tables{
		ActionablePhrases: []string{
			"need to", "should", "must", "have to", "want to", "going to",
			"will", "todo", "task", "fix", "build", "add", "implement",
		},
		Priorities: []PriorityTier{
			{Level: domain.PriorityHigh, Keywords: []string{"urgent", "asap", "critical", "blocking", "important", "today", "now", "ship"}},
			{Level: domain.PriorityMedium, Keywords: []string{"should", "need", "want", "soon", "this week"}},
			{Level: domain.PriorityLow, Keywords: []string{"maybe", "could", "nice to have", "eventually"}},
			{Level: domain.PrioritySomeday, Keywords: []string{"someday", "maybe later", "idea", "future", "one day"}},
		},
		Destinations: []DestinationRule{
			{Destination: domain.DestThings, Keywords: []string{"task", "todo", "do", "action", "implement", "fix", "build", "create", "add", "update"}},
			{Destination: domain.DestReminders, Keywords: []string{"remind", "remember", "don't forget", "appointment", "meeting"}},
			{Destination: domain.DestCalendar, Keywords: []string{"schedule", "event", "meeting", "call", "date", "time"}},
			{Destination: domain.DestNotes, Keywords: []string{"note", "document", "write up", "spec", "design"}},
			{Destination: domain.DestReference, Keywords: []string{"reference", "resource", "link", "article", "bookmark", "check out"}},
			{Destination: domain.DestArchive, Keywords: []string{"done", "completed", "finished", "resolved", "test"}},
		},
		Tags: []TagRule{
			{Tag: "feature", Keywords: []string{"feature", "enhancement", "improvement", "add"}},
			{Tag: "bug", Keywords: []string{"bug", "fix", "broken", "issue", "error", "can't", "crash"}},
			{Tag: "idea", Keywords: []string{"idea", "thought", "concept", "brainstorm", "what if"}},
			{Tag: "research", Keywords: []string{"research", "investigate", "learn", "study", "explore", "check out"}},
			{Tag: "feedback", Keywords: []string{"feedback", "user said", "suggestion"}},
			{Tag: "infrastructure", Keywords: []string{"pipeline", "automation", "infrastructure", "server", "deploy"}},
			{Tag: "spec", Keywords: []string{"spec", "architecture", "design doc", "roadmap"}},
		},
		Projects:   nil,
		HubFiles:   []string{"CLAUDE.md", "AGENTS.md"},
		Extensions: []string{".md", ".pdf", ".txt"},
	}
}

// Load reads rule tables from a YAML file. Tables present in the file
// replace the corresponding defaults wholesale; absent tables keep the
// defaults, so a file listing only projects is a valid configuration.
func Load(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read rules file: %w", err)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Tables{}, fmt.Errorf("parse rules file: %w", err)
	}

	t := Defaults()
	if override.ActionablePhrases != nil {
		t.ActionablePhrases = override.ActionablePhrases
	}
	if override.Priorities != nil {
		t.Priorities = override.Priorities
	}
	if override.Destinations != nil {
		t.Destinations = override.Destinations
	}
	if override.Tags != nil {
		t.Tags = override.Tags
	}
	if override.Projects != nil {
		t.Projects = override.Projects
	}
	if override.HubFiles != nil {
		t.HubFiles = override.HubFiles
	}
	if override.Extensions != nil {
		t.Extensions = override.Extensions
	}
	if override.UserID != "" {
		t.UserID = override.UserID
	}

	return t, nil
}

// ProjectName resolves a project id to its configured display name.
// Returns "none" for nil and "unknown" for an id not in the table.
func (t Tables) ProjectName(projectID *string) string {
	if projectID == nil || *projectID == "" {
		return "none"
	}
	for _, p := range t.Projects {
		if p.ID == *projectID {
			return p.Name
		}
	}
	return "unknown"
}
