package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbaille/fleeting/internal/domain"
)

func TestLoad_OverridesProjectsKeepsRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
projects:
  - id: p-one
    name: One
    aliases: [one, first]
user_id: user-42
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(tables.Projects) != 1 || tables.Projects[0].ID != "p-one" {
		t.Errorf("projects = %+v, want the single configured project", tables.Projects)
	}
	if tables.UserID != "user-42" {
		t.Errorf("user_id = %q, want user-42", tables.UserID)
	}
	// Untouched tables keep their defaults.
	if len(tables.Priorities) != 4 || tables.Priorities[0].Level != domain.PriorityHigh {
		t.Errorf("priorities should keep defaults, got %+v", tables.Priorities)
	}
	if len(tables.HubFiles) != 2 {
		t.Errorf("hub files should keep defaults, got %v", tables.HubFiles)
	}
}

func TestLoad_PreservesDeclaredOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
priorities:
  - level: someday
    keywords: [someday]
  - level: high
    keywords: [urgent]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Order is an observable contract: the file put someday first, so a
	// text matching both now resolves to someday.
	r := NewClassifier(tables).Classify("urgent someday", false, domain.ContentText, nil)
	if r.Priority != domain.PrioritySomeday {
		t.Errorf("priority = %s, want someday (file declaration order)", r.Priority)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestProjectName(t *testing.T) {
	tables := Defaults()
	tables.Projects = []ProjectRule{{ID: "p-one", Name: "One", Aliases: []string{"one"}}}

	id := "p-one"
	if got := tables.ProjectName(&id); got != "One" {
		t.Errorf("ProjectName = %q, want One", got)
	}
	unknown := "p-ghost"
	if got := tables.ProjectName(&unknown); got != "unknown" {
		t.Errorf("ProjectName for unknown id = %q, want unknown", got)
	}
	if got := tables.ProjectName(nil); got != "none" {
		t.Errorf("ProjectName(nil) = %q, want none", got)
	}
}
