package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pbaille/fleeting/internal/domain"
	"github.com/pbaille/fleeting/internal/ledger"
	"github.com/pbaille/fleeting/internal/rules"
	"github.com/pbaille/fleeting/internal/store"
)

func init() {
	timeNow = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
}

type fixture struct {
	processor *Processor
	store     *store.SQLite
	ledger    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	s, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	tables := rules.Defaults()
	tables.Projects = []rules.ProjectRule{
		{ID: "p-voice", Name: "Voice Tools", Aliases: []string{"voice note"}},
	}

	ledgerPath := filepath.Join(dir, "LEDGER.md")
	return &fixture{
		processor: NewProcessor(s, rules.NewClassifier(tables), ledger.NewWriter(ledgerPath)),
		store:     s,
		ledger:    ledgerPath,
	}
}

func (f *fixture) capture(t *testing.T, content string, mutate func(*domain.Thought)) *domain.Thought {
	t.Helper()
	thought := &domain.Thought{
		Content:     content,
		ContentType: domain.ContentText,
		Source:      domain.SourceManual,
		Status:      domain.StatusInbox,
	}
	if mutate != nil {
		mutate(thought)
	}
	stored, err := f.store.AddThought(thought)
	if err != nil {
		t.Fatalf("add thought: %v", err)
	}
	return stored
}

func TestRun_ActionableRoutes(t *testing.T) {
	f := newFixture(t)
	stored := f.capture(t, "I need to build a quick voice note capture app, urgent.", nil)

	summary, err := f.processor.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 1 || summary.Actionable != 1 {
		t.Fatalf("summary = %+v, want one actionable item", summary)
	}

	got, _ := f.store.GetThought(stored.ID)
	if got.Status != domain.StatusRouted {
		t.Errorf("status = %s, want routed (actionable item, guard allows inbox → routed)", got.Status)
	}
	if got.Priority == nil || *got.Priority != domain.PriorityHigh {
		t.Errorf("priority = %v, want high via urgent", got.Priority)
	}
	if got.IsActionable == nil || !*got.IsActionable {
		t.Error("is_actionable should be true")
	}
	if got.Destination == nil || *got.Destination != domain.DestThings {
		t.Errorf("destination = %v, want things", got.Destination)
	}
	if got.ProcessedAt == nil {
		t.Error("processed_at must be set")
	}
	if got.ProjectID == nil || *got.ProjectID != "p-voice" {
		t.Errorf("project_id = %v, want keyword match p-voice", got.ProjectID)
	}
	if got.AIAnalysis == nil || !strings.Contains(*got.AIAnalysis, "Actionable") {
		t.Errorf("ai_analysis = %v, want the categorization summary", got.AIAnalysis)
	}
}

func TestRun_NonActionableGoesToProcessing(t *testing.T) {
	f := newFixture(t)
	stored := f.capture(t, "a quiet observation about typography", nil)

	if _, err := f.processor.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := f.store.GetThought(stored.ID)
	if got.Status != domain.StatusProcessing {
		t.Errorf("status = %s, want processing for non-actionable", got.Status)
	}
	if got.Destination == nil || *got.Destination != domain.DestNotes {
		t.Errorf("destination = %v, want notes", got.Destination)
	}
}

func TestRun_URLForcesReference(t *testing.T) {
	f := newFixture(t)
	stored := f.capture(t, "Check out this article: https://example.com/post", func(th *domain.Thought) {
		url := "https://example.com/post"
		th.URL = &url
	})

	if _, err := f.processor.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := f.store.GetThought(stored.ID)
	if got.Destination == nil || *got.Destination != domain.DestReference {
		t.Errorf("destination = %v, want reference due to URL presence", got.Destination)
	}
}

func TestRun_ExplicitProjectWinsOverMatch(t *testing.T) {
	f := newFixture(t)
	stored := f.capture(t, "need to polish the voice note flow", func(th *domain.Thought) {
		explicit := "p-existing"
		th.ProjectID = &explicit
	})

	if _, err := f.processor.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := f.store.GetThought(stored.ID)
	if got.ProjectID == nil || *got.ProjectID != "p-existing" {
		t.Errorf("project_id = %v, explicit assignment must win over keyword match", got.ProjectID)
	}
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.capture(t, "must fix the login bug", nil)
	f.capture(t, "an essay on color", nil)

	first, err := f.processor.Run()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Total != 2 {
		t.Fatalf("first run total = %d, want 2", first.Total)
	}

	second, err := f.processor.Run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Total != 0 {
		t.Errorf("second run total = %d, want 0 (every item now has processed_at)", second.Total)
	}
}

func TestRun_LedgerSessionBlock(t *testing.T) {
	f := newFixture(t)
	prior := "# Pipeline Ledger\n\nEarlier sessions.\n\n## Observations\n\nKeep me.\n"
	if err := os.WriteFile(f.ledger, []byte(prior), 0644); err != nil {
		t.Fatal(err)
	}

	f.capture(t, "must ship the urgent fix", nil)
	f.capture(t, "should add the settings screen", nil)
	f.capture(t, "lovely essay about gardens", nil)

	summary, err := f.processor.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Actionable != 2 {
		t.Fatalf("actionable = %d, want 2", summary.Actionable)
	}

	data, _ := os.ReadFile(f.ledger)
	content := string(data)

	if got := strings.Count(content, "### Automated:"); got != 1 {
		t.Errorf("session blocks = %d, want exactly 1 per run", got)
	}
	if got := strings.Count(content, "| categorized |"); got != 3 {
		t.Errorf("ledger rows = %d, want 3", got)
	}
	obsIdx := strings.Index(content, "## Observations")
	blockIdx := strings.Index(content, "### Automated:")
	if blockIdx > obsIdx {
		t.Error("session block must sit above the Observations marker")
	}
	if !strings.Contains(content, "Earlier sessions.") || !strings.Contains(content, "Keep me.") {
		t.Error("prior ledger content must be preserved verbatim")
	}
}

func TestRun_SummaryBreakdowns(t *testing.T) {
	f := newFixture(t)
	f.capture(t, "urgent: must fix the crash", nil)
	f.capture(t, "someday explore generative art", nil)

	summary, err := f.processor.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.ByPriority[domain.PriorityHigh] != 1 {
		t.Errorf("high priority count = %d, want 1", summary.ByPriority[domain.PriorityHigh])
	}
	if summary.ByDestination[domain.DestThings] != 1 {
		t.Errorf("things count = %d, want 1", summary.ByDestination[domain.DestThings])
	}
}
