package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pbaille/fleeting/internal/domain"
)

func init() {
	// Freeze time for deterministic session dates.
	timeNow = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
}

func entry(id, summary string) domain.LedgerEntry {
	return domain.LedgerEntry{
		ThoughtID: id,
		Summary:   summary,
		Action:    "categorized",
		Project:   "none",
		Reasoning: "Keyword match.",
		Outcome:   "Status: routed.",
	}
}

func TestAppend_SeedsMissingLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEDGER.md")
	w := NewWriter(path)

	if err := w.Append("process-inbox", []domain.LedgerEntry{entry("aaaabbbb-1111", "first")}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "# Pipeline Ledger") {
		t.Error("a fresh ledger should carry the seed header")
	}
	if !strings.Contains(content, "### Automated: 2026-03-14 — process-inbox") {
		t.Error("missing dated session block")
	}
	if !strings.Contains(content, "`aaaabbbb`") {
		t.Error("thought id should be rendered as an 8-char backticked prefix")
	}
}

func TestAppend_InsertsBeforeObservations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEDGER.md")
	prior := "# Pipeline Ledger\n\nIntro text.\n\n## Observations\n\nHand-written notes stay last.\n"
	if err := os.WriteFile(path, []byte(prior), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(path)
	if err := w.Append("folder-watcher", []domain.LedgerEntry{entry("ccccdddd-2222", "ingested file")}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	blockIdx := strings.Index(content, "### Automated:")
	obsIdx := strings.Index(content, "## Observations")
	if blockIdx < 0 || obsIdx < 0 {
		t.Fatalf("missing block or marker in:\n%s", content)
	}
	if blockIdx > obsIdx {
		t.Error("session block must be inserted before the Observations section")
	}
	if !strings.Contains(content, "Intro text.") {
		t.Error("prior content above the marker must be preserved verbatim")
	}
	if !strings.Contains(content, "Hand-written notes stay last.") {
		t.Error("content below the marker must be preserved")
	}
}

func TestAppend_OneBlockPerRunWithAllRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEDGER.md")
	w := NewWriter(path)

	entries := []domain.LedgerEntry{
		entry("11111111-a", "one"),
		entry("22222222-b", "two"),
		entry("33333333-c", "three"),
	}
	if err := w.Append("process-inbox", entries); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	if got := strings.Count(content, "### Automated:"); got != 1 {
		t.Errorf("session blocks = %d, want 1", got)
	}
	for _, summary := range []string{"one", "two", "three"} {
		if !strings.Contains(content, "| "+summary+" |") {
			t.Errorf("missing row for %q", summary)
		}
	}
}

func TestAppend_InfrastructureSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEDGER.md")
	w := NewWriter(path)

	if err := w.Append("folder-watcher", []domain.LedgerEntry{entry(domain.LedgerThoughtNA, "setup")}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "| — |") {
		t.Error("N/A thought id should render as an em dash cell")
	}
}

func TestAppend_EmptyIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEDGER.md")
	w := NewWriter(path)

	if err := w.Append("process-inbox", nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("appending zero entries should not create the ledger")
	}
}

func TestAppend_EscapesTableBreakingCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LEDGER.md")
	w := NewWriter(path)

	e := entry("44444444-d", "pipe | and\nnewline")
	if err := w.Append("process-inbox", []domain.LedgerEntry{e}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `pipe \| and newline`) {
		t.Errorf("cell content should be sanitized, got:\n%s", string(data))
	}
}
