// Package watcher implements the folder ingestion pipeline: it sweeps
// an inbox directory, turns each ingestible file into a thought record,
// and moves the source file into a processed archive.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pbaille/fleeting/internal/domain"
	"github.com/pbaille/fleeting/internal/ledger"
	"github.com/pbaille/fleeting/internal/rules"
	"github.com/pbaille/fleeting/internal/store"
)

// timeNow is swapped in tests for deterministic collision suffixes.
var timeNow = time.Now

// maxRecordContent caps how much file content is duplicated into the
// thought record; the full file survives in the processed archive.
const maxRecordContent = 500

const importTag = "folder-import"

const pdfPlaceholder = "[PDF file — content extraction pending manual review]"

// Summary is the outcome of one ingestion run.
type Summary struct {
	Processed int
	Failed    int
}

// Runner performs one ingestion sweep per Run call.
type Runner struct {
	store        store.Store
	classifier   *rules.Classifier
	ledger       *ledger.Writer
	inboxDir     string
	processedDir string
}

// New creates a Runner over the given inbox directory. Processed files
// land in an "_processed" subdirectory, created on first use.
func New(s store.Store, c *rules.Classifier, lw *ledger.Writer, inboxDir string) *Runner {
	return &Runner{
		store:        s,
		classifier:   c,
		ledger:       lw,
		inboxDir:     inboxDir,
		processedDir: filepath.Join(inboxDir, "_processed"),
	}
}

// Run sweeps the inbox directory once. A failing file is counted and
// skipped; the sweep never aborts early.
func (r *Runner) Run() (*Summary, error) {
	if err := os.MkdirAll(r.processedDir, 0755); err != nil {
		return nil, fmt.Errorf("create processed dir: %w", err)
	}

	entries, err := os.ReadDir(r.inboxDir)
	if err != nil {
		return nil, fmt.Errorf("read inbox dir: %w", err)
	}

	tables := r.classifier.Tables()
	summary := &Summary{}
	var ledgerEntries []domain.LedgerEntry

	for _, entry := range entries {
		if entry.IsDir() || !tables.Ingestible(entry.Name()) {
			continue
		}

		fmt.Printf("📄 Processing: %s\n", entry.Name())
		le, err := r.ingest(entry.Name())
		if err != nil {
			fmt.Printf("  ❌ %v\n", err)
			summary.Failed++
			continue
		}
		summary.Processed++
		ledgerEntries = append(ledgerEntries, *le)
	}

	if err := r.ledger.Append("folder-watcher", ledgerEntries); err != nil {
		// The record mutations already happened; the audit trail is
		// best-effort but its loss must be visible.
		fmt.Printf("❌ Ledger write failed: %v\n", err)
	}

	return summary, nil
}

// ingest turns one file into a thought record and archives the file.
func (r *Runner) ingest(filename string) (*domain.LedgerEntry, error) {
	sourcePath := filepath.Join(r.inboxDir, filename)
	contentType := rules.ContentTypeFor(filename)

	content := pdfPlaceholder
	if contentType != domain.ContentPDF {
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		content = string(data)
	}

	title := extractTitle(content, filename)
	match := r.classifier.MatchProject(content)

	tags := []string{importTag}
	if isSpecDoc(content) {
		tags = append(tags, "spec")
	}
	if contentType == domain.ContentPDF {
		tags = append(tags, "pdf")
	}

	thought := &domain.Thought{
		UserID:      r.classifier.Tables().UserID,
		Content:     truncate(content, maxRecordContent),
		ContentType: contentType,
		Source:      domain.SourceFolderWatch,
		Status:      domain.StatusInbox,
		Tags:        tags,
	}
	if match != nil {
		thought.ProjectID = &match.ID
	}

	stored, err := r.store.AddThought(thought)
	if err != nil {
		return nil, fmt.Errorf("insert thought: %w", err)
	}

	destPath, err := r.moveToProcessed(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("move to processed: %w", err)
	}

	if err := r.store.UpdateThought(stored.ID, store.ThoughtUpdate{RoutedTo: &destPath}); err != nil {
		return nil, fmt.Errorf("record processed path: %w", err)
	}

	fmt.Printf("  ✅ Added to inbox (ID: %.8s) — %s\n", stored.ID, title)

	projectName := "none"
	reasoning := "No project match; manual assignment needed."
	if match != nil {
		projectName = match.Name
		reasoning = fmt.Sprintf("Matched project alias %q.", match.Alias)
	}

	return &domain.LedgerEntry{
		ThoughtID: stored.ID,
		Summary:   title,
		Action:    "ingested",
		Project:   projectName,
		Reasoning: reasoning,
		Outcome:   fmt.Sprintf("Status: inbox. Moved to %s.", filepath.Base(destPath)),
	}, nil
}

// moveToProcessed archives the source file, disambiguating filename
// collisions with a timestamp suffix rather than overwriting.
func (r *Runner) moveToProcessed(sourcePath string) (string, error) {
	filename := filepath.Base(sourcePath)
	destPath := filepath.Join(r.processedDir, filename)

	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		destPath = filepath.Join(r.processedDir, fmt.Sprintf("%s-%d%s", base, timeNow().UnixMilli(), ext))
	}

	if err := os.Rename(sourcePath, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

var headingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractTitle uses the first top-level heading, falling back to the
// filename with separators normalized to spaces.
func extractTitle(content, filename string) string {
	if m := headingRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return name
}

var specIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^##?\s*(overview|summary|background|requirements|acceptance criteria|user stor)`),
	regexp.MustCompile(`(?im)^##?\s*(problem|solution|goal|objective)`),
	regexp.MustCompile(`(?im)^##?\s*(technical|implementation|design|architecture)`),
	regexp.MustCompile(`(?m)^\s*[-*]\s+\[[ x]\]`),
}

// isSpecDoc detects spec/PRD-shaped documents by their headings and
// checkbox lines.
func isSpecDoc(content string) bool {
	for _, re := range specIndicators {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
