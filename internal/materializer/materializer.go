// Package materializer turns processing-stage thoughts into project
// folders with a generated specification document, then routes them.
package materializer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pbaille/fleeting/internal/analyzer"
	"github.com/pbaille/fleeting/internal/domain"
	"github.com/pbaille/fleeting/internal/ledger"
	"github.com/pbaille/fleeting/internal/pipeline"
	"github.com/pbaille/fleeting/internal/store"
)

// timeNow is swapped in tests for deterministic dates.
var timeNow = time.Now

// Result records the outcome of materializing one thought; it is what
// the daily digest stores.
type Result struct {
	ThoughtID   string `json:"thoughtId"`
	ProjectName string `json:"projectName"`
	FolderPath  string `json:"folderPath"`
	SpecPath    string `json:"specPath"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// Summary is the outcome of one materializer run.
type Summary struct {
	Processed int
	Failed    int
	Skipped   int
}

// Runner materializes processing-stage thoughts, one at a time,
// oldest first.
type Runner struct {
	store    store.Store
	analyzer analyzer.Analyzer
	ledger   *ledger.Writer
	digest   *Digest
	ideasDir string
}

// New creates a Runner writing project folders under ideasDir and the
// daily digest at digestPath.
func New(s store.Store, a analyzer.Analyzer, lw *ledger.Writer, ideasDir, digestPath string) *Runner {
	return &Runner{
		store:    s,
		analyzer: a,
		ledger:   lw,
		digest:   NewDigest(digestPath),
		ideasDir: ideasDir,
	}
}

// Run materializes every thought in processing status. Per-item
// failures are captured in the digest and do not stop the batch.
func (r *Runner) Run() (*Summary, error) {
	thoughts, err := r.store.ByStatus(domain.StatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("fetch processing queue: %w", err)
	}

	fmt.Printf("Found %d thought(s) in processing queue\n", len(thoughts))

	summary := &Summary{}
	var results []Result
	var ledgerEntries []domain.LedgerEntry

	for i := range thoughts {
		thought := &thoughts[i]
		fmt.Printf("\nProcessing: %q\n", preview(thought.Content))

		if ok, reason := pipeline.ValidateTransition(thought.Status, domain.StatusRouted); !ok {
			fmt.Printf("  ⚠️ Skipping — %s\n", reason)
			summary.Skipped++
			continue
		}

		result := r.materialize(thought)
		results = append(results, result)

		if !result.Success {
			fmt.Printf("  ❌ %s\n", result.Error)
			summary.Failed++
			continue
		}
		summary.Processed++
		fmt.Printf("  ✅ Routed to %s\n", result.SpecPath)

		ledgerEntries = append(ledgerEntries, domain.LedgerEntry{
			ThoughtID: thought.ID,
			Summary:   preview(thought.Content),
			Action:    "routed",
			Project:   result.ProjectName,
			Reasoning: "Deep-dive analysis complete; spec generated.",
			Outcome:   fmt.Sprintf("Status: routed. Spec: %s.", filepath.Base(filepath.Dir(result.SpecPath))+"/"+filepath.Base(result.SpecPath)),
		})
	}

	if err := r.digest.Append(results); err != nil {
		fmt.Printf("❌ Digest write failed: %v\n", err)
	}
	if err := r.ledger.Append("process-thoughts", ledgerEntries); err != nil {
		fmt.Printf("❌ Ledger write failed: %v\n", err)
	}

	return summary, nil
}

// materialize handles a single thought end to end.
func (r *Runner) materialize(thought *domain.Thought) Result {
	projectName := FolderName(thought.Content)
	result := Result{ThoughtID: thought.ID, ProjectName: projectName}

	analysis, err := r.analyzer.Analyze(thought.Content)
	if err != nil {
		// Selected analyzers degrade internally; a raw adapter error
		// still must not kill the batch.
		fb := &analyzer.Fallback{Reason: "AI analysis failed"}
		analysis, _ = fb.Analyze(thought.Content)
	}

	specContent, err := renderSpec(projectName, thought, analysis)
	if err != nil {
		result.Error = fmt.Sprintf("render spec: %v", err)
		return result
	}

	folderPath := filepath.Join(r.ideasDir, projectName)
	specPath := filepath.Join(folderPath, "SPEC.md")
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		result.Error = fmt.Sprintf("create project folder: %v", err)
		return result
	}
	if err := os.WriteFile(specPath, []byte(specContent), 0644); err != nil {
		result.Error = fmt.Sprintf("write spec: %v", err)
		return result
	}

	status := domain.StatusRouted
	now := timeNow()
	note := fmt.Sprintf("Processed and routed to %s", filepath.Join(filepath.Base(r.ideasDir), projectName))
	err = r.store.UpdateThought(thought.ID, store.ThoughtUpdate{
		Status:      &status,
		RoutedTo:    &specPath,
		ProcessedAt: &now,
		AIAnalysis:  &note,
	})
	if err != nil {
		result.Error = fmt.Sprintf("update thought: %v", err)
		return result
	}

	result.FolderPath = folderPath
	result.SpecPath = specPath
	result.Success = true
	return result
}

var (
	prefixRe   = regexp.MustCompile(`(?i)^(idea:|note:|todo:|question:)\s*`)
	nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	dashRunRe  = regexp.MustCompile(`-+`)
)

// FolderName derives a folder-safe project name from the first line of
// content: strip capture prefixes, drop special characters, keep the
// first five words, Title-Case and hyphen-join them.
func FolderName(content string) string {
	firstLine := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	firstLine = prefixRe.ReplaceAllString(firstLine, "")
	firstLine = nonAlnumRe.ReplaceAllString(firstLine, "")

	words := strings.Fields(firstLine)
	if len(words) > 5 {
		words = words[:5]
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}

	name := dashRunRe.ReplaceAllString(strings.Join(words, "-"), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "Untitled-Project"
	}
	return name
}

func preview(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) > 50 {
		return content[:50] + "..."
	}
	return content
}
