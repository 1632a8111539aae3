// Package pipeline holds the transition guard and the inbox processor:
// the keyword categorization sweep over freshly captured thoughts.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/fleeting/internal/domain"
	"github.com/pbaille/fleeting/internal/ledger"
	"github.com/pbaille/fleeting/internal/rules"
	"github.com/pbaille/fleeting/internal/store"
)

// timeNow is swapped in tests for deterministic processed_at stamps.
var timeNow = time.Now

// InboxSummary is the observational outcome of one processor run.
type InboxSummary struct {
	Total         int
	Actionable    int
	Skipped       int
	Failed        int
	ByDestination map[domain.Destination]int
	ByPriority    map[domain.Priority]int
}

// Processor categorizes unprocessed inbox thoughts and advances their
// status, one item at a time, oldest first.
type Processor struct {
	store      store.Store
	classifier *rules.Classifier
	ledger     *ledger.Writer
}

// NewProcessor creates an inbox Processor.
func NewProcessor(s store.Store, c *rules.Classifier, lw *ledger.Writer) *Processor {
	return &Processor{store: s, classifier: c, ledger: lw}
}

// Run processes every inbox thought with no processed_at. Guard
// rejections and per-item store failures skip that item only.
func (p *Processor) Run() (*InboxSummary, error) {
	thoughts, err := p.store.UnprocessedInbox()
	if err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}

	summary := &InboxSummary{
		Total:         len(thoughts),
		ByDestination: map[domain.Destination]int{},
		ByPriority:    map[domain.Priority]int{},
	}

	var ledgerEntries []domain.LedgerEntry

	for i := range thoughts {
		thought := &thoughts[i]
		preview := preview(thought.Content)
		fmt.Printf("\n📝 Processing: %q\n", preview)

		hasURL := thought.URL != nil && *thought.URL != ""
		result := p.classifier.Classify(thought.Content, hasURL, thought.ContentType, thought.Tags)

		newStatus := domain.StatusProcessing
		if result.IsActionable {
			newStatus = domain.StatusRouted
		}

		if ok, reason := ValidateTransition(thought.Status, newStatus); !ok {
			fmt.Printf("  ⚠️ Skipping — %s\n", reason)
			summary.Skipped++
			continue
		}

		// An explicit project assignment wins over a fresh keyword match.
		projectID := thought.ProjectID
		if projectID == nil && result.Project != nil {
			projectID = &result.Project.ID
		}
		projectName := p.classifier.Tables().ProjectName(projectID)
		if result.Project != nil {
			projectName = result.Project.Name
		}

		analysis := rules.AnalysisSummary(result.IsActionable, result.Destination, projectName)
		now := timeNow()

		update := store.ThoughtUpdate{
			Status:       &newStatus,
			Priority:     &result.Priority,
			Tags:         result.Tags,
			IsActionable: &result.IsActionable,
			Destination:  &result.Destination,
			AIAnalysis:   &analysis,
			ProcessedAt:  &now,
		}
		if projectID != nil {
			update.ProjectID = projectID
		}

		ok, err := p.store.UpdateIfUnprocessed(thought.ID, update)
		if err != nil {
			fmt.Printf("  ❌ Error updating: %v\n", err)
			summary.Failed++
			continue
		}
		if !ok {
			// Claimed by a concurrent run between fetch and update.
			fmt.Printf("  ⚠️ Skipping — already processed\n")
			summary.Skipped++
			continue
		}

		if result.IsActionable {
			summary.Actionable++
		}
		summary.ByDestination[result.Destination]++
		summary.ByPriority[result.Priority]++

		label := "Reference"
		if result.IsActionable {
			label = "Actionable"
		}
		fmt.Printf("  ✅ %s | %s | → %s | %s\n", label, result.Priority, result.Destination, projectName)
		if len(result.Tags) > 0 {
			fmt.Printf("     Tags: %s\n", strings.Join(result.Tags, ", "))
		}

		ledgerEntries = append(ledgerEntries, domain.LedgerEntry{
			ThoughtID: thought.ID,
			Summary:   preview,
			Action:    "categorized",
			Project:   projectName,
			Reasoning: fmt.Sprintf("Keyword match. %s. Priority: %s. Destination: %s.", label, result.Priority, result.Destination),
			Outcome:   fmt.Sprintf("Status: %s. Project: %s.", newStatus, projectName),
		})
	}

	if err := p.ledger.Append("process-inbox", ledgerEntries); err != nil {
		fmt.Printf("❌ Ledger write failed: %v\n", err)
	}

	return summary, nil
}

// preview shortens content to a one-line ledger/console summary.
func preview(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) > 50 {
		return content[:50] + "..."
	}
	return content
}
