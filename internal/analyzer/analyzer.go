// Package analyzer turns raw thought content into a structured project
// brief. The Anthropic adapter is used when an API key is configured;
// otherwise (or when a call fails) a deterministic fallback produces
// the brief, so callers never branch on availability.
package analyzer

import (
	"fmt"

	"github.com/pbaille/fleeting/internal/domain"
)

// Analyzer produces a structured brief for a thought's content.
type Analyzer interface {
	Analyze(content string) (*domain.Analysis, error)
}

// Select picks the analyzer for this process: the Anthropic adapter
// wrapped with fallback-on-failure when a key is configured, the plain
// deterministic fallback otherwise.
func Select() Analyzer {
	a, err := NewAnthropic()
	if err != nil {
		return &Fallback{Reason: "ANTHROPIC_API_KEY not configured"}
	}
	return &resilient{inner: a}
}

// resilient degrades a failing analyzer to the deterministic fallback
// instead of propagating the error to the batch.
type resilient struct {
	inner Analyzer
}

func (r *resilient) Analyze(content string) (*domain.Analysis, error) {
	analysis, err := r.inner.Analyze(content)
	if err == nil {
		return analysis, nil
	}
	fmt.Printf("  AI analysis failed (%v), using fallback\n", err)
	fb := &Fallback{Reason: "AI analysis failed"}
	return fb.Analyze(content)
}

// Fallback is the deterministic analyzer: it echoes the content as the
// summary and flags the item for manual review.
type Fallback struct {
	Reason string
}

// Analyze never fails.
func (f *Fallback) Analyze(content string) (*domain.Analysis, error) {
	return &domain.Analysis{
		Summary:     content,
		Feasibility: fmt.Sprintf("Requires further analysis — %s", f.Reason),
		NextSteps: []string{
			"Configure ANTHROPIC_API_KEY for AI analysis",
			"Manual review required",
		},
		RelatedConcepts: nil,
		MVPFeatures:     []string{"Define core features manually"},
		OutOfScope:      nil,
		Complexity:      "🟡 Medium",
		Platform:        "TBD",
		TechStack:       nil,
	}, nil
}
