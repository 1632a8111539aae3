package rules

import (
	"fmt"
	"strings"

	"github.com/pbaille/fleeting/internal/domain"
)

// ProjectMatch is a resolved (project, alias) hit from the project table.
type ProjectMatch struct {
	ID    string
	Name  string
	Alias string
}

// Result holds the classification output for one thought.
type Result struct {
	IsActionable bool
	Priority     domain.Priority
	Destination  domain.Destination
	Tags         []string
	Project      *ProjectMatch
}

// Classifier categorizes thought text against injected rule tables.
// Classification never fails: every miss degrades to a default.
type Classifier struct {
	tables Tables
}

// NewClassifier creates a Classifier over the given tables.
func NewClassifier(t Tables) *Classifier {
	return &Classifier{tables: t}
}

// Tables returns the rule tables the classifier was built with.
func (c *Classifier) Tables() Tables {
	return c.tables
}

// Classify analyzes the text and returns actionability, priority,
// destination, accumulated tags, and any project match.
//
// Matching is plain substring containment over the lowercased text:
// no stemming, no negation handling ("don't need to" still counts as
// actionable). Known limitation, kept deliberately.
func (c *Classifier) Classify(text string, hasURL bool, contentType domain.ContentType, existingTags []string) Result {
	lower := strings.ToLower(text)

	r := Result{
		IsActionable: c.isActionable(lower),
		Priority:     c.priority(lower),
		Destination:  c.destination(lower),
		Tags:         c.accumulateTags(lower, existingTags),
		Project:      c.MatchProject(text),
	}

	// A link is reference material regardless of its keywords.
	if hasURL || contentType == domain.ContentLink {
		r.Destination = domain.DestReference
	}

	// Non-actionable items never land in a task manager.
	if !r.IsActionable {
		if hasURL {
			r.Destination = domain.DestReference
		} else {
			r.Destination = domain.DestNotes
		}
	}

	return r
}

func (c *Classifier) isActionable(lower string) bool {
	for _, phrase := range c.tables.ActionablePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, dest := range c.tables.Destinations {
		if dest.Destination != domain.DestThings {
			continue
		}
		for _, kw := range dest.Keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func (c *Classifier) priority(lower string) domain.Priority {
	for _, tier := range c.tables.Priorities {
		for _, kw := range tier.Keywords {
			if strings.Contains(lower, kw) {
				return tier.Level
			}
		}
	}
	return domain.PriorityMedium
}

func (c *Classifier) destination(lower string) domain.Destination {
	for _, rule := range c.tables.Destinations {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Destination
			}
		}
	}
	return domain.DestThings
}

// accumulateTags extends the existing tag set with every tag category
// whose keywords match, preserving existing order and skipping duplicates.
func (c *Classifier) accumulateTags(lower string, existing []string) []string {
	tags := make([]string, 0, len(existing)+2)
	tags = append(tags, existing...)

	for _, rule := range c.tables.Tags {
		if containsString(tags, rule.Tag) {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}

	return tags
}

// MatchProject resolves content to a known project by alias matching.
// Projects and aliases are tried in declared order; first hit wins.
// Returns nil when nothing matches.
func (c *Classifier) MatchProject(content string) *ProjectMatch {
	lower := strings.ToLower(content)
	for _, p := range c.tables.Projects {
		for _, alias := range p.Aliases {
			if strings.Contains(lower, alias) {
				return &ProjectMatch{ID: p.ID, Name: p.Name, Alias: alias}
			}
		}
	}
	return nil
}

// AnalysisSummary renders the one-line human-readable explanation that is
// stored on the thought after automated categorization.
func AnalysisSummary(actionable bool, dest domain.Destination, projectName string) string {
	actionText := "Actionable"
	if !actionable {
		actionText = "Informational/reference"
	}
	projectText := ""
	if projectName != "none" {
		projectText = fmt.Sprintf(" [%s]", projectName)
	}
	return fmt.Sprintf("%s. → %s.%s Auto-categorized by keyword matching.", actionText, dest, projectText)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
