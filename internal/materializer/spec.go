package materializer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pbaille/fleeting/internal/domain"
)

// specData feeds the project specification template. List fields that
// may be empty carry precomputed fallbacks so the template stays flat.
type specData struct {
	Title           string
	Today           string
	Timestamp       string
	Vision          string
	Platform        string
	Complexity      string
	Dependencies    string
	SimilarTo       string
	Summary         string
	Feasibility     string
	MVPFeatures     []string
	PhaseFeatures   []string
	OutOfScope      []string
	NextSteps       []string
	RelatedConcepts []string
	TechStack       string
	OriginalContent string
	CapturedAt      string
	Priority        string
	Tags            string
}

var specTemplate = template.Must(template.New("spec").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`# {{.Title}}

> **Status:** 📋 Idea | **Created:** {{.Today}} | **Source:** Fleeting Thoughts

---

## Overview

**Problem Statement:**
{{.Summary}}

**Vision:**
{{.Vision}}

**Target Platform:**
{{.Platform}}

---

## Quick Reference

| Attribute | Value |
|-----------|-------|
| Complexity | {{.Complexity}} |
| Effort | TBD |
| Dependencies | {{.Dependencies}} |
| Similar To | {{.SimilarTo}} |

---

## MVP Definition

### Core Features (Must Have)
{{range .MVPFeatures}}- [ ] {{.}}
{{end}}
### Nice to Have (Post-MVP)
- [ ] Enhanced UI/UX polish
- [ ] Additional integrations

### Out of Scope (Not Building)
{{if .OutOfScope}}{{range .OutOfScope}}- ❌ {{.}}
{{end}}{{else}}- ❌ TBD - Define scope boundaries
{{end}}
---

## Technical Architecture

### Stack
` + "```" + `
Platform: {{.Platform}}
Frameworks: {{.TechStack}}
Backend: TBD
` + "```" + `

---

## Implementation Phases

### Phase 1: Foundation
**Goal:** Set up project structure and core architecture
- [ ] Create project skeleton
- [ ] Set up basic structure
- [ ] Implement core data models

### Phase 2: Core Features
**Goal:** Build MVP functionality
{{range .PhaseFeatures}}- [ ] Implement: {{.}}
{{end}}
### Phase 3: Polish & Ship
**Goal:** Prepare for release
- [ ] Polish and refinement
- [ ] Testing and bug fixes

---

## AI Analysis

**Generated:** {{.Timestamp}}

### Summary
{{.Summary}}

### Feasibility Assessment
{{.Feasibility}}

### Suggested Next Steps
{{range $i, $s := .NextSteps}}{{inc $i}}. {{$s}}
{{end}}
### Related Concepts
{{if .RelatedConcepts}}{{range .RelatedConcepts}}- {{.}}
{{end}}{{else}}- None identified
{{end}}
---

## Original Capture

` + "```" + `
{{.OriginalContent}}
` + "```" + `

**Captured:** {{.CapturedAt}}
**Priority:** {{.Priority}}
**Tags:** {{.Tags}}

---

## Status Log

| Date | Status | Notes |
|------|--------|-------|
| {{.Today}} | 📋 Idea Captured | Initial capture from Fleeting Thoughts |
| {{.Today}} | 🔍 AI Processed | Deep dive completed |
| {{.Today}} | 📁 Routed | Folder created, spec generated |

---

*Last updated: {{.Today}}*
*Source: Fleeting Thoughts*
`))

// renderSpec renders the specification document for one thought.
func renderSpec(projectName string, thought *domain.Thought, analysis *domain.Analysis) (string, error) {
	now := timeNow()

	phaseFeatures := analysis.MVPFeatures
	if len(phaseFeatures) > 3 {
		phaseFeatures = phaseFeatures[:3]
	}

	priority := "Not set"
	if thought.Priority != nil {
		priority = string(*thought.Priority)
	}
	tags := "None"
	if len(thought.Tags) > 0 {
		tags = strings.Join(thought.Tags, ", ")
	}

	data := specData{
		Title:           strings.ReplaceAll(projectName, "-", " "),
		Today:           now.Format("2006-01-02"),
		Timestamp:       now.Format("2006-01-02T15:04:05Z07:00"),
		Vision:          strings.TrimSpace(strings.SplitN(thought.Content, "\n", 2)[0]),
		Platform:        orTBD(analysis.Platform),
		Complexity:      orTBD(analysis.Complexity),
		Dependencies:    joinOrTBD(analysis.TechStack),
		SimilarTo:       joinOrTBD(analysis.RelatedConcepts),
		Summary:         analysis.Summary,
		Feasibility:     analysis.Feasibility,
		MVPFeatures:     analysis.MVPFeatures,
		PhaseFeatures:   phaseFeatures,
		OutOfScope:      analysis.OutOfScope,
		NextSteps:       analysis.NextSteps,
		RelatedConcepts: analysis.RelatedConcepts,
		TechStack:       joinOrTBD(analysis.TechStack),
		OriginalContent: thought.Content,
		CapturedAt:      thought.CapturedAt.Format("2006-01-02 15:04:05"),
		Priority:        priority,
		Tags:            tags,
	}

	var sb strings.Builder
	if err := specTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return sb.String(), nil
}

func orTBD(s string) string {
	if s == "" {
		return "TBD"
	}
	return s
}

func joinOrTBD(list []string) string {
	if len(list) == 0 {
		return "TBD"
	}
	return strings.Join(list, ", ")
}
