package rules

import (
	"reflect"
	"testing"

	"github.com/pbaille/fleeting/internal/domain"
)

func testClassifier() *Classifier {
	t := Defaults()
	t.Projects = []ProjectRule{
		{ID: "p-waypoint", Name: "WaypointHub", Aliases: []string{"waypoint", "constellation"}},
		{ID: "p-spatialis", Name: "Spatialis", Aliases: []string{"spatialis", "drawing app"}},
	}
	return NewClassifier(t)
}

// --- Actionability ---

func TestClassify_ActionablePhrase(t *testing.T) {
	r := testClassifier().Classify("I need to build a quick voice note capture app", false, domain.ContentText, nil)
	if !r.IsActionable {
		t.Error("text with 'need to' should be actionable")
	}
}

func TestClassify_ThingsKeywordIsActionable(t *testing.T) {
	r := testClassifier().Classify("update the onboarding copy", false, domain.ContentText, nil)
	if !r.IsActionable {
		t.Error("text with a things keyword should be actionable")
	}
}

func TestClassify_NotActionable(t *testing.T) {
	r := testClassifier().Classify("an interesting essay about typography", false, domain.ContentText, nil)
	if r.IsActionable {
		t.Error("plain informational text should not be actionable")
	}
}

func TestClassify_NoNegationHandling(t *testing.T) {
	// Substring matching has no negation handling; this is a documented
	// limitation, not a bug.
	r := testClassifier().Classify("don't need to worry about this", false, domain.ContentText, nil)
	if !r.IsActionable {
		t.Error("negated phrase still counts as actionable under substring matching")
	}
}

// --- Priority ---

func TestClassify_PriorityHigh(t *testing.T) {
	r := testClassifier().Classify("urgent: ship the release", false, domain.ContentText, nil)
	if r.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high", r.Priority)
	}
}

func TestClassify_PriorityTierPrecedence(t *testing.T) {
	// Text matching both a high and a someday keyword resolves to high.
	r := testClassifier().Classify("urgent, but also someday material", false, domain.ContentText, nil)
	if r.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high (tier order is high, medium, low, someday)", r.Priority)
	}
}

func TestClassify_PriorityDefaultsToMedium(t *testing.T) {
	r := testClassifier().Classify("random musing with no keywords", false, domain.ContentText, nil)
	if r.Priority != domain.PriorityMedium {
		t.Errorf("priority = %s, want medium default", r.Priority)
	}
}

// --- Destination ---

func TestClassify_DestinationFirstMatch(t *testing.T) {
	r := testClassifier().Classify("remind me to call the dentist todo", false, domain.ContentText, nil)
	// "todo" is a things keyword and things is declared first.
	if r.Destination != domain.DestThings {
		t.Errorf("destination = %s, want things (declaration order wins)", r.Destination)
	}
}

func TestClassify_DestinationDefaultActionable(t *testing.T) {
	r := testClassifier().Classify("must finish the thing", false, domain.ContentText, nil)
	if r.Destination != domain.DestThings {
		t.Errorf("destination = %s, want things default for actionable text", r.Destination)
	}
}

func TestClassify_NonActionableDefaultsToNotes(t *testing.T) {
	r := testClassifier().Classify("a quiet observation", false, domain.ContentText, nil)
	if r.Destination != domain.DestNotes {
		t.Errorf("destination = %s, want notes for non-actionable text without URL", r.Destination)
	}
}

func TestClassify_URLForcesReference(t *testing.T) {
	r := testClassifier().Classify("must fix this todo task", true, domain.ContentText, nil)
	if r.Destination != domain.DestReference {
		t.Errorf("destination = %s, want reference when a URL is present", r.Destination)
	}
}

func TestClassify_LinkContentTypeForcesReference(t *testing.T) {
	r := testClassifier().Classify("implement the pattern from here", false, domain.ContentLink, nil)
	if r.Destination != domain.DestReference {
		t.Errorf("destination = %s, want reference for link content", r.Destination)
	}
}

func TestClassify_NonActionableWithURL(t *testing.T) {
	r := testClassifier().Classify("Interesting piece on birds", true, domain.ContentText, nil)
	if r.IsActionable {
		t.Fatal("should not be actionable")
	}
	if r.Destination != domain.DestReference {
		t.Errorf("destination = %s, want reference for non-actionable with URL", r.Destination)
	}
}

// --- Tags ---

func TestClassify_TagAccumulation(t *testing.T) {
	r := testClassifier().Classify("fix the crash in the pipeline", false, domain.ContentText, []string{"existing"})
	want := []string{"existing", "bug", "infrastructure"}
	if !reflect.DeepEqual(r.Tags, want) {
		t.Errorf("tags = %v, want %v", r.Tags, want)
	}
}

func TestClassify_TagNoDuplicates(t *testing.T) {
	r := testClassifier().Classify("bug: broken error state", false, domain.ContentText, []string{"bug"})
	count := 0
	for _, tag := range r.Tags {
		if tag == "bug" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("tag 'bug' appears %d times, want 1", count)
	}
}

// --- Project matching ---

func TestMatchProject_FirstHitWins(t *testing.T) {
	// Both projects' aliases appear; the first declared project wins.
	m := testClassifier().MatchProject("waypoint ideas for the spatialis viewer")
	if m == nil {
		t.Fatal("expected a project match")
	}
	if m.ID != "p-waypoint" {
		t.Errorf("matched project %s, want p-waypoint (declaration order wins)", m.ID)
	}
}

func TestMatchProject_CaseInsensitive(t *testing.T) {
	m := testClassifier().MatchProject("WAYPOINT launcher tweaks")
	if m == nil || m.Name != "WaypointHub" {
		t.Errorf("match = %+v, want WaypointHub", m)
	}
}

func TestMatchProject_NoMatch(t *testing.T) {
	if m := testClassifier().MatchProject("completely unrelated"); m != nil {
		t.Errorf("match = %+v, want nil", m)
	}
}

// --- Analysis summary ---

func TestAnalysisSummary_WithProject(t *testing.T) {
	got := AnalysisSummary(true, domain.DestThings, "WaypointHub")
	want := "Actionable. → things. [WaypointHub] Auto-categorized by keyword matching."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestAnalysisSummary_NoProject(t *testing.T) {
	got := AnalysisSummary(false, domain.DestNotes, "none")
	want := "Informational/reference. → notes. Auto-categorized by keyword matching."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}
