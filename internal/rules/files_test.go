package rules

import (
	"testing"

	"github.com/pbaille/fleeting/internal/domain"
)

func TestIngestible_Markdown(t *testing.T) {
	if !Defaults().Ingestible("note.md") {
		t.Error("note.md should be ingestible")
	}
}

func TestIngestible_ExtensionCaseInsensitive(t *testing.T) {
	if !Defaults().Ingestible("Scan.PDF") {
		t.Error("Scan.PDF should be ingestible regardless of extension case")
	}
}

func TestIngestible_RejectsHidden(t *testing.T) {
	if Defaults().Ingestible(".DS_Store") {
		t.Error("hidden files must not be ingested")
	}
}

func TestIngestible_RejectsUnderscore(t *testing.T) {
	if Defaults().Ingestible("_processed") {
		t.Error("underscore-prefixed entries must not be ingested")
	}
}

func TestIngestible_RejectsHubFile(t *testing.T) {
	if Defaults().Ingestible("CLAUDE.md") {
		t.Error("hub files must never be ingested")
	}
}

func TestIngestible_HubFileMatchIsCaseSensitive(t *testing.T) {
	if !Defaults().Ingestible("claude.md") {
		t.Error("hub file exclusion is an exact, case-sensitive match")
	}
}

func TestIngestible_RejectsUnknownExtension(t *testing.T) {
	if Defaults().Ingestible("photo.jpg") {
		t.Error("jpg is not on the extension allow-list")
	}
}

func TestContentTypeFor_PDF(t *testing.T) {
	if got := ContentTypeFor("paper.pdf"); got != domain.ContentPDF {
		t.Errorf("ContentTypeFor(paper.pdf) = %s, want pdf", got)
	}
}

func TestContentTypeFor_TextFormats(t *testing.T) {
	for _, name := range []string{"note.md", "note.txt", "weird.xyz"} {
		if got := ContentTypeFor(name); got != domain.ContentText {
			t.Errorf("ContentTypeFor(%s) = %s, want text", name, got)
		}
	}
}

func TestIsHubFile(t *testing.T) {
	tables := Defaults()
	if !tables.IsHubFile("AGENTS.md") {
		t.Error("AGENTS.md is a hub file")
	}
	if tables.IsHubFile("notes.md") {
		t.Error("notes.md is not a hub file")
	}
}
