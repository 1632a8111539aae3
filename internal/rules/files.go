package rules

import (
	"path/filepath"
	"strings"

	"github.com/pbaille/fleeting/internal/domain"
)

// IsHubFile reports whether the filename is a hub file that must never
// be ingested as content. Exact, case-sensitive match.
func (t Tables) IsHubFile(filename string) bool {
	return containsString(t.HubFiles, filename)
}

// Ingestible reports whether a directory entry is eligible for ingestion:
// not hidden, not underscore-prefixed, not a hub file, and carrying an
// allowed extension.
func (t Tables) Ingestible(filename string) bool {
	if strings.HasPrefix(filename, ".") || strings.HasPrefix(filename, "_") {
		return false
	}
	if t.IsHubFile(filename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return containsString(t.Extensions, ext)
}

// ContentTypeFor derives the content type tag for a filename.
// Anything that is not a PDF is treated as text.
func ContentTypeFor(filename string) domain.ContentType {
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		return domain.ContentPDF
	}
	return domain.ContentText
}
