package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pbaille/fleeting/internal/domain"
)

// timeNow is swapped in tests for deterministic session dates.
var timeNow = time.Now

// observationsMarker splits the ledger: automated session blocks are
// inserted above it, hand-written notes live below it.
const observationsMarker = "## Observations"

const seedContent = `# Pipeline Ledger

Append-only audit trail of every automated pipeline action.

` + observationsMarker + `

`

const tableHeader = "| Date | Thought ID | Summary | Action | Project | Reasoning | Outcome |\n" +
	"|------|-----------|---------|--------|---------|-----------|---------|"

// Writer appends dated session blocks of audit rows to a single shared
// markdown ledger document.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the ledger document at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the ledger document location.
func (w *Writer) Path() string {
	return w.path
}

// Append writes one session block for the named script containing the
// given rows. The block lands immediately before the Observations
// section when present, otherwise at the end of the document. A missing
// ledger file is seeded with a header rather than dropping the rows.
// Appending nothing is a no-op.
func (w *Writer) Append(script string, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	content, err := w.readOrSeed()
	if err != nil {
		return err
	}

	today := timeNow().Format("2006-01-02")

	var block strings.Builder
	fmt.Fprintf(&block, "\n### Automated: %s — %s\n\n", today, script)
	block.WriteString(tableHeader)
	for _, e := range entries {
		idDisplay := "—"
		if e.ThoughtID != domain.LedgerThoughtNA {
			idDisplay = fmt.Sprintf("`%s`", shortID(e.ThoughtID))
		}
		fmt.Fprintf(&block, "\n| %s | %s | %s | %s | %s | %s | %s |",
			today, idDisplay, cell(e.Summary), cell(e.Action), cell(e.Project), cell(e.Reasoning), cell(e.Outcome))
	}

	if idx := strings.Index(content, observationsMarker); idx >= 0 {
		content = content[:idx] + block.String() + "\n\n" + content[idx:]
	} else {
		content += "\n" + block.String() + "\n"
	}

	if err := os.WriteFile(w.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func (w *Writer) readOrSeed() (string, error) {
	data, err := os.ReadFile(w.path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read ledger: %w", err)
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create ledger dir: %w", err)
		}
	}
	return seedContent, nil
}

// cell sanitizes a value for a markdown table row: pipes and newlines
// would break the column layout.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
