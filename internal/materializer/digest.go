package materializer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// maxDigestDays caps the rolling digest to the most recent calendar days.
const maxDigestDays = 30

// DayDigest groups one run day's materializer results.
type DayDigest struct {
	Date      string   `json:"date"`
	Processed []Result `json:"processed"`
}

// Digest is the rolling JSON log of materializer outcomes, independent
// of the shared ledger.
type Digest struct {
	path string
}

// NewDigest creates a Digest stored at path.
func NewDigest(path string) *Digest {
	return &Digest{path: path}
}

// Append merges results into today's entry, trims the log to the most
// recent days, and rewrites the file. Appending nothing is a no-op.
func (d *Digest) Append(results []Result) error {
	if len(results) == 0 {
		return nil
	}

	entries, err := d.read()
	if err != nil {
		return err
	}

	today := timeNow().Format("2006-01-02")
	merged := false
	for i := range entries {
		if entries[i].Date == today {
			entries[i].Processed = append(entries[i].Processed, results...)
			merged = true
			break
		}
	}
	if !merged {
		entries = append(entries, DayDigest{Date: today, Processed: results})
	}

	if len(entries) > maxDigestDays {
		entries = entries[len(entries)-maxDigestDays:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode digest: %w", err)
	}
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create digest dir: %w", err)
		}
	}
	if err := os.WriteFile(d.path, data, 0644); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}
	return nil
}

func (d *Digest) read() ([]DayDigest, error) {
	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read digest: %w", err)
	}

	var entries []DayDigest
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse digest: %w", err)
	}
	return entries, nil
}
