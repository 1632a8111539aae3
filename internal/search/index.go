// Package search maintains a full-text index over captured thoughts.
package search

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/pbaille/fleeting/internal/domain"
)

// Index wraps a bleve index of thought records.
type Index struct {
	index bleve.Index
}

// IndexedThought is the document shape stored in the index.
type IndexedThought struct {
	ID         string
	Content    string
	Tags       []string
	Status     string
	Source     string
	CapturedAt time.Time
}

// Result is one search hit.
type Result struct {
	ID        string
	Score     float64
	Fragments map[string][]string
}

// Open opens or creates the index at path.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("ID", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Content", contentFieldMapping)
	docMapping.AddFieldMappingsAt("Tags", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Status", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Source", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexThought adds or updates one thought in the index.
func (i *Index) IndexThought(t *domain.Thought) error {
	doc := IndexedThought{
		ID:         t.ID,
		Content:    t.Content,
		Tags:       t.Tags,
		Status:     string(t.Status),
		Source:     string(t.Source),
		CapturedAt: t.CapturedAt,
	}
	return i.index.Index(t.ID, doc)
}

// Delete removes a thought from the index.
func (i *Index) Delete(id string) error {
	return i.index.Delete(id)
}

// Rebuild reindexes the given thoughts in one batch.
func (i *Index) Rebuild(thoughts []domain.Thought) error {
	batch := i.index.NewBatch()
	for idx := range thoughts {
		t := &thoughts[idx]
		doc := IndexedThought{
			ID:         t.ID,
			Content:    t.Content,
			Tags:       t.Tags,
			Status:     string(t.Status),
			Source:     string(t.Source),
			CapturedAt: t.CapturedAt,
		}
		if err := batch.Index(t.ID, doc); err != nil {
			return fmt.Errorf("batch index %s: %w", t.ID, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}
	return nil
}

// Search runs a query-string search with highlighted fragments.
func (i *Index) Search(queryStr string, limit int) ([]Result, error) {
	query := bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlight()
	req.Fields = []string{"ID"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, Result{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		})
	}
	return results, nil
}
