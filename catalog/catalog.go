// Package catalog provides a searchable index over the RPC error taxonomy.
//
// The classification table in package rpcerr answers "what is this tag";
// the catalog answers the reverse questions: which tags exist for a
// category, and which kind matches a plain-language description of a
// symptom. It is built on a Bleve full-text index seeded from the
// registered kinds.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/vinayprograms/tgkit/rpcerr"
)

// Entry is one row of the catalog: a registered kind with its taxonomy
// placement and description.
type Entry struct {
	Tag         string `json:"tag"`  // canonical tag template, e.g. FLOOD_WAIT_X
	Kind        string `json:"kind"` // equals Tag for specific kinds
	Category    string `json:"category"`
	Code        int    `json:"code"`
	Description string `json:"description"`
	Generic     bool   `json:"generic"` // category fallback kind
}

// Catalog is a read-mostly search index over the error taxonomy.
type Catalog struct {
	mu    sync.RWMutex
	index bleve.Index
}

// Open opens (or creates) a catalog index at the given path and seeds it
// from the registered classification table. Reopening an existing index
// re-seeds it, so the catalog always reflects the current table.
func Open(path string) (*Catalog, error) {
	var index bleve.Index
	var err error

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog index: %w", err)
		}
	} else {
		index, err = bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog index: %w", err)
		}
	}

	c := &Catalog{index: index}
	if err := c.seed(); err != nil {
		index.Close()
		return nil, err
	}
	return c, nil
}

// OpenMemory creates an in-memory catalog. Useful for tools and tests that
// do not want an on-disk index.
func OpenMemory() (*Catalog, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog index: %w", err)
	}

	c := &Catalog{index: index}
	if err := c.seed(); err != nil {
		index.Close()
		return nil, err
	}
	return c, nil
}

// buildIndexMapping creates the Bleve index mapping for catalog entries.
func buildIndexMapping() mapping.IndexMapping {
	entryMapping := bleve.NewDocumentMapping()

	// Description is analyzed for full-text search.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name

	// Tags and categories are exact-match identifiers.
	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	numericFieldMapping := bleve.NewNumericFieldMapping()

	entryMapping.AddFieldMappingsAt("tag", keywordFieldMapping)
	entryMapping.AddFieldMappingsAt("kind", keywordFieldMapping)
	entryMapping.AddFieldMappingsAt("category", keywordFieldMapping)
	entryMapping.AddFieldMappingsAt("code", numericFieldMapping)
	entryMapping.AddFieldMappingsAt("description", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = entryMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// seed indexes every registered kind. Entries are keyed by tag, so
// re-seeding an existing index is an upsert.
func (c *Catalog) seed() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.index.NewBatch()
	for _, rk := range rpcerr.Registered() {
		entry := Entry{
			Tag:         rk.Kind.String(),
			Kind:        rk.Kind.String(),
			Category:    rk.Category.Name(),
			Code:        rk.Category.Code(),
			Description: rk.Description,
			Generic:     rk.Generic,
		}
		if err := batch.Index(entry.Tag, entry); err != nil {
			return fmt.Errorf("failed to index catalog entry %s: %w", entry.Tag, err)
		}
	}
	if err := c.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// tagValue matches the numeric payload segment of a concrete tag.
var tagValue = regexp.MustCompile(`_(\d+)`)

// Lookup returns the catalog entry for a tag. Concrete tags are reduced to
// their template first, so FLOOD_WAIT_30 finds the FLOOD_WAIT_X entry.
// Returns nil when the tag is not in the catalog.
func (c *Catalog) Lookup(tag string) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, err := c.lookupExact(tag)
	if err != nil || entry != nil {
		return entry, err
	}

	if template := tagValue.ReplaceAllString(tag, "_X"); template != tag {
		return c.lookupExact(template)
	}
	return nil, nil
}

func (c *Catalog) lookupExact(tag string) (*Entry, error) {
	docIDQuery := bleve.NewDocIDQuery([]string{tag})
	searchReq := bleve.NewSearchRequest(docIDQuery)
	searchReq.Fields = []string{"*"}
	searchReq.Size = 1

	results, err := c.index.Search(searchReq)
	if err != nil {
		return nil, err
	}
	if results.Total == 0 {
		return nil, nil
	}

	entry := entryFromHit(results.Hits[0].ID, results.Hits[0].Fields)
	return &entry, nil
}

// Category returns every entry registered under a category, generic kind
// included.
func (c *Catalog) Category(cat rpcerr.Category) ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categoryQuery := bleve.NewTermQuery(cat.Name())
	categoryQuery.SetField("category")

	searchReq := bleve.NewSearchRequest(categoryQuery)
	searchReq.Fields = []string{"*"}
	searchReq.Size = 1000

	results, err := c.index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("category search failed: %w", err)
	}

	var entries []Entry
	for _, hit := range results.Hits {
		entries = append(entries, entryFromHit(hit.ID, hit.Fields))
	}
	return entries, nil
}

// Search performs full-text search over descriptions and tags. An exact tag
// is matched directly; everything else runs through the analyzer, so
// "phone number" finds PHONE_NUMBER_INVALID and friends.
func (c *Catalog) Search(queryText string, limit int) ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	descQuery := bleve.NewMatchQuery(queryText)
	descQuery.SetField("description")

	tagQuery := bleve.NewTermQuery(queryText)
	tagQuery.SetField("tag")

	searchQuery := bleve.NewDisjunctionQuery([]query.Query{descQuery, tagQuery}...)

	searchReq := bleve.NewSearchRequest(searchQuery)
	searchReq.Fields = []string{"*"}
	searchReq.Size = limit

	results, err := c.index.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var entries []Entry
	for _, hit := range results.Hits {
		entries = append(entries, entryFromHit(hit.ID, hit.Fields))
	}
	return entries, nil
}

// Count returns the number of entries in the catalog.
func (c *Catalog) Count() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.DocCount()
}

// Close closes the underlying index.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Close()
}

// entryFromHit reconstructs an Entry from stored fields. Bleve returns
// numerics as float64 and booleans as bool.
func entryFromHit(id string, fields map[string]interface{}) Entry {
	entry := Entry{Tag: id}
	if v, ok := fields["kind"].(string); ok {
		entry.Kind = v
	}
	if v, ok := fields["category"].(string); ok {
		entry.Category = v
	}
	if v, ok := fields["code"].(float64); ok {
		entry.Code = int(v)
	}
	if v, ok := fields["description"].(string); ok {
		entry.Description = v
	}
	if v, ok := fields["generic"].(bool); ok {
		entry.Generic = v
	}
	return entry
}
