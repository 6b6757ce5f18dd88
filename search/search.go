package search

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/jonwraymond/toolprompts/prompts"
)

const (
	defaultMaxResults = 20
	defaultNameBoost  = 2
)

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("searcher closed")

// Config configures a Searcher.
type Config struct {
	// MaxResults is the limit used when Search is called with limit <= 0.
	MaxResults int
	// NameBoost weights matches on the tool name against matches on prompt text.
	NameBoost float64
}

// Hit is one matching prompt.
type Hit struct {
	Tool     string  `json:"tool"`
	Prompt   string  `json:"prompt"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

type promptDoc struct {
	Tool     string
	Prompt   string
	Position int
}

// Searcher ranks prompts with BM25 scoring over a Bleve index.
type Searcher struct {
	cfg Config

	mu          sync.RWMutex
	index       bleve.Index
	docs        []promptDoc
	fingerprint string
	closed      bool
}

// NewSearcher creates a Searcher. Zero config values use defaults.
func NewSearcher(cfg Config) *Searcher {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.NameBoost <= 0 {
		cfg.NameBoost = defaultNameBoost
	}
	return &Searcher{cfg: cfg}
}

// Search returns up to limit prompts from r matching query.
func (s *Searcher) Search(r *prompts.Registry, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}

	docs := collectDocs(r)
	if err := s.ensureIndex(docs); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		n := min(limit, len(s.docs))
		hits := make([]Hit, 0, n)
		for _, doc := range s.docs[:n] {
			hits = append(hits, Hit{Tool: doc.Tool, Prompt: doc.Prompt, Position: doc.Position})
		}
		return hits, nil
	}
	if len(s.docs) == 0 {
		return []Hit{}, nil
	}

	promptQuery := bleve.NewMatchQuery(query)
	promptQuery.SetField("prompt")
	toolQuery := bleve.NewMatchQuery(query)
	toolQuery.SetField("tool")
	toolQuery.SetBoost(s.cfg.NameBoost)

	// bleve breaks score ties by document ID, so fetch every match and
	// apply the (tool, position) ordering before truncating.
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(promptQuery, toolQuery), len(s.docs), 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, match := range res.Hits {
		i, err := strconv.Atoi(match.ID)
		if err != nil || i < 0 || i >= len(s.docs) {
			continue
		}
		doc := s.docs[i]
		hits = append(hits, Hit{
			Tool:     doc.Tool,
			Prompt:   doc.Prompt,
			Position: doc.Position,
			Score:    match.Score,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Tool != hits[j].Tool {
			return hits[i].Tool < hits[j].Tool
		}
		return hits[i].Position < hits[j].Position
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close releases the index.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

func (s *Searcher) ensureIndex(docs []promptDoc) error {
	fp := computeFingerprint(docs)

	s.mu.RLock()
	current := s.fingerprint == fp && s.index != nil
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if current {
		return nil
	}

	idx, err := buildIndex(docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = idx.Close()
		return ErrClosed
	}
	if s.index != nil {
		_ = s.index.Close()
	}
	s.index = idx
	s.docs = docs
	s.fingerprint = fp
	return nil
}

func buildIndex(docs []promptDoc) (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := idx.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(strconv.Itoa(i), map[string]any{
			"tool":   toolText(doc.Tool),
			"prompt": doc.Prompt,
		}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index prompt: %w", err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to index prompts: %w", err)
	}
	return idx, nil
}

func newMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("tool", bleve.NewTextFieldMapping())
	doc.AddFieldMappingsAt("prompt", bleve.NewTextFieldMapping())

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

var toolSeparators = strings.NewReplacer("_", " ", "-", " ", ":", " ", ".", " ")

// toolText splits identifiers like pull_function_code into words.
func toolText(name string) string {
	return toolSeparators.Replace(name)
}

func collectDocs(r *prompts.Registry) []promptDoc {
	all := r.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var docs []promptDoc
	for _, name := range names {
		for i, p := range all[name] {
			docs = append(docs, promptDoc{Tool: name, Prompt: p, Position: i})
		}
	}
	return docs
}
