// Package search provides full-text search over the example prompts held by
// a prompts.Registry.
//
// It exists to:
//   - Let clients find the tool that matches a natural-language request
//   - Keep the prompts package free of search dependencies
//
// # Usage
//
//	s := search.NewSearcher(search.Config{})
//	defer s.Close()
//
//	hits, err := s.Search(reg, "download function code", 5)
//
// # Configuration
//
// [Config] controls result limits and how much tool-name matches count:
//
//	cfg := search.Config{
//	    MaxResults: 20, // Used when limit <= 0 (default: 20)
//	    NameBoost:  2,  // Boost tool name matches (default: 2)
//	}
//
// # Thread Safety
//
// Searcher is safe for concurrent use. It caches a Bleve index keyed by a
// fingerprint of the registry contents and rebuilds it only when the
// registered prompts change.
//
// # Behavior
//
// Empty queries return the first N prompts ordered by tool name, then by
// position within the tool's list. Non-empty queries are ranked by score
// with deterministic tie-breaking (score DESC, tool ASC, position ASC).
package search
