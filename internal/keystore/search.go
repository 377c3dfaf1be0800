package keystore

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchResult is one fuzzy match against the store's keys.
type SearchResult struct {
	Key          string `json:"key" yaml:"key"`
	Score        int    `json:"score" yaml:"score"`
	MatchedChars []int  `json:"-" yaml:"-"`
}

type keySource []string

func (s keySource) String(i int) string {
	return strings.ToLower(s[i])
}

func (s keySource) Len() int {
	return len(s)
}

// Search ranks the store's keys against query, best match first.
func (s *Store) Search(query string) ([]SearchResult, error) {
	if query == "" {
		return nil, nil
	}

	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	return SearchKeys(query, keys), nil
}

// SearchKeys ranks keys against query, best match first.
func SearchKeys(query string, keys []string) []SearchResult {
	if query == "" || len(keys) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), keySource(keys))
	results := make([]SearchResult, len(matches))
	for i, match := range matches {
		results[i] = SearchResult{
			Key:          keys[match.Index],
			Score:        match.Score,
			MatchedChars: match.MatchedIndexes,
		}
	}
	return results
}
