// Package common holds the pieces shared by every analysis component: the
// per-language annotator cache and the metrics contract.
package common

import (
	"sync"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis/entity"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// AnnotatorCache maps a language tag to its compiled entity annotator so
// pattern tables are compiled at most once per language.  The cache is an
// explicit dependency owned by the caller, never a package-level singleton,
// and is safe for concurrent use: once an annotator is stored it is shared
// read-only across analyses.
type AnnotatorCache struct {
	mu    sync.RWMutex
	cache map[document.Language]*entity.Annotator
}

// NewAnnotatorCache returns an empty cache.
func NewAnnotatorCache() *AnnotatorCache {
	return &AnnotatorCache{
		cache: make(map[document.Language]*entity.Annotator),
	}
}

// GetOrCreate returns the annotator for language, constructing and storing
// it on first use.  Unrecognised languages share the English annotator
// entry so the fallback tables are also compiled only once.
func (c *AnnotatorCache) GetOrCreate(language document.Language) *entity.Annotator {
	if !language.Valid() {
		language = document.LanguageEnglish
	}

	c.mu.RLock()
	a, ok := c.cache[language]
	c.mu.RUnlock()
	if ok {
		return a
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.cache[language]; ok {
		return a
	}
	a = entity.NewAnnotator(language)
	c.cache[language] = a
	return a
}

// Len reports how many languages have been populated.
func (c *AnnotatorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
