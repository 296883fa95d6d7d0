package common

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

func TestGetOrCreate_ReturnsSameInstance(t *testing.T) {
	c := NewAnnotatorCache()

	first := c.GetOrCreate(document.LanguageHindi)
	second := c.GetOrCreate(document.LanguageHindi)

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCreate_OneEntryPerLanguage(t *testing.T) {
	c := NewAnnotatorCache()

	for _, lang := range document.Languages {
		c.GetOrCreate(lang)
	}
	assert.Equal(t, len(document.Languages), c.Len())
}

func TestGetOrCreate_InvalidLanguageSharesEnglishEntry(t *testing.T) {
	c := NewAnnotatorCache()

	english := c.GetOrCreate(document.LanguageEnglish)
	fallback := c.GetOrCreate(document.Language("Esperanto"))

	assert.Same(t, english, fallback)
	assert.Equal(t, document.LanguageEnglish, fallback.Language())
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCreate_ConcurrentAccess(t *testing.T) {
	c := NewAnnotatorCache()

	const goroutines = 32
	results := make([]interface{}, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := document.Languages[i%len(document.Languages)]
			results[i] = c.GetOrCreate(lang)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(document.Languages), c.Len())
	for i := 0; i < goroutines; i++ {
		lang := document.Languages[i%len(document.Languages)]
		assert.Same(t, c.GetOrCreate(lang), results[i])
	}
}
