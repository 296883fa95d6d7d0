package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	osClient, err := opensearchgo.NewClient(opensearchgo.Config{Addresses: []string{serverURL}})
	require.NoError(t, err)
	return &Client{client: osClient, indexPrefix: "doclens", logger: logging.NewNopLogger()}
}

func TestAnalysisIndex_Prefix(t *testing.T) {
	c := &Client{indexPrefix: "doclens"}
	assert.Equal(t, "doclens-analyses", c.AnalysisIndex())

	c = &Client{}
	assert.Equal(t, "analyses", c.AnalysisIndex())
}

func TestNewAnalysisDocument_Projection(t *testing.T) {
	a := &analysis.Analysis{
		ID:           uuid.New(),
		DocumentHash: "cafe01",
		Language:     document.LanguageEnglish,
		Summary:      "Please review the attached complaint.",
		Bullets: []document.Bullet{
			{RawText: "Service was interrupted twice.", Category: document.CategoryKeyPoint},
			{RawText: "Refund of $120 is requested.", Category: document.CategoryStatistic},
		},
		Intent: document.IntentResult{
			Label:      document.IntentComplaint,
			Score:      0.72,
			Confidence: document.ConfidenceMedium,
		},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	doc := NewAnalysisDocument(a)

	assert.Equal(t, a.ID.String(), doc.AnalysisID)
	assert.Equal(t, "cafe01", doc.DocumentHash)
	assert.Equal(t, "English", doc.Language)
	assert.Equal(t, []string{"Service was interrupted twice.", "Refund of $120 is requested."}, doc.KeyPoints)
	assert.Equal(t, "Complaint", doc.IntentLabel)
	assert.InDelta(t, 0.72, doc.IntentScore, 1e-9)
}

func TestSearch_DecodesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "_search") {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{
				"took": 7,
				"hits": {
					"total": {"value": 2},
					"hits": [
						{"_score": 2.5, "_source": {"analysis_id": "a1", "summary": "first"}},
						{"_score": 1.0, "_source": {"analysis_id": "a2", "summary": "second"}}
					]
				}
			}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	searcher := NewSearcher(newTestClient(t, server.URL), logging.NewNopLogger())
	result, err := searcher.Search(context.Background(), SearchQuery{Query: "refund"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, int64(7), result.TookMs)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "a1", result.Hits[0].Document.AnalysisID)
	assert.Equal(t, 2.5, result.Hits[0].Score)
}

func TestSearch_RequestBodyCarriesFilters(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "_search") {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &captured)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"took": 1, "hits": {"total": {"value": 0}, "hits": []}}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	searcher := NewSearcher(newTestClient(t, server.URL), logging.NewNopLogger())
	_, err := searcher.Search(context.Background(), SearchQuery{
		Query:       "deadline",
		Language:    "English",
		IntentLabel: "Request",
		Limit:       500, // clamped to maxPageSize
		Offset:      10,
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, float64(100), captured["size"])
	assert.Equal(t, float64(10), captured["from"])

	raw, _ := json.Marshal(captured["query"])
	assert.Contains(t, string(raw), `"language":"English"`)
	assert.Contains(t, string(raw), `"intent_label":"Request"`)
	assert.Contains(t, string(raw), "multi_match")
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	body := buildSearchBody(SearchQuery{Limit: defaultPageSize})
	raw, _ := json.Marshal(body)

	assert.Contains(t, string(raw), "match_all")
	assert.NotContains(t, string(raw), "multi_match")
}

func TestSearch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "boom"}`))
	}))
	defer server.Close()

	searcher := NewSearcher(newTestClient(t, server.URL), logging.NewNopLogger())
	_, err := searcher.Search(context.Background(), SearchQuery{Query: "x"})
	assert.Error(t, err)
}

func TestEnsureIndex_SkipsExisting(t *testing.T) {
	var created bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			created = true
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"acknowledged": true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	indexer := NewIndexer(newTestClient(t, server.URL), logging.NewNopLogger())
	require.NoError(t, indexer.EnsureIndex(context.Background()))
	assert.False(t, created)
}

func TestEnsureIndex_CreatesMissing(t *testing.T) {
	var created bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), "document_hash")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"acknowledged": true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	indexer := NewIndexer(newTestClient(t, server.URL), logging.NewNopLogger())
	require.NoError(t, indexer.EnsureIndex(context.Background()))
	assert.True(t, created)
}

func TestIndexAnalysis_SendsDocument(t *testing.T) {
	var captured AnalysisDocument
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && strings.Contains(r.URL.Path, "_doc") {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &captured)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"result": "created"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	a := &analysis.Analysis{
		ID:       uuid.New(),
		Language: document.LanguageHindi,
		Summary:  "short summary",
		Intent:   document.IntentResult{Label: document.IntentRequest},
	}

	indexer := NewIndexer(newTestClient(t, server.URL), logging.NewNopLogger())
	require.NoError(t, indexer.IndexAnalysis(context.Background(), a))
	assert.Equal(t, a.ID.String(), captured.AnalysisID)
	assert.Equal(t, "Hindi", captured.Language)
}

func TestDeleteAnalysis_MissingIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"result": "not_found"}`))
	}))
	defer server.Close()

	indexer := NewIndexer(newTestClient(t, server.URL), logging.NewNopLogger())
	assert.NoError(t, indexer.DeleteAnalysis(context.Background(), "missing"))
}
