package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchQuery describes a search over indexed analyses.  An empty Query
// matches everything; Language and IntentLabel are exact-match filters.
type SearchQuery struct {
	Query       string
	Language    string
	IntentLabel string
	Limit       int
	Offset      int
}

// SearchHit is a single matching analysis with its relevance score.
type SearchHit struct {
	Score    float64
	Document AnalysisDocument
}

// SearchResult holds a page of matches and the total match count.
type SearchResult struct {
	Total  int64
	Hits   []SearchHit
	TookMs int64
}

// Searcher executes queries against the analysis index.
type Searcher struct {
	client *Client
	logger logging.Logger
}

// NewSearcher returns a Searcher bound to the client's analysis index.
func NewSearcher(client *Client, logger logging.Logger) *Searcher {
	return &Searcher{client: client, logger: logger}
}

// Search runs the query and returns one page of results ordered by
// relevance, then recency.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "marshal search body")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{s.client.AnalysisIndex()},
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, s.client.api())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSearchError, "execute search")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, errors.New(errors.CodeSearchError, "search failed: "+resp.Status())
	}

	var raw struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64          `json:"_score"`
				Source AnalysisDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "decode search response")
	}

	result := &SearchResult{
		Total:  raw.Hits.Total.Value,
		TookMs: raw.Took,
		Hits:   make([]SearchHit, 0, len(raw.Hits.Hits)),
	}
	for _, h := range raw.Hits.Hits {
		result.Hits = append(result.Hits, SearchHit{Score: h.Score, Document: h.Source})
	}

	s.logger.Debug("search executed",
		logging.String("query", q.Query),
		logging.Int64("total", result.Total),
		logging.Int64("took_ms", result.TookMs))
	return result, nil
}

func buildSearchBody(q SearchQuery) map[string]interface{} {
	var must interface{}
	if q.Query == "" {
		must = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		must = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Query,
				"fields": []string{"summary^2", "key_points"},
			},
		}
	}

	var filters []interface{}
	if q.Language != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"language": q.Language},
		})
	}
	if q.IntentLabel != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"intent_label": q.IntentLabel},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	return map[string]interface{}{
		"from":  q.Offset,
		"size":  q.Limit,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
}
