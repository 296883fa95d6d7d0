package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// analysisMapping is the index mapping for analysis documents.  Summaries and
// key points are analyzed text, the rest are exact-match keywords.
const analysisMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 1
  },
  "mappings": {
    "properties": {
      "analysis_id":       {"type": "keyword"},
      "document_hash":     {"type": "keyword"},
      "language":          {"type": "keyword"},
      "summary":           {"type": "text"},
      "key_points":        {"type": "text"},
      "intent_label":      {"type": "keyword"},
      "intent_confidence": {"type": "keyword"},
      "intent_score":      {"type": "float"},
      "created_at":        {"type": "date"}
    }
  }
}`

// AnalysisDocument is the searchable projection of a completed analysis.
type AnalysisDocument struct {
	AnalysisID       string    `json:"analysis_id"`
	DocumentHash     string    `json:"document_hash"`
	Language         string    `json:"language"`
	Summary          string    `json:"summary"`
	KeyPoints        []string  `json:"key_points"`
	IntentLabel      string    `json:"intent_label"`
	IntentConfidence string    `json:"intent_confidence"`
	IntentScore      float64   `json:"intent_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewAnalysisDocument projects a completed analysis into its search form.
func NewAnalysisDocument(a *analysis.Analysis) AnalysisDocument {
	points := make([]string, 0, len(a.Bullets))
	for _, b := range a.Bullets {
		points = append(points, b.RawText)
	}
	return AnalysisDocument{
		AnalysisID:       a.ID.String(),
		DocumentHash:     a.DocumentHash,
		Language:         string(a.Language),
		Summary:          a.Summary,
		KeyPoints:        points,
		IntentLabel:      string(a.Intent.Label),
		IntentConfidence: string(a.Intent.Confidence),
		IntentScore:      a.Intent.Score,
		CreatedAt:        a.CreatedAt,
	}
}

// Indexer manages the analysis index and document ingestion.
type Indexer struct {
	client *Client
	logger logging.Logger
}

// NewIndexer returns an Indexer bound to the client's analysis index.
func NewIndexer(client *Client, logger logging.Logger) *Indexer {
	return &Indexer{client: client, logger: logger}
}

// EnsureIndex creates the analysis index if it does not exist.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	index := i.client.AnalysisIndex()

	existsReq := opensearchapi.IndicesExistsRequest{Index: []string{index}}
	resp, err := existsReq.Do(ctx, i.client.api())
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "check index existence")
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode == 200 {
		return nil
	}

	createReq := opensearchapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(analysisMapping),
	}
	resp, err = createReq.Do(ctx, i.client.api())
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "create index")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return errors.New(errors.CodeSearchError, "create index "+index+": "+resp.Status())
	}

	i.logger.Info("index created", logging.String("index", index))
	return nil
}

// IndexAnalysis upserts the searchable projection of a completed analysis.
func (i *Indexer) IndexAnalysis(ctx context.Context, a *analysis.Analysis) error {
	doc := NewAnalysisDocument(a)
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "marshal analysis document")
	}

	req := opensearchapi.IndexRequest{
		Index:      i.client.AnalysisIndex(),
		DocumentID: doc.AnalysisID,
		Body:       bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.api())
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "index analysis")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return errors.New(errors.CodeSearchError, "index analysis: "+resp.Status())
	}

	i.logger.Debug("analysis indexed", logging.String("analysis_id", doc.AnalysisID))
	return nil
}

// DeleteAnalysis removes an analysis document from the index.  Deleting an
// unknown id is not an error.
func (i *Indexer) DeleteAnalysis(ctx context.Context, id string) error {
	req := opensearchapi.DeleteRequest{
		Index:      i.client.AnalysisIndex(),
		DocumentID: id,
	}
	resp, err := req.Do(ctx, i.client.api())
	if err != nil {
		return errors.Wrap(err, errors.CodeSearchError, "delete analysis document")
	}
	defer resp.Body.Close()
	if resp.StatusCode == 404 {
		return nil
	}
	if resp.IsError() {
		return errors.New(errors.CodeSearchError, "delete analysis document: "+resp.Status())
	}
	return nil
}
