// Package analysis provides the application-level service for document
// analysis operations.  It sits between the HTTP/CLI interfaces and the
// domain layer, owning normalization, deduplication, caching, and event
// publication.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	engine "github.com/turtacn/DocLens-Intelligence/internal/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/config"
	domain "github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// EventPublisher publishes lifecycle events.  The kafka producer is the
// production implementation.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// ResultIndexer projects completed analyses into the search index.
type ResultIndexer interface {
	IndexAnalysis(ctx context.Context, a *domain.Analysis) error
}

// Searcher queries previously indexed analyses.
type Searcher interface {
	Search(ctx context.Context, q opensearch.SearchQuery) (*opensearch.SearchResult, error)
}

// UsageMetrics counts finished analyses by language and status.
type UsageMetrics interface {
	RecordAnalysis(language, status string)
}

type nopUsageMetrics struct{}

func (nopUsageMetrics) RecordAnalysis(string, string) {}

// NopUsageMetrics returns a UsageMetrics that discards all observations.
func NopUsageMetrics() UsageMetrics { return nopUsageMetrics{} }

// ─────────────────────────────────────────────────────────────────────────────
// Inputs and outputs
// ─────────────────────────────────────────────────────────────────────────────

// SubmitInput carries one document submission.
type SubmitInput struct {
	Text     string
	Language string
	// Async defers the analysis to a worker; the returned record is
	// pending until a worker picks it up.
	Async bool
}

// SubmitOutput is the submission result.  Reused is true when a completed
// analysis of identical text was returned instead of running a new one.
type SubmitOutput struct {
	Analysis *domain.Analysis `json:"analysis"`
	Reused   bool             `json:"reused"`
}

// ListInput selects a page of analysis records.
type ListInput struct {
	Status   string
	Language string
	Page     int
	PageSize int
}

// ListOutput is one page of records, newest first.
type ListOutput struct {
	Analyses []*domain.Analysis `json:"analyses"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// SearchInput is a full-text query over completed analyses.
type SearchInput struct {
	Query    string
	Language string
	Intent   string
	Page     int
	PageSize int
}

// SearchOutput is one page of search hits.
type SearchOutput struct {
	Total    int64                  `json:"total"`
	Hits     []opensearch.SearchHit `json:"hits"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// Service defines the application operations over document analyses.
type Service interface {
	// Submit normalizes, deduplicates, and either runs or schedules the
	// analysis of one document.
	Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error)

	// Get loads one analysis record by id.
	Get(ctx context.Context, id string) (*domain.Analysis, error)

	// List returns a page of records filtered by status and language.
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Search queries the full-text index of completed analyses.
	Search(ctx context.Context, input *SearchInput) (*SearchOutput, error)

	// Process runs the engine over a stored submission and persists the
	// artifacts.  Safe to call again after a delivery retry.
	Process(ctx context.Context, id string) (*domain.Analysis, error)

	// MarkFailed records a terminal failure after retries are exhausted.
	MarkFailed(ctx context.Context, id, reason string) error
}

type service struct {
	repo      domain.Repository
	engine    *engine.Engine
	cache     redis.Cache
	texts     minio.TextStore
	publisher EventPublisher
	indexer   ResultIndexer
	searcher  Searcher
	metrics   UsageMetrics
	cfg       config.AnalysisConfig
	logger    logging.Logger
}

// Deps bundles the service dependencies.  Cache, publisher, indexer,
// searcher, and metrics may be nil; the service degrades to direct
// repository access.
type Deps struct {
	Repo      domain.Repository
	Engine    *engine.Engine
	Cache     redis.Cache
	Texts     minio.TextStore
	Publisher EventPublisher
	Indexer   ResultIndexer
	Searcher  Searcher
	Metrics   UsageMetrics
	Config    config.AnalysisConfig
	Logger    logging.Logger
}

// NewService wires an analysis Service.
func NewService(d Deps) Service {
	if d.Metrics == nil {
		d.Metrics = NopUsageMetrics()
	}
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	if d.Config.MaxTextChars == 0 {
		d.Config.MaxTextChars = config.DefaultMaxTextChars
	}
	if d.Config.ResultCacheTTL == 0 {
		d.Config.ResultCacheTTL = config.DefaultResultCacheTTL
	}
	return &service{
		repo:      d.Repo,
		engine:    d.Engine,
		cache:     d.Cache,
		texts:     d.Texts,
		publisher: d.Publisher,
		indexer:   d.Indexer,
		searcher:  d.Searcher,
		metrics:   d.Metrics,
		cfg:       d.Config,
		logger:    d.Logger,
	}
}

func resultKey(hash string) string { return "analysis:" + hash }

func (s *service) Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	// All downstream lengths and offsets assume composed form.
	text := norm.NFC.String(input.Text)
	lang := document.ParseLanguage(input.Language)

	a, err := domain.New(text, lang, s.cfg.MaxTextChars)
	if err != nil {
		return nil, err
	}

	if reused := s.lookupCompleted(ctx, a.DocumentHash); reused != nil {
		return &SubmitOutput{Analysis: reused, Reused: true}, nil
	}

	key, err := s.texts.Put(ctx, a.DocumentHash, text)
	if err != nil {
		return nil, err
	}
	a.TextObjectKey = key

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("analysis submitted",
		logging.String("analysis_id", a.ID.String()),
		logging.String("language", string(a.Language)),
		logging.Int("text_chars", a.TextChars),
		logging.Bool("async", input.Async))

	if input.Async {
		if err := s.publishSubmitted(ctx, a); err != nil {
			return nil, err
		}
		return &SubmitOutput{Analysis: a}, nil
	}

	done, err := s.run(ctx, a, text)
	if err != nil {
		return nil, err
	}
	return &SubmitOutput{Analysis: done}, nil
}

// lookupCompleted checks the result cache, then the repository, for a
// completed analysis of the same content.
func (s *service) lookupCompleted(ctx context.Context, hash string) *domain.Analysis {
	if s.cache != nil {
		var cached domain.Analysis
		if err := s.cache.Get(ctx, resultKey(hash), &cached); err == nil {
			return &cached
		}
	}

	prev, err := s.repo.GetByDocumentHash(ctx, hash)
	if err != nil || prev.Status != domain.StatusCompleted {
		return nil
	}
	s.cacheResult(ctx, prev)
	return prev
}

func (s *service) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidParam, "invalid analysis id").WithDetail(id)
	}
	return s.repo.GetByID(ctx, parsed)
}

func (s *service) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	page, size := normalizePage(input.Page, input.PageSize)

	filter := domain.ListFilter{
		Language: input.Language,
		Limit:    size,
		Offset:   (page - 1) * size,
	}
	if input.Status != "" {
		status := domain.Status(input.Status)
		if !status.Valid() {
			return nil, errors.New(errors.CodeInvalidParam, "invalid status filter").WithDetail(input.Status)
		}
		filter.Status = status
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Analyses: records, Page: page, PageSize: size}, nil
}

func (s *service) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.searcher == nil {
		return nil, errors.New(errors.CodeServiceUnavailable, "search is not configured")
	}
	page, size := normalizePage(input.Page, input.PageSize)

	result, err := s.searcher.Search(ctx, opensearch.SearchQuery{
		Query:       input.Query,
		Language:    input.Language,
		IntentLabel: input.Intent,
		Limit:       size,
		Offset:      (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{
		Total:    result.Total,
		Hits:     result.Hits,
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *service) Process(ctx context.Context, id string) (*domain.Analysis, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidParam, "invalid analysis id").WithDetail(id)
	}
	a, err := s.repo.GetByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if a.Status == domain.StatusCompleted {
		// Redelivered event; the work is already done.
		return a, nil
	}

	text, err := s.texts.Get(ctx, a.TextObjectKey)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, a, text)
}

// run executes the engine and persists the completed record.  The engine
// itself degrades internally rather than failing, so errors here are
// infrastructure errors.
func (s *service) run(ctx context.Context, a *domain.Analysis, text string) (*domain.Analysis, error) {
	// A record left running by a crashed attempt is resumed as-is.
	if a.Status != domain.StatusRunning {
		if err := a.Start(); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
	}

	started := time.Now()
	result := s.engine.Analyze(ctx, text, a.Language)

	if err := a.Complete(result); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.cacheResult(ctx, a)
	s.indexResult(ctx, a)
	s.publishAnalyzed(ctx, a)
	s.metrics.RecordAnalysis(string(a.Language), string(a.Status))

	s.logger.Info("analysis completed",
		logging.String("analysis_id", a.ID.String()),
		logging.String("intent", string(a.Intent.Label)),
		logging.Int("bullets", len(a.Bullets)),
		logging.Duration("elapsed", time.Since(started)))
	return a, nil
}

func (s *service) MarkFailed(ctx context.Context, id, reason string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return errors.New(errors.CodeInvalidParam, "invalid analysis id").WithDetail(id)
	}
	a, err := s.repo.GetByID(ctx, parsed)
	if err != nil {
		return err
	}
	// A submission that never reached a worker is still pending; move it
	// through running so the failure transition is legal.
	if a.Status == domain.StatusPending {
		if err := a.Start(); err != nil {
			return err
		}
	}
	if err := a.Fail(reason); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.metrics.RecordAnalysis(string(a.Language), string(a.Status))

	if s.publisher != nil {
		payload := kafka.DocumentFailedPayload{
			AnalysisID: a.ID.String(),
			Reason:     reason,
			FailedAt:   a.UpdatedAt,
		}
		if err := s.publisher.Publish(ctx, kafka.TopicDocumentFailed, a.ID.String(), payload); err != nil {
			s.logger.Warn("publish failure event", logging.Err(err))
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Side effects
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) cacheResult(ctx context.Context, a *domain.Analysis) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, resultKey(a.DocumentHash), a, s.cfg.ResultCacheTTL); err != nil {
		s.logger.Warn("cache analysis result", logging.Err(err))
	}
}

func (s *service) indexResult(ctx context.Context, a *domain.Analysis) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexAnalysis(ctx, a); err != nil {
		s.logger.Warn("index analysis result", logging.Err(err))
	}
}

func (s *service) publishSubmitted(ctx context.Context, a *domain.Analysis) error {
	if s.publisher == nil {
		return errors.New(errors.CodeServiceUnavailable, "async submission requires a broker")
	}
	payload := kafka.DocumentSubmittedPayload{
		AnalysisID:    a.ID.String(),
		DocumentHash:  a.DocumentHash,
		Language:      string(a.Language),
		TextObjectKey: a.TextObjectKey,
		SubmittedAt:   a.CreatedAt,
	}
	return s.publisher.Publish(ctx, kafka.TopicDocumentSubmitted, a.ID.String(), payload)
}

func (s *service) publishAnalyzed(ctx context.Context, a *domain.Analysis) {
	if s.publisher == nil {
		return
	}
	payload := kafka.DocumentAnalyzedPayload{
		AnalysisID:   a.ID.String(),
		DocumentHash: a.DocumentHash,
		IntentLabel:  string(a.Intent.Label),
		SummaryChars: len([]rune(a.Summary)),
		BulletCount:  len(a.Bullets),
		AnalyzedAt:   a.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, kafka.TopicDocumentAnalyzed, a.ID.String(), payload); err != nil {
		s.logger.Warn("publish analyzed event", logging.Err(err))
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
