// Package analysis exposes the document analysis engine: extractive
// summarization, key-point bullet extraction, intent classification, and
// entity annotation over pre-decoded document text.
//
// The three derived artifacts are computed independently from the same
// source text; no component consumes another's output.  Every entry point
// is a total function over well-formed input — internal failures degrade to
// the documented fallbacks instead of propagating.
package analysis

import (
	"context"
	"time"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis/bullets"
	"github.com/turtacn/DocLens-Intelligence/internal/analysis/common"
	"github.com/turtacn/DocLens-Intelligence/internal/analysis/intent"
	"github.com/turtacn/DocLens-Intelligence/internal/analysis/summarize"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// Engine bundles the analysis components behind the three entry points the
// orchestration layer consumes.  An Engine is safe for concurrent use; the
// only shared state is the read-mostly annotator cache.
type Engine struct {
	annotators *common.AnnotatorCache
	summarizer *summarize.Summarizer
	extractor  *bullets.Extractor
	classifier *intent.Classifier
	logger     logging.Logger
	metrics    common.Metrics
}

// Option customises Engine construction.
type Option func(*engineDeps)

type engineDeps struct {
	summaryModel summarize.Model
	intentModel  intent.Model
	annotators   *common.AnnotatorCache
	logger       logging.Logger
	metrics      common.Metrics
}

// WithSummaryModel injects an alternative single-pass summarization model.
func WithSummaryModel(m summarize.Model) Option {
	return func(d *engineDeps) { d.summaryModel = m }
}

// WithIntentModel injects an alternative classification model.
func WithIntentModel(m intent.Model) Option {
	return func(d *engineDeps) { d.intentModel = m }
}

// WithAnnotatorCache shares an existing annotator cache between engines.
func WithAnnotatorCache(c *common.AnnotatorCache) Option {
	return func(d *engineDeps) { d.annotators = c }
}

// WithLogger injects the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(d *engineDeps) { d.logger = l }
}

// WithMetrics injects the metrics sink.
func WithMetrics(m common.Metrics) Option {
	return func(d *engineDeps) { d.metrics = m }
}

// NewEngine constructs an Engine.  Unset options default to the
// deterministic models, a fresh annotator cache, a nop logger, and nop
// metrics.
func NewEngine(opts ...Option) *Engine {
	deps := &engineDeps{}
	for _, o := range opts {
		o(deps)
	}
	if deps.annotators == nil {
		deps.annotators = common.NewAnnotatorCache()
	}
	if deps.logger == nil {
		deps.logger = logging.NewNopLogger()
	}
	if deps.metrics == nil {
		deps.metrics = common.NewNopMetrics()
	}
	return &Engine{
		annotators: deps.annotators,
		summarizer: summarize.New(deps.summaryModel, deps.logger.Named("summarize")),
		extractor:  bullets.NewExtractor(),
		classifier: intent.New(deps.intentModel, deps.logger.Named("intent")),
		logger:     deps.logger,
		metrics:    deps.metrics,
	}
}

// Summarize returns a condensed, length-bounded summary of text.
// Summarization is language-agnostic; the language tag is accepted for
// interface symmetry with the other entry points.
func (e *Engine) Summarize(ctx context.Context, text string, _ document.Language) string {
	start := time.Now()
	out := e.summarizer.Summarize(ctx, text)
	e.metrics.ObserveComponent("summarize", time.Since(start), true)
	return out
}

// ExtractBullets returns the document's categorised key points, at most
// document.MaxBullets entries in source order.
func (e *Engine) ExtractBullets(ctx context.Context, text string, _ document.Language) []document.Bullet {
	start := time.Now()
	out := e.extractor.Extract(text)
	e.metrics.ObserveComponent("bullets", time.Since(start), true)
	e.metrics.RecordBulletCount(len(out))
	return out
}

// ClassifyIntent classifies text against the four fixed intent categories.
func (e *Engine) ClassifyIntent(ctx context.Context, text string, _ document.Language) document.IntentResult {
	start := time.Now()
	out := e.classifier.Classify(ctx, text)
	e.metrics.ObserveComponent("intent", time.Since(start), true)
	e.metrics.RecordIntentLabel(string(out.Label))
	return out
}

// Annotate tags candidate entities using the language's lexical tables;
// unrecognised languages use the English tables.  Long documents are
// scanned in sequential chunks.
func (e *Engine) Annotate(ctx context.Context, text string, language document.Language) []document.Entity {
	start := time.Now()
	out := e.annotators.GetOrCreate(language).Annotate(text)
	e.metrics.ObserveComponent("entities", time.Since(start), true)
	return out
}

// Result bundles every artifact of a full analysis.
type Result struct {
	Summary  string                `json:"summary"`
	Bullets  []document.Bullet     `json:"bullets"`
	Intent   document.IntentResult `json:"intent"`
	Entities []document.Entity     `json:"entities"`
}

// Analyze runs all components over the same source text and collects their
// artifacts.  The components are independent; they run sequentially here
// because each is already fast and the merge order is fixed anyway.
func (e *Engine) Analyze(ctx context.Context, text string, language document.Language) *Result {
	return &Result{
		Summary:  e.Summarize(ctx, text, language),
		Bullets:  e.ExtractBullets(ctx, text, language),
		Intent:   e.ClassifyIntent(ctx, text, language),
		Entities: e.Annotate(ctx, text, language),
	}
}
