// Package analysis implements the document-analysis bounded context: the
// Analysis aggregate root, its lifecycle state machine, and the repository
// contract.  Business rules about analysis records live here; persistence
// and transport are handled by the infrastructure adapters.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	engine "github.com/turtacn/DocLens-Intelligence/internal/analysis"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// ─────────────────────────────────────────────────────────────────────────────
// State machine: allowed status transitions
// ─────────────────────────────────────────────────────────────────────────────

// Status is the lifecycle state of an analysis record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// allowedTransitions defines the valid next states reachable from each
// status.  Transitions not listed are illegal and rejected by setStatus.
//
//	Pending ──► Running ──► Completed
//	               │
//	               └──► Failed ──► Running   (retry)
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusRunning},
	StatusRunning:   {StatusCompleted, StatusFailed},
	StatusFailed:    {StatusRunning},
	StatusCompleted: {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether s has no outgoing transitions left except retry.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// ─────────────────────────────────────────────────────────────────────────────
// Analysis aggregate root
// ─────────────────────────────────────────────────────────────────────────────

// Analysis is the aggregate root of the bounded context: one submitted
// document plus the artifacts derived from it.  The raw text itself lives
// in object storage under TextObjectKey; the record carries only its hash.
type Analysis struct {
	ID            uuid.UUID             `json:"id"`
	DocumentHash  string                `json:"document_hash"`
	Language      document.Language     `json:"language"`
	Status        Status                `json:"status"`
	TextObjectKey string                `json:"text_object_key"`
	TextChars     int                   `json:"text_chars"`
	Summary       string                `json:"summary"`
	Bullets       []document.Bullet     `json:"bullets"`
	Entities      []document.Entity     `json:"entities"`
	Intent        document.IntentResult `json:"intent"`
	FailureReason string                `json:"failure_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// HashText returns the canonical content hash used to deduplicate
// submissions and key the result cache.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// New constructs a pending Analysis for the given document text.  The text
// is validated here once; downstream components may assume a well-formed
// record.
func New(text string, language document.Language, maxChars int) (*Analysis, error) {
	if text == "" {
		return nil, errors.New(errors.CodeDocumentEmpty, "document text is empty")
	}
	chars := len([]rune(text))
	if maxChars > 0 && chars > maxChars {
		return nil, errors.New(errors.CodeDocumentTooLarge, "document text exceeds the size limit").
			WithDetail(HashText(text)[:12])
	}
	if !language.Valid() {
		language = document.LanguageEnglish
	}

	now := time.Now().UTC()
	return &Analysis{
		ID:           uuid.New(),
		DocumentHash: HashText(text),
		Language:     language,
		Status:       StatusPending,
		TextChars:    chars,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Start transitions the record to running.
func (a *Analysis) Start() error {
	return a.setStatus(StatusRunning)
}

// Complete attaches the engine result and transitions to completed.
func (a *Analysis) Complete(result *engine.Result) error {
	if result == nil {
		return errors.InvalidParam("analysis result is nil")
	}
	if err := a.setStatus(StatusCompleted); err != nil {
		return err
	}
	a.Summary = result.Summary
	a.Bullets = result.Bullets
	a.Entities = result.Entities
	a.Intent = result.Intent
	a.FailureReason = ""
	return nil
}

// Fail transitions to failed and records the reason.
func (a *Analysis) Fail(reason string) error {
	if err := a.setStatus(StatusFailed); err != nil {
		return err
	}
	a.FailureReason = reason
	return nil
}

func (a *Analysis) setStatus(next Status) error {
	for _, allowed := range allowedTransitions[a.Status] {
		if allowed == next {
			a.Status = next
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return errors.New(errors.CodeConflict, "illegal analysis status transition").
		WithDetail(string(a.Status) + " -> " + string(next))
}
