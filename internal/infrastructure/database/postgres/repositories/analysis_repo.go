// Package repositories provides PostgreSQL-backed implementations of the
// domain repository interfaces.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

// AnalysisRepository is the PostgreSQL implementation of
// analysis.Repository.  Every method accepts a context for cancellation
// propagation and uses parameterised queries exclusively.
type AnalysisRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, logger logging.Logger) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, logger: logger}
}

var _ analysis.Repository = (*AnalysisRepository)(nil)

const analysisColumns = `id, document_hash, language, status, text_object_key, text_chars,
	summary, bullets, entities, intent, failure_reason, created_at, updated_at`

// Create inserts a new analysis record.
func (r *AnalysisRepository) Create(ctx context.Context, a *analysis.Analysis) error {
	bullets, entities, intent, err := marshalArtifacts(a)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.DocumentHash, a.Language, a.Status, a.TextObjectKey, a.TextChars,
		a.Summary, bullets, entities, intent, a.FailureReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("insert analysis failed",
			logging.String("id", a.ID.String()), logging.Err(err))
		return errors.Wrap(err, errors.CodeDatabaseError, "insert analysis")
	}
	return nil
}

// GetByID loads one record by primary key.
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*analysis.Analysis, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "query analysis by id")
	}
	return a, nil
}

// GetByDocumentHash returns the newest record for a content hash.
func (r *AnalysisRepository) GetByDocumentHash(ctx context.Context, hash string) (*analysis.Analysis, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+analysisColumns+` FROM analyses
		WHERE document_hash = $1
		ORDER BY created_at DESC
		LIMIT 1`, hash)
	a, err := scanAnalysis(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.CodeAnalysisNotFound, "analysis not found for document hash")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "query analysis by hash")
	}
	return a, nil
}

// Update persists the mutable fields of an existing record.
func (r *AnalysisRepository) Update(ctx context.Context, a *analysis.Analysis) error {
	bullets, entities, intent, err := marshalArtifacts(a)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE analyses
		SET status = $2, text_object_key = $3, summary = $4, bullets = $5,
		    entities = $6, intent = $7, failure_reason = $8, updated_at = $9
		WHERE id = $1`,
		a.ID, a.Status, a.TextObjectKey, a.Summary, bullets,
		entities, intent, a.FailureReason, a.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "update analysis")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.CodeAnalysisNotFound, "analysis not found").WithDetail(a.ID.String())
	}
	return nil
}

// List returns records matching filter, newest first.
func (r *AnalysisRepository) List(ctx context.Context, filter analysis.ListFilter) ([]*analysis.Analysis, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		conds = append(conds, fmt.Sprintf("language = $%d", len(args)))
	}

	query := `SELECT ` + analysisColumns + ` FROM analyses`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "list analyses")
	}
	defer rows.Close()

	var out []*analysis.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "scan analysis row")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "iterate analyses")
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (*analysis.Analysis, error) {
	var (
		a        analysis.Analysis
		bullets  []byte
		entities []byte
		intent   []byte
	)
	err := row.Scan(
		&a.ID, &a.DocumentHash, &a.Language, &a.Status, &a.TextObjectKey, &a.TextChars,
		&a.Summary, &bullets, &entities, &intent, &a.FailureReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(bullets, &a.Bullets); err != nil {
		return nil, fmt.Errorf("decode bullets: %w", err)
	}
	if err := json.Unmarshal(entities, &a.Entities); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	if err := json.Unmarshal(intent, &a.Intent); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	a.DocumentHash = strings.TrimSpace(a.DocumentHash)
	return &a, nil
}

func marshalArtifacts(a *analysis.Analysis) (bullets, entities, intent []byte, err error) {
	if a.Bullets == nil {
		a.Bullets = []document.Bullet{}
	}
	if a.Entities == nil {
		a.Entities = []document.Entity{}
	}
	if bullets, err = json.Marshal(a.Bullets); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeSerialization, "encode bullets")
	}
	if entities, err = json.Marshal(a.Entities); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeSerialization, "encode entities")
	}
	if intent, err = json.Marshal(a.Intent); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeSerialization, "encode intent")
	}
	return bullets, entities, intent, nil
}
