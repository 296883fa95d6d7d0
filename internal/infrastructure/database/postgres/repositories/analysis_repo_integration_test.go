//go:build integration

// Integration tests for the PostgreSQL analysis repository.  They run
// against the database named by TEST_DATABASE_URL and are gated behind the
// "integration" build tag.
package repositories_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/turtacn/DocLens-Intelligence/internal/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/DocLens-Intelligence/pkg/errors"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

func testRepo(t *testing.T) *repositories.AnalysisRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, postgres.RunMigrations(dsn, "file://../../../../../migrations"))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return repositories.NewAnalysisRepository(pool, logging.NewNopLogger())
}

func pendingAnalysis(t *testing.T) *analysis.Analysis {
	t.Helper()
	a, err := analysis.New("Please file the quarterly returns before 30 June.", document.LanguageEnglish, 0)
	require.NoError(t, err)
	return a
}

func TestAnalysisRepository_CreateAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := pendingAnalysis(t)
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.DocumentHash, got.DocumentHash)
	assert.Equal(t, analysis.StatusPending, got.Status)
	assert.Empty(t, got.Bullets)
}

func TestAnalysisRepository_GetByID_NotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeAnalysisNotFound))
}

func TestAnalysisRepository_UpdateRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := pendingAnalysis(t)
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, a.Start())
	require.NoError(t, a.Complete(&engine.Result{
		Summary: "Returns are due.",
		Bullets: []document.Bullet{{RawText: "file the quarterly returns", Category: document.CategoryKeyPoint}},
		Intent:  document.IntentResult{Label: document.IntentRequest, Score: 0.9, Confidence: document.ConfidenceHigh},
	}))
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusCompleted, got.Status)
	assert.Equal(t, "Returns are due.", got.Summary)
	require.Len(t, got.Bullets, 1)
	assert.Equal(t, document.CategoryKeyPoint, got.Bullets[0].Category)
	assert.Equal(t, document.IntentRequest, got.Intent.Label)
}

func TestAnalysisRepository_GetByDocumentHash(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := pendingAnalysis(t)
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByDocumentHash(ctx, a.DocumentHash)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestAnalysisRepository_ListByStatus(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := pendingAnalysis(t)
	require.NoError(t, repo.Create(ctx, a))

	list, err := repo.List(ctx, analysis.ListFilter{Status: analysis.StatusPending, Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, list)
	for _, item := range list {
		assert.Equal(t, analysis.StatusPending, item.Status)
	}
}
