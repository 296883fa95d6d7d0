package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/turtacn/DocLens-Intelligence/internal/analysis"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
	"github.com/turtacn/DocLens-Intelligence/pkg/types/document"
)

func newPending(t *testing.T) *Analysis {
	t.Helper()
	a, err := New("Please review the attached circular carefully.", document.LanguageEnglish, 0)
	require.NoError(t, err)
	return a
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", document.LanguageEnglish, 0)
	assert.True(t, errors.IsCode(err, errors.CodeDocumentEmpty))

	_, err = New(strings.Repeat("x", 100), document.LanguageEnglish, 50)
	assert.True(t, errors.IsCode(err, errors.CodeDocumentTooLarge))

	a, err := New("fine", document.Language("Klingon"), 0)
	require.NoError(t, err)
	assert.Equal(t, document.LanguageEnglish, a.Language, "unknown language falls back")
}

func TestNew_PopulatesIdentity(t *testing.T) {
	a := newPending(t)

	assert.NotEqual(t, "", a.ID.String())
	assert.Len(t, a.DocumentHash, 64)
	assert.Equal(t, StatusPending, a.Status)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestHashText_Stable(t *testing.T) {
	assert.Equal(t, HashText("abc"), HashText("abc"))
	assert.NotEqual(t, HashText("abc"), HashText("abd"))
}

func TestLifecycle_HappyPath(t *testing.T) {
	a := newPending(t)

	require.NoError(t, a.Start())
	assert.Equal(t, StatusRunning, a.Status)

	require.NoError(t, a.Complete(&engine.Result{Summary: "done"}))
	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, "done", a.Summary)
	assert.True(t, a.Status.Terminal())
}

func TestLifecycle_FailAndRetry(t *testing.T) {
	a := newPending(t)
	require.NoError(t, a.Start())
	require.NoError(t, a.Fail("engine panic"))
	assert.Equal(t, "engine panic", a.FailureReason)

	// Failed records may be retried.
	require.NoError(t, a.Start())
	require.NoError(t, a.Complete(&engine.Result{}))
	assert.Empty(t, a.FailureReason)
}

func TestLifecycle_IllegalTransitions(t *testing.T) {
	a := newPending(t)

	err := a.Complete(&engine.Result{})
	assert.True(t, errors.IsCode(err, errors.CodeConflict), "pending cannot complete directly")

	require.NoError(t, a.Start())
	require.NoError(t, a.Complete(&engine.Result{}))

	assert.Error(t, a.Start(), "completed is terminal")
	assert.Error(t, a.Fail("late"))
}

func TestComplete_NilResult(t *testing.T) {
	a := newPending(t)
	require.NoError(t, a.Start())
	assert.Error(t, a.Complete(nil))
	assert.Equal(t, StatusRunning, a.Status)
}
