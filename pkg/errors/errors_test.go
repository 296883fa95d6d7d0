package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorFormat(t *testing.T) {
	e := New(CodeInvalidParam, "text must not be empty")
	assert.Equal(t, "[COMMON_002] text must not be empty", e.Error())

	withDetail := e.WithDetail("language=Hindi")
	assert.Equal(t, "[COMMON_002] text must not be empty: language=Hindi", withDetail.Error())
	assert.Empty(t, e.Detail, "WithDetail must not mutate the receiver")
}

func TestWrap_PreservesDomainCode(t *testing.T) {
	inner := New(CodeAnalysisNotFound, "analysis not found")

	wrapped := Wrap(inner, CodeUnknown, "handler failed")
	assert.Equal(t, CodeAnalysisNotFound, wrapped.Code)

	rewrapped := Wrap(inner, CodeDatabaseError, "query failed")
	assert.Equal(t, CodeDatabaseError, rewrapped.Code)
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestUnwrapChain(t *testing.T) {
	root := stderrors.New("connection refused")
	mid := Wrap(root, CodeDatabaseError, "query failed")
	top := fmt.Errorf("request: %w", mid)

	assert.True(t, stderrors.Is(top, root))

	var ae *AppError
	require.True(t, stderrors.As(top, &ae))
	assert.Equal(t, CodeDatabaseError, ae.Code)
}

func TestIsCode(t *testing.T) {
	err := Wrap(New(CodeCacheError, "miss"), CodeInternal, "lookup")

	assert.True(t, IsCode(err, CodeInternal))
	assert.True(t, IsCode(err, CodeCacheError))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(nil, CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(CodeNotFound, "gone")))
	assert.True(t, IsNotFound(New(CodeAnalysisNotFound, "gone")))
	assert.False(t, IsNotFound(New(CodeInternal, "boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeDocumentEmpty, GetCode(New(CodeDocumentEmpty, "empty")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CodeInvalidParam.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeAnalysisNotFound.HTTPStatus())
	assert.Equal(t, http.StatusTooManyRequests, CodeRateLimit.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeUnknown.HTTPStatus())
}
