package errors

import "net/http"

// ErrorCode identifies a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	CodeOK                 ErrorCode = "OK"
	CodeUnknown            ErrorCode = "COMMON_000"
	CodeInternal           ErrorCode = "COMMON_001"
	CodeInvalidParam       ErrorCode = "COMMON_002"
	CodeNotFound           ErrorCode = "COMMON_003"
	CodeConflict           ErrorCode = "COMMON_004"
	CodeRateLimit          ErrorCode = "COMMON_005"
	CodeServiceUnavailable ErrorCode = "COMMON_006"
	CodeTimeout            ErrorCode = "COMMON_007"
	CodeSerialization      ErrorCode = "COMMON_008"
	CodeDatabaseError      ErrorCode = "COMMON_009"
	CodeCacheError         ErrorCode = "COMMON_010"
	CodeStorageError       ErrorCode = "COMMON_011"
	CodeSearchError        ErrorCode = "COMMON_012"
	CodeMessagingError     ErrorCode = "COMMON_013"
)

// Analysis module error codes.
const (
	CodeAnalysisNotFound     ErrorCode = "ANL_001"
	CodeDocumentEmpty        ErrorCode = "ANL_002"
	CodeDocumentTooLarge     ErrorCode = "ANL_003"
	CodeLanguageUnsupported  ErrorCode = "ANL_004"
	CodeSummarizationFailed  ErrorCode = "ANL_005"
	CodeClassificationFailed ErrorCode = "ANL_006"
	CodeAnnotationFailed     ErrorCode = "ANL_007"
)

// HTTPStatus maps an error code to the HTTP status the API layer should
// return for it.  Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam, CodeDocumentEmpty, CodeDocumentTooLarge, CodeLanguageUnsupported:
		return http.StatusBadRequest
	case CodeNotFound, CodeAnalysisNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
