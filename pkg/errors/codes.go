package errors

import "net/http"

// ErrorCode is a string identifier for a specific failure condition.  Codes
// are stable across releases and safe to surface in API responses and logs.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeOK                 ErrorCode = "OK"
	ErrCodeUnknown            ErrorCode = "COMMON_000"
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
)

// Document module error codes.
const (
	ErrCodeDocumentNotFound      ErrorCode = "DOC_001"
	ErrCodeDocumentEmpty         ErrorCode = "DOC_002"
	ErrCodeDocumentTooLarge      ErrorCode = "DOC_003"
	ErrCodeDocumentStoreFailed   ErrorCode = "DOC_004"
	ErrCodeChunkingFailed        ErrorCode = "DOC_005"
	ErrCodeObjectStorageFailed   ErrorCode = "DOC_006"
	ErrCodeDocumentAlreadyExists ErrorCode = "DOC_007"
)

// Citation / graph module error codes.
const (
	ErrCodeGraphStoreFailed ErrorCode = "CIT_001"
	ErrCodeGraphQueryFailed ErrorCode = "CIT_002"
	ErrCodeGraphEmpty       ErrorCode = "CIT_003"
)

// Analysis module error codes.
const (
	ErrCodeAnalysisFailed      ErrorCode = "ANA_001"
	ErrCodeReportNotFound      ErrorCode = "ANA_002"
	ErrCodeSectionNotFound     ErrorCode = "ANA_003"
	ErrCodeComparisonFailed    ErrorCode = "ANA_004"
	ErrCodeProvisionNotFound   ErrorCode = "ANA_005"
	ErrCodeInsufficientDocs    ErrorCode = "ANA_006"
	ErrCodeReportPersistFailed ErrorCode = "ANA_007"
)

// Retrieval / QA module error codes.
const (
	ErrCodeVectorStoreFailed  ErrorCode = "QA_001"
	ErrCodeEmbeddingFailed    ErrorCode = "QA_002"
	ErrCodeLLMRequestFailed   ErrorCode = "QA_003"
	ErrCodeSearchFailed       ErrorCode = "QA_004"
	ErrCodeNoIndexedDocuments ErrorCode = "QA_005"
)

// Infrastructure error codes.
const (
	ErrCodeDatabaseError   ErrorCode = "INFRA_001"
	ErrCodeCacheError      ErrorCode = "INFRA_002"
	ErrCodeMessagingError  ErrorCode = "INFRA_003"
	ErrCodeMigrationFailed ErrorCode = "INFRA_004"
	ErrCodeConfigInvalid   ErrorCode = "INFRA_005"
)

// httpStatusByCode maps error codes to HTTP status codes for the API layer.
// Codes without an entry fall back to 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeOK:                 http.StatusOK,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,

	ErrCodeDocumentNotFound:      http.StatusNotFound,
	ErrCodeDocumentEmpty:         http.StatusBadRequest,
	ErrCodeDocumentTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeDocumentAlreadyExists: http.StatusConflict,

	ErrCodeReportNotFound:    http.StatusNotFound,
	ErrCodeSectionNotFound:   http.StatusNotFound,
	ErrCodeProvisionNotFound: http.StatusNotFound,
	ErrCodeInsufficientDocs:  http.StatusBadRequest,
	ErrCodeGraphEmpty:        http.StatusNotFound,

	ErrCodeNoIndexedDocuments: http.StatusConflict,
}

// HTTPStatus returns the HTTP status code associated with c.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := httpStatusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
