package errors

import "net/http"

// ErrorCode identifies a failure category. Codes are stable strings so they
// can be matched by API clients and emitted as metric labels.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK           ErrorCode = "OK"
	CodeUnknown      ErrorCode = "COMMON_000"
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeConflict     ErrorCode = "COMMON_004"
)

// Chain construction error codes.
const (
	CodeChainInvalidUnits   ErrorCode = "CHAIN_001"
	CodeChainInvalidAngle   ErrorCode = "CHAIN_002"
	CodeChainInvalidLength  ErrorCode = "CHAIN_003"
	CodeChainInvalidElement ErrorCode = "CHAIN_004"
	CodeChainEmptyMonomer   ErrorCode = "CHAIN_005"
)

// XYZ codec error codes.
const (
	CodeMalformedDocument ErrorCode = "XYZ_001"
	CodeMalformedLine     ErrorCode = "XYZ_002"
	CodeCountMismatch     ErrorCode = "XYZ_003"
)

// Source / storage error codes.
const (
	CodeSourceUnavailable ErrorCode = "SRC_001"
	CodeStorageError      ErrorCode = "SRC_002"
)

// httpStatusByCode maps error codes to HTTP status codes. Codes not listed
// here map to 500.
var httpStatusByCode = map[ErrorCode]int{
	CodeOK:                  http.StatusOK,
	CodeInvalidParam:        http.StatusBadRequest,
	CodeNotFound:            http.StatusNotFound,
	CodeConflict:            http.StatusConflict,
	CodeChainInvalidUnits:   http.StatusBadRequest,
	CodeChainInvalidAngle:   http.StatusBadRequest,
	CodeChainInvalidLength:  http.StatusBadRequest,
	CodeChainInvalidElement: http.StatusBadRequest,
	CodeChainEmptyMonomer:   http.StatusBadRequest,
	CodeMalformedDocument:   http.StatusUnprocessableEntity,
	CodeMalformedLine:       http.StatusUnprocessableEntity,
	CodeCountMismatch:       http.StatusUnprocessableEntity,
	CodeSourceUnavailable:   http.StatusBadRequest,
	CodeStorageError:        http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code associated with c.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether c maps to a 4xx HTTP status.
func (c ErrorCode) IsClientError() bool {
	s := c.HTTPStatus()
	return s >= 400 && s < 500
}
