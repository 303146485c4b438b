// Package handlers implements the HTTP request handlers for the polychain
// API. Handlers stay thin: they decode transport concerns and delegate to
// the application service, which owns defaults, caps, and metrics.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/polyforge/polychain/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps an application error onto its HTTP status using the
// error-code table. Non-AppError values are masked as internal errors so
// wrapped causes never leak implementation detail to clients.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	resp := ErrorResponse{Code: code.String()}

	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	} else {
		code = errors.CodeInternal
		resp.Code = code.String()
		resp.Message = "internal server error"
	}
	writeJSON(w, code.HTTPStatus(), resp)
}

// writeError builds an AppError inline and writes it. Convenience for
// transport-level failures (bad JSON, oversized bodies).
func writeError(w http.ResponseWriter, code errors.ErrorCode, message string) {
	writeJSON(w, code.HTTPStatus(), ErrorResponse{Code: code.String(), Message: message})
}
