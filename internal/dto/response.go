package dto

import "github.com/SscSPs/bookkeeping_app/internal/apperrors"

// ErrorBody describes why an operation failed.
type ErrorBody struct {
	Kind    apperrors.Kind    `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Response is the single envelope every endpoint answers with.
// Exactly one of Data or Error is meaningful, selected by OK.
type Response struct {
	OK      bool       `json:"ok"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Success wraps a successful result.
func Success(message string, data any) Response {
	return Response{OK: true, Message: message, Data: data}
}

// Failure wraps a failed result.
func Failure(kind apperrors.Kind, message string, fields map[string]string) Response {
	return Response{OK: false, Error: &ErrorBody{Kind: kind, Message: message, Fields: fields}}
}
