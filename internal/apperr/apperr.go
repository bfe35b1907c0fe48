// Package apperr содержит классифицированные ошибки сервиса со стабильными
// кодами. Коды попадают в тело ответа API без изменения, поэтому менять их
// нельзя.
package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeDatabase          = "DATABASE_ERROR"
	CodeUpstreamTimeout   = "UPSTREAM_TIMEOUT"
	CodeUpstreamForbidden = "UPSTREAM_403"
	CodeUpstreamNotFound  = "UPSTREAM_404"
	CodeUpstreamBadStatus = "UPSTREAM_BAD_STATUS"
	CodeUpstream          = "UPSTREAM_ERROR"
	CodeDecode            = "DECODE_ERROR"
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf возвращает код ошибки; для неклассифицированных — INTERNAL_ERROR.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf возвращает сообщение для тела ответа, не раскрывая деталей
// неклассифицированных ошибок.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
