package models

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	ErrKindValidation        ErrorKind = "VALIDATION"
	ErrKindPermission        ErrorKind = "PERMISSION"
	ErrKindInvalidState      ErrorKind = "INVALID_STATE"
	ErrKindConflict          ErrorKind = "CONFLICT"
	ErrKindNotFound          ErrorKind = "NOT_FOUND"
	ErrKindDependencyMissing ErrorKind = "DEPENDENCY_MISSING"
)

// EngineError - ошибка операции движка с типом для маппинга в http статус.
// Сообщение предназначено пользователю, как hMsg в ответах api.
type EngineError struct {
	Kind    ErrorKind
	Message string
}

func (e *EngineError) Error() string {
	return e.Message
}

func newEngineError(kind ErrorKind, format string, args ...interface{}) error {
	return &EngineError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewValidationError(format string, args ...interface{}) error {
	return newEngineError(ErrKindValidation, format, args...)
}

func NewPermissionError(format string, args ...interface{}) error {
	return newEngineError(ErrKindPermission, format, args...)
}

func NewInvalidStateError(format string, args ...interface{}) error {
	return newEngineError(ErrKindInvalidState, format, args...)
}

func NewConflictError(format string, args ...interface{}) error {
	return newEngineError(ErrKindConflict, format, args...)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newEngineError(ErrKindNotFound, format, args...)
}

func NewDependencyMissingError(format string, args ...interface{}) error {
	return newEngineError(ErrKindDependencyMissing, format, args...)
}

// GetErrorKind возвращает тип ошибки, учитывая обертки errors.Wrap
func GetErrorKind(err error) (ErrorKind, bool) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Kind, true
	}
	return "", false
}

func IsErrorKind(err error, kind ErrorKind) bool {
	got, ok := GetErrorKind(err)
	return ok && got == kind
}
