package domain

import "fmt"

// ValidationError indica un campo faltante o inválido
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ReferenceError indica una relación que apunta a algo inexistente
type ReferenceError struct {
	Field string
	ID    uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not reference an existing record", e.Field, e.ID)
}

// NotFoundError indica un id que no existe
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
