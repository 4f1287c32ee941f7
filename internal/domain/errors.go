package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrProductNotAvailable    = errors.New("producto no disponible en la sede")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrSameSede               = errors.New("la sede de origen y destino deben ser distintas")
	ErrImmutable              = errors.New("el registro no puede modificarse")
	ErrMovementReversed       = errors.New("el movimiento ya fue revertido")
)

// ValidationError agrupa errores de validación por campo (campo -> regla incumplida).
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

// Add registra un campo inválido y devuelve el mismo error para encadenar.
func (e *ValidationError) Add(field, rule string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = rule
	return e
}

// HasErrors indica si hay al menos un campo inválido.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IsBusinessRule indica si err es una violación de regla de negocio (HTTP 422).
func IsBusinessRule(err error) bool {
	for _, target := range []error{
		ErrInsufficientStock,
		ErrProductNotAvailable,
		ErrInvalidStateTransition,
		ErrSameSede,
		ErrImmutable,
		ErrMovementReversed,
		ErrDuplicate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
