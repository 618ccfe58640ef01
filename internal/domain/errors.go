package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("registro no encontrado")
	ErrValidation   = errors.New("formulario inválido")
	ErrRemote       = errors.New("fallo del almacén remoto")
	ErrParse        = errors.New("archivo de importación inválido")
	ErrUnauthorized = errors.New("no autorizado")
)

// ValidationError falla local de forma del formulario; nunca llega al almacén remoto.
type ValidationError struct {
	Fields []string // campos ofensivos, en el orden del formulario
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Fields, ", "))
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RemoteError envuelve cualquier fallo de una llamada al adaptador remoto.
type RemoteError struct {
	Op  string // list, create, update, delete
	Err error
}

// NewRemoteError construye el error de la operación op.
func NewRemoteError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrRemote.Error(), e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrRemote) sin perder la causa original.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// ParseError payload de importación que no es JSON o no es un arreglo.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrParse.Error(), e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrParse.Error(), e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
