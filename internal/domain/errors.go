package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	// ErrConflict indica una colisión de escritura concurrente sobre el corte
	// diario; el caller puede reintentar la reconciliación completa (es idempotente).
	ErrConflict = errors.New("conflicto con el estado actual")
)
