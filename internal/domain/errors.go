package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores del motor de stock.
	ErrProductNotFound     = errors.New("producto no encontrado o inactivo")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInvalidMovementKind = errors.New("tipo de movimiento inválido")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrPersistence         = errors.New("fallo de persistencia")
	ErrDuplicateRequest    = errors.New("la solicitud ya fue procesada")

	// ErrConflict indica que el commit perdió una carrera (serialización, deadlock).
	// El motor lo reintenta; nunca llega al caller sin envolver en ErrPersistence.
	ErrConflict = errors.New("conflicto con el estado actual")
)

// InsufficientStockError detalla una salida rechazada por falta de stock.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Code devuelve el código estable (legible por máquina) de un error de dominio.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrInvalidMovementKind):
		return "INVALID_MOVEMENT_KIND"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrDuplicateRequest):
		return "DUPLICATE_REQUEST"
	case errors.Is(err, ErrPersistence), errors.Is(err, ErrConflict):
		return "PERSISTENCE_FAILURE"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrEmailAlreadyExists):
		return "DUPLICATE"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}
