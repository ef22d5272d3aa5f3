package inventory

import (
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockChange resultado de aplicar la regla de un tipo de movimiento sobre un stock.
type StockChange struct {
	Before   int64
	After    int64
	Recorded int64 // cantidad que se registra en el libro (magnitud del cambio)
}

// ValidateQuantity valida la cantidad recibida según el tipo, sin tocar almacenamiento.
// ENTRADA y SALIDA exigen cantidad > 0; AJUSTE recibe un valor absoluto objetivo >= 0.
func ValidateQuantity(kind entity.MovementKind, quantity int64) error {
	if !kind.Valid() {
		return domain.ErrInvalidMovementKind
	}
	if kind == entity.MovementAdjustment {
		if quantity < 0 {
			return domain.ErrInvalidQuantity
		}
		return nil
	}
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ComputeStock aplica la regla del tipo de movimiento (servicio de dominio).
//
//	ENTRADA: después = antes + q
//	SALIDA:  después = antes - q   (InsufficientStockError si q > antes)
//	AJUSTE:  después = q           (registrado = |q - antes|)
func ComputeStock(kind entity.MovementKind, before, quantity int64) (StockChange, error) {
	if err := ValidateQuantity(kind, quantity); err != nil {
		return StockChange{}, err
	}
	switch kind {
	case entity.MovementEntry:
		return StockChange{Before: before, After: before + quantity, Recorded: quantity}, nil
	case entity.MovementExit:
		if quantity > before {
			return StockChange{}, &domain.InsufficientStockError{Requested: quantity, Available: before}
		}
		return StockChange{Before: before, After: before - quantity, Recorded: quantity}, nil
	default:
		delta := quantity - before
		if delta < 0 {
			delta = -delta
		}
		return StockChange{Before: before, After: quantity, Recorded: delta}, nil
	}
}
