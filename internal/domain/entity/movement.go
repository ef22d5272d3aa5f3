package entity

import "time"

// MovementKind tipo de movimiento de stock.
type MovementKind string

// Tipos de movimiento. Los literales son los del contrato HTTP.
const (
	MovementEntry      MovementKind = "ENTRADA"
	MovementExit       MovementKind = "SALIDA"
	MovementAdjustment MovementKind = "AJUSTE"
)

// Valid informa si el tipo es uno de los tres reconocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}

// Movement registro inmutable de un cambio de stock.
// Quantity es siempre la magnitud del cambio (>= 0); en AJUSTE es |después - antes|.
type Movement struct {
	ID          int64
	ProductID   int64
	Kind        MovementKind
	Quantity    int64
	StockBefore int64
	StockAfter  int64
	Reason      string
	UserID      int64
	RequestID   string // opcional: clave de idempotencia del cliente
	CreatedAt   time.Time
}
