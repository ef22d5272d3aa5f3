package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// StockCurrent es el valor vivo y autoritativo; solo lo modifica el motor de stock.
type Product struct {
	ID           int64
	Code         string // código único inmutable (UUID generado al crear)
	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal // precio de venta unitario
	Cost         decimal.Decimal // costo unitario
	StockMinimum int64           // punto de reorden
	StockCurrent int64
	Active       bool // baja lógica: nunca se elimina
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock informa si el stock actual está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockCurrent <= p.StockMinimum
}

// Deficit devuelve StockMinimum - StockCurrent (puede ser negativo si hay holgura).
func (p *Product) Deficit() int64 {
	return p.StockMinimum - p.StockCurrent
}
