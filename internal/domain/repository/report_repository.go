package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ValuationResult valorización del inventario activo.
type ValuationResult struct {
	Products  int
	Units     int64
	SaleValue decimal.Decimal // sum(price * stock_current)
	CostValue decimal.Decimal // sum(cost * stock_current)
}

// KindCount conteo y suma de cantidad por tipo de movimiento.
type KindCount struct {
	Kind     entity.MovementKind
	Count    int
	Quantity int64
}

// DailyTotal suma de cantidades por día y tipo.
type DailyTotal struct {
	Day      time.Time // truncado a medianoche UTC
	Kind     entity.MovementKind
	Count    int
	Quantity int64
}

// ActivityRow actividad agregada por una clave (producto, usuario o categoría).
type ActivityRow struct {
	Key      string // id del producto/usuario o nombre de categoría
	Label    string // nombre legible
	Count    int
	Quantity int64
}

// ReportRepository consultas de solo lectura derivadas del Product Store y el libro.
// No hay caché: cada llamada recalcula sobre el estado actual.
type ReportRepository interface {
	// LowStockProducts productos activos con stock_current <= stock_minimum (sin orden garantizado).
	LowStockProducts(ctx context.Context) ([]*entity.Product, error)
	Valuation(ctx context.Context) (ValuationResult, error)
	CountByKind(ctx context.Context, from, to time.Time) ([]KindCount, error)
	DailyTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error)
	// TopProducts/TopUsers ordenan por cantidad de movimientos desc desde `since`.
	TopProducts(ctx context.Context, since time.Time, limit int) ([]ActivityRow, error)
	TopUsers(ctx context.Context, since time.Time, limit int) ([]ActivityRow, error)
	ActivityByCategory(ctx context.Context, since time.Time) ([]ActivityRow, error)
}
