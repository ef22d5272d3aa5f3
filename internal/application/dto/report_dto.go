package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockItemDTO producto en o bajo su stock mínimo.
type LowStockItemDTO struct {
	ProductID    int64  `json:"producto_id"`
	Code         string `json:"codigo"`
	Name         string `json:"nombre"`
	Category     string `json:"categoria"`
	StockCurrent int64  `json:"stock_actual"`
	StockMinimum int64  `json:"stock_minimo"`
	Deficit      int64  `json:"deficit"` // stock_minimo - stock_actual
}

// ValuationDTO valorización del inventario activo.
type ValuationDTO struct {
	Products  int             `json:"productos"`
	Units     int64           `json:"unidades"`
	SaleValue decimal.Decimal `json:"valor_venta"` // sum(precio * stock)
	CostValue decimal.Decimal `json:"valor_costo"`
}

// ActivityDTO actividad agregada en una ventana de días.
type ActivityDTO struct {
	Key      string `json:"clave"`
	Label    string `json:"nombre"`
	Count    int    `json:"movimientos"`
	Quantity int64  `json:"cantidad"`
}

// ActivityResponse actividad agrupada por producto, usuario o categoría.
type ActivityResponse struct {
	Days    int           `json:"dias"`
	GroupBy string        `json:"agrupar"`
	Since   time.Time     `json:"desde"`
	Items   []ActivityDTO `json:"items"`
}

// KindCountDTO conteo por tipo de movimiento.
type KindCountDTO struct {
	Kind     string `json:"tipo"`
	Count    int    `json:"movimientos"`
	Quantity int64  `json:"cantidad"`
}

// DailyTotalDTO totales diarios por tipo.
type DailyTotalDTO struct {
	Day      string `json:"dia"` // YYYY-MM-DD
	Kind     string `json:"tipo"`
	Count    int    `json:"movimientos"`
	Quantity int64  `json:"cantidad"`
}

// SummaryResponse resumen del tablero de movimientos en la ventana.
type SummaryResponse struct {
	Days        int             `json:"dias"`
	Since       time.Time       `json:"desde"`
	ByKind      []KindCountDTO  `json:"por_tipo"`
	Daily       []DailyTotalDTO `json:"diario"`
	TopProducts []ActivityDTO   `json:"top_productos"`
	TopUsers    []ActivityDTO   `json:"top_usuarios"`
	LowStock    int             `json:"productos_stock_bajo"`
	Valuation   ValuationDTO    `json:"valorizacion"`
}
