package dto

import "time"

// MovementRequest body para POST /api/movimientos/{entrada,salida,ajuste}.
// En ajuste, cantidad es el stock absoluto objetivo. producto_id y cantidad los valida el motor.
type MovementRequest struct {
	ProductID int64  `json:"producto_id"`
	Quantity  int64  `json:"cantidad"`
	Reason    string `json:"motivo" validate:"max=255"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"producto_id"`
	Kind        string    `json:"tipo"`
	Quantity    int64     `json:"cantidad"`
	StockBefore int64     `json:"stock_anterior"`
	StockAfter  int64     `json:"stock_nuevo"`
	Reason      string    `json:"motivo"`
	UserID      int64     `json:"usuario_id"`
	RequestID   string    `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"fecha"`
}

// RegisterMovementResponse respuesta de un movimiento confirmado.
type RegisterMovementResponse struct {
	Movement     MovementResponse `json:"movimiento"`
	StockCurrent int64            `json:"stock_actual"`
}

// MovementListQuery filtros del listado de movimientos (query string).
// desde/hasta aceptan YYYY-MM-DD o RFC3339; hasta con solo fecha incluye el día completo.
type MovementListQuery struct {
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1"`
	ProductID int64  `query:"producto_id" validate:"omitempty,gt=0"`
	Kind      string `query:"tipo" validate:"omitempty,oneof=ENTRADA SALIDA AJUSTE entrada salida ajuste"`
	UserID    int64  `query:"usuario_id" validate:"omitempty,gt=0"`
	From      string `query:"desde"`
	To        string `query:"hasta"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
