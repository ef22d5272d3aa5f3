package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. stock_inicial se registra como ENTRADA.
type CreateProductRequest struct {
	Name         string          `json:"nombre" validate:"required,min=1,max=200"`
	Description  string          `json:"descripcion" validate:"max=1000"`
	Category     string          `json:"categoria" validate:"max=100"`
	Price        decimal.Decimal `json:"precio"`
	Cost         decimal.Decimal `json:"costo"`
	StockMinimum int64           `json:"stock_minimo" validate:"gte=0"`
	InitialStock int64           `json:"stock_inicial" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name         *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"descripcion" validate:"omitempty,max=1000"`
	Category     *string          `json:"categoria" validate:"omitempty,max=100"`
	Price        *decimal.Decimal `json:"precio"`
	Cost         *decimal.Decimal `json:"costo"`
	StockMinimum *int64           `json:"stock_minimo" validate:"omitempty,gte=0"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	Page            int    `query:"page" validate:"omitempty,min=1"`
	Limit           int    `query:"limit" validate:"omitempty,min=1"`
	Search          string `query:"q" validate:"max=100"`
	Category        string `query:"categoria" validate:"max=100"`
	IncludeInactive bool   `query:"incluir_inactivos"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"codigo"`
	Name         string          `json:"nombre"`
	Description  string          `json:"descripcion"`
	Category     string          `json:"categoria"`
	Price        decimal.Decimal `json:"precio"`
	Cost         decimal.Decimal `json:"costo"`
	StockMinimum int64           `json:"stock_minimo"`
	StockCurrent int64           `json:"stock_actual"`
	Active       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
