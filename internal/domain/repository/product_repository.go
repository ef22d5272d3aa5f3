package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ProductFilter filtros del listado de catálogo.
type ProductFilter struct {
	Search          string // coincide con nombre o código (sin distinguir mayúsculas)
	Category        string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) cuando el producto no existe.
// No expone escritura de StockCurrent: eso vive en StockRepository, dentro de la tx del motor.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve el producto solo si está activo.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update actualiza campos que no son stock (nombre, precios, mínimo, categoría).
	Update(ctx context.Context, product *entity.Product) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
}

// StockRepository es el lado de escritura del Product Store. Solo se obtiene atado a la
// transacción del TxRunner; fuera de ella no hay forma de sobreescribir el stock.
type StockRepository interface {
	// GetForUpdate lee el producto activo y toma el bloqueo exclusivo de su fila
	// hasta el fin de la transacción. (nil, nil) si no existe o está inactivo.
	GetForUpdate(ctx context.Context, productID int64) (*entity.Product, error)
	// SetStock sobreescribe stock_current. domain.ErrProductNotFound si no hay fila.
	SetStock(ctx context.Context, productID, value int64) error
}
