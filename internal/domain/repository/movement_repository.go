package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MovementFilter filtros combinables (AND) del libro de movimientos.
// Los punteros nil no filtran. Page empieza en 1.
type MovementFilter struct {
	ProductID *int64
	Kind      *entity.MovementKind
	UserID    *int64
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// Offset devuelve el desplazamiento correspondiente a Page/Limit.
func (f MovementFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// MovementWriter agrega movimientos al libro. Solo se usa atado a la tx del motor.
type MovementWriter interface {
	// Create persiste el movimiento y completa su ID (monótono).
	Create(ctx context.Context, movement *entity.Movement) error
}

// MovementRepository lado de lectura del libro (append-only: no hay update ni delete).
// Orden estable: created_at DESC, id DESC.
type MovementRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, int, error)
	// LastByProduct devuelve el movimiento más reciente de un producto (nil si no hay).
	LastByProduct(ctx context.Context, productID int64) (*entity.Movement, error)
}
