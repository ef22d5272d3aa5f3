package inventory

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error o el commit falla,
// ni el movimiento ni el nuevo stock quedan visibles.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementWriter,
		stockRepo repository.StockRepository,
	) error) error
}

// RequestDeduplicator reserva claves de solicitud (Idempotency-Key) para rechazar reenvíos.
// Claim devuelve false si la clave ya estaba reservada.
type RequestDeduplicator interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
